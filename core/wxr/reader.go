// Package wxr implements a streaming reader for WordPress WXR export
// files. It walks the XML token stream and decodes one <item> element at
// a time, so peak memory stays bounded by a single post regardless of
// export size.
package wxr

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/gaurav-prasanna/wxrpipe/core"
)

// item mirrors the subset of a WXR <item> the pipeline consumes.
// Namespaced fields carry the full namespace URL in the tag so that
// content:encoded and excerpt:encoded do not collide. WordPress bumps
// the wp namespace with the export format version; 1.2 has been current
// since WordPress 3.1.
type item struct {
	Title      string     `xml:"title"`
	Content    string     `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
	Excerpt    string     `xml:"http://wordpress.org/export/1.2/excerpt/ encoded"`
	PostID     string     `xml:"http://wordpress.org/export/1.2/ post_id"`
	PostDate   string     `xml:"http://wordpress.org/export/1.2/ post_date"`
	PostName   string     `xml:"http://wordpress.org/export/1.2/ post_name"`
	PostType   string     `xml:"http://wordpress.org/export/1.2/ post_type"`
	Categories []category `xml:"category"`
	Meta       []postmeta `xml:"http://wordpress.org/export/1.2/ postmeta"`
}

type category struct {
	Domain   string `xml:"domain,attr"`
	NiceName string `xml:"nicename,attr"`
	Name     string `xml:",chardata"`
}

type postmeta struct {
	Key   string `xml:"meta_key"`
	Value string `xml:"meta_value"`
}

// Reader streams core.Item records out of a WXR document.
type Reader struct {
	dec *xml.Decoder
}

// New creates a Reader over r. With lenient set, the decoder tolerates
// common well-formedness defects (unmatched tags, bad entities) instead
// of failing the whole run; a hard syntax error still aborts.
func New(r io.Reader, lenient bool) *Reader {
	dec := xml.NewDecoder(r)
	if lenient {
		dec.Strict = false
		dec.AutoClose = xml.HTMLAutoClose
		dec.Entity = xml.HTMLEntity
	}
	return &Reader{dec: dec}
}

// Next returns the next <item> in the stream, or io.EOF when the
// document is exhausted.
func (r *Reader) Next() (*core.Item, error) {
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("reading XML stream: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "item" {
			continue
		}

		var raw item
		if err := r.dec.DecodeElement(&raw, &start); err != nil {
			return nil, fmt.Errorf("decoding <item>: %w", err)
		}
		return convert(&raw), nil
	}
}

// convert maps the decoded XML item onto the pipeline's Item type.
func convert(raw *item) *core.Item {
	it := &core.Item{
		ID:      strings.TrimSpace(raw.PostID),
		Title:   raw.Title,
		Slug:    raw.PostName,
		Type:    raw.PostType,
		Date:    raw.PostDate,
		Content: raw.Content,
		Excerpt: raw.Excerpt,
	}

	for _, c := range raw.Categories {
		if c.Domain == "" || c.NiceName == "" {
			continue
		}
		it.AddTerm(c.Domain, core.Term{Name: c.Name, Slug: c.NiceName})
	}

	for _, m := range raw.Meta {
		if m.Key == "" {
			continue
		}
		it.Meta = append(it.Meta, core.RawMeta{Key: m.Key, Value: m.Value})
	}

	return it
}
