// Package assemble orchestrates the per-post field pipeline: it turns
// streamed WXR items into finished output records, applying the
// post-type filter, custom-field exclusion, serialized-value decoding,
// optional Markdown conversion, and two-phase gallery resolution.
//
// Attachments can appear anywhere in the export, including after the
// posts that reference them, so resolution runs as a second pass once
// the whole stream has been consumed.
package assemble

import (
	"fmt"
	"io"
	"strings"

	"github.com/gaurav-prasanna/wxrpipe/core"
	"github.com/gaurav-prasanna/wxrpipe/core/gallery"
)

// Custom-field keys with gallery semantics.
const (
	galleryKey   = "galeria"
	thumbnailKey = "_thumbnail_id"
)

// Options configures the assembler.
type Options struct {
	// PostTypes is the inclusion filter; empty means include all.
	PostTypes []string
	// ExcludeFields drops custom fields whose key matches a pattern,
	// either exactly or by prefix with a trailing *.
	ExcludeFields []string
	// ConvertMarkdown enables HTML→Markdown conversion of content.
	ConvertMarkdown bool
}

// Assembler builds the output record list, one item at a time.
type Assembler struct {
	opts    Options
	norm    core.Normalizer
	dec     core.Decoder
	library *gallery.Library
	posts   []core.Post
	diag    io.Writer
}

// New creates an Assembler using the given normalizer and decoder.
func New(opts Options, norm core.Normalizer, dec core.Decoder) *Assembler {
	return &Assembler{
		opts:    opts,
		norm:    norm,
		dec:     dec,
		library: gallery.New(),
		diag:    io.Discard,
	}
}

// SetDiagnostics routes recoverable-error diagnostics to w.
// By default they are discarded.
func (a *Assembler) SetDiagnostics(w io.Writer) {
	if w != nil {
		a.diag = w
	}
}

// Add processes one streamed item. Per-field failures fall back to the
// raw value and never abort the run.
func (a *Assembler) Add(it *core.Item) {
	post := core.Post{
		ID:         it.ID,
		Title:      it.Title,
		Slug:       it.Slug,
		Type:       it.Type,
		Date:       it.Date,
		Content:    it.Content,
		Taxonomies: it.Taxonomies,
	}

	if a.opts.ConvertMarkdown && it.Content != "" {
		md, err := a.norm.Normalize(it.Content)
		if err != nil {
			fmt.Fprintf(a.diag, "  ✗ post %s: markdown conversion failed, keeping HTML: %v\n", it.ID, err)
		} else {
			post.Content = md
		}
	}

	for _, m := range it.Meta {
		if a.excluded(m.Key) {
			continue
		}
		if value, ok := a.dec.Decode(m.Value); ok {
			post.SetCustomField(m.Key, value)
		} else {
			post.SetCustomField(m.Key, m.Value)
		}
	}

	// Attachments feed the gallery library regardless of the post-type
	// filter; the path is read from raw meta so an exclusion pattern
	// cannot break resolution.
	if it.Type == "attachment" {
		for _, m := range it.Meta {
			if m.Key == gallery.AttachedFileKey {
				a.library.Add(it.ID, m.Value)
				break
			}
		}
	}

	if a.includes(it.Type) {
		a.posts = append(a.posts, post)
	}
}

// Finish runs the gallery and thumbnail resolution pass and returns the
// assembled records.
func (a *Assembler) Finish() []core.Post {
	for i := range a.posts {
		a.resolveGallery(&a.posts[i])
		a.resolveThumbnail(&a.posts[i])
	}
	return a.posts
}

// Count returns the number of records assembled so far.
func (a *Assembler) Count() int {
	return len(a.posts)
}

func (a *Assembler) resolveGallery(p *core.Post) {
	value, ok := p.CustomField(galleryKey)
	if !ok {
		return
	}
	ids := galleryIDs(value)
	if ids == nil {
		return
	}

	resolved := a.library.Resolve(ids)
	for i, id := range ids {
		if resolved[i] == id {
			if _, known := a.library.Lookup(id); !known {
				fmt.Fprintf(a.diag, "  ✗ post %s: gallery attachment %s not found, keeping ID\n", p.ID, id)
			}
		}
	}
	p.ReplaceCustomField(galleryKey, resolved)
}

func (a *Assembler) resolveThumbnail(p *core.Post) {
	value, ok := p.CustomField(thumbnailKey)
	if !ok {
		return
	}
	// Duplicate _thumbnail_id meta accumulates into a list; the first
	// occurrence wins.
	if list, isList := value.([]any); isList {
		if len(list) == 0 {
			p.DeleteCustomField(thumbnailKey)
			return
		}
		value = list[0]
	}

	id := fmt.Sprint(value)
	if path, known := a.library.Lookup(id); known {
		p.ReplaceCustomField("thumbnail", path)
	} else {
		fmt.Fprintf(a.diag, "  ✗ post %s: thumbnail attachment %s not found, keeping ID\n", p.ID, id)
		p.ReplaceCustomField("thumbnail", value)
	}
	p.DeleteCustomField(thumbnailKey)
}

// galleryIDs extracts attachment IDs from a gallery field value: either
// a comma-separated string or an already-decoded list. Anything else is
// left alone.
func galleryIDs(value any) []string {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		ids := make([]string, 0, len(parts))
		for _, part := range parts {
			ids = append(ids, strings.TrimSpace(part))
		}
		return ids
	case []any:
		ids := make([]string, len(v))
		for i, e := range v {
			ids[i] = strings.TrimSpace(fmt.Sprint(e))
		}
		return ids
	default:
		return nil
	}
}

// excluded matches key against the exclusion patterns: exact, or prefix
// when the pattern ends in *.
func (a *Assembler) excluded(key string) bool {
	for _, pattern := range a.opts.ExcludeFields {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(key, prefix) {
				return true
			}
			continue
		}
		if key == pattern {
			return true
		}
	}
	return false
}

func (a *Assembler) includes(postType string) bool {
	if len(a.opts.PostTypes) == 0 {
		return true
	}
	for _, t := range a.opts.PostTypes {
		if t == postType {
			return true
		}
	}
	return false
}
