// Package core defines the pipeline types and interfaces for wxrpipe.
// Each stage of the pipeline is a clean, testable interface.
package core

// Term is a single taxonomy term (category, tag, or custom taxonomy).
type Term struct {
	Name string
	Slug string
}

// Taxonomy groups the terms of one taxonomy domain, in document order.
type Taxonomy struct {
	Domain string
	Terms  []Term
}

// RawMeta is one wp:postmeta key/value pair, value still in its raw
// (possibly PHP-serialized) string form.
type RawMeta struct {
	Key   string
	Value string
}

// Item is one <item> element as read from the WXR stream, before any
// field processing.
type Item struct {
	ID         string
	Title      string
	Slug       string
	Type       string
	Date       string
	Content    string
	Excerpt    string
	Taxonomies []Taxonomy
	Meta       []RawMeta
}

// AddTerm appends a term to the taxonomy named by domain, creating the
// taxonomy on first use. Domains keep document order.
func (it *Item) AddTerm(domain string, term Term) {
	for i := range it.Taxonomies {
		if it.Taxonomies[i].Domain == domain {
			it.Taxonomies[i].Terms = append(it.Taxonomies[i].Terms, term)
			return
		}
	}
	it.Taxonomies = append(it.Taxonomies, Taxonomy{Domain: domain, Terms: []Term{term}})
}

// CustomField is one processed custom field. Fields keep their document
// order so the YAML output is stable.
type CustomField struct {
	Key   string
	Value any
}

// Post is one finished output record.
type Post struct {
	ID           string
	Title        string
	Slug         string
	Type         string
	Date         string
	Content      string
	Taxonomies   []Taxonomy
	CustomFields []CustomField
}

// CustomField returns the value stored under key, if any.
func (p *Post) CustomField(key string) (any, bool) {
	for _, f := range p.CustomFields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// SetCustomField stores value under key. A repeated key turns the field
// into a list and appends, preserving first-seen order (WordPress allows
// the same meta key on a post more than once).
func (p *Post) SetCustomField(key string, value any) {
	for i, f := range p.CustomFields {
		if f.Key != key {
			continue
		}
		if list, ok := f.Value.([]any); ok {
			p.CustomFields[i].Value = append(list, value)
		} else {
			p.CustomFields[i].Value = []any{f.Value, value}
		}
		return
	}
	p.CustomFields = append(p.CustomFields, CustomField{Key: key, Value: value})
}

// ReplaceCustomField overwrites the value under key, inserting the field
// if it does not exist yet.
func (p *Post) ReplaceCustomField(key string, value any) {
	for i, f := range p.CustomFields {
		if f.Key == key {
			p.CustomFields[i].Value = value
			return
		}
	}
	p.CustomFields = append(p.CustomFields, CustomField{Key: key, Value: value})
}

// DeleteCustomField removes the field stored under key, if present.
func (p *Post) DeleteCustomField(key string) {
	for i, f := range p.CustomFields {
		if f.Key == key {
			p.CustomFields = append(p.CustomFields[:i], p.CustomFields[i+1:]...)
			return
		}
	}
}

// Normalizer converts a WordPress HTML fragment into Markdown
// (the canonical content format when conversion is enabled).
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Decoder turns a raw serialized meta value into a native value.
// ok is false when the value is not decodable, in which case the raw
// string passes through unchanged.
type Decoder interface {
	Decode(raw string) (value any, ok bool)
}

// Resolver maps attachment IDs to relative file paths. IDs with no known
// attachment are echoed back unchanged.
type Resolver interface {
	Resolve(ids []string) []string
}
