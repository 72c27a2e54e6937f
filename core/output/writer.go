// Package output serializes assembled records to a YAML document.
// Multiline strings render as block-literal scalars so converted
// Markdown stays readable in the output file.
package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/wxrpipe/core"
	"github.com/gaurav-prasanna/wxrpipe/core/phpserial"
)

// Writer writes the YAML document to disk.
type Writer struct{}

// New creates a Writer.
func New() *Writer {
	return &Writer{}
}

// Write serializes posts and writes them to path, creating parent
// directories as needed.
func (w *Writer) Write(path string, posts []core.Post) error {
	data, err := Marshal(posts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}

// Marshal renders posts as a top-level YAML sequence. The node tree is
// built by hand so key order is fixed and ordered mappings survive.
func Marshal(posts []core.Post) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for i := range posts {
		node, err := postNode(&posts[i])
		if err != nil {
			return nil, fmt.Errorf("encoding post %s: %w", posts[i].ID, err)
		}
		root.Content = append(root.Content, node)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing YAML encoder: %w", err)
	}
	return buf.Bytes(), nil
}

func postNode(p *core.Post) (*yaml.Node, error) {
	fields, err := customFieldsNode(p.CustomFields)
	if err != nil {
		return nil, err
	}

	m := newMapping()
	addPair(m, "id", stringNode(p.ID))
	addPair(m, "title", stringNode(p.Title))
	addPair(m, "slug", stringNode(p.Slug))
	addPair(m, "post_type", stringNode(p.Type))
	addPair(m, "post_date", stringNode(p.Date))
	addPair(m, "content", stringNode(p.Content))
	addPair(m, "taxonomies", taxonomiesNode(p.Taxonomies))
	addPair(m, "custom_fields", fields)
	return m, nil
}

func taxonomiesNode(taxonomies []core.Taxonomy) *yaml.Node {
	m := newMapping()
	for _, tax := range taxonomies {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, term := range tax.Terms {
			t := newMapping()
			addPair(t, "name", stringNode(term.Name))
			addPair(t, "slug", stringNode(term.Slug))
			seq.Content = append(seq.Content, t)
		}
		addPair(m, tax.Domain, seq)
	}
	return m
}

func customFieldsNode(fields []core.CustomField) (*yaml.Node, error) {
	m := newMapping()
	for _, f := range fields {
		v, err := valueNode(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Key, err)
		}
		addPair(m, f.Key, v)
	}
	return m, nil
}

// valueNode encodes a decoded custom-field value. Ordered maps from the
// PHP decoder keep their entry order.
func valueNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case string:
		return stringNode(val), nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range val {
			seq.Content = append(seq.Content, stringNode(e))
		}
		return seq, nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range val {
			n, err := valueNode(e)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case phpserial.Map:
		m := newMapping()
		for _, entry := range val {
			key, err := keyNode(entry.Key)
			if err != nil {
				return nil, err
			}
			value, err := valueNode(entry.Value)
			if err != nil {
				return nil, err
			}
			m.Content = append(m.Content, key, value)
		}
		return m, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}

func keyNode(key any) (*yaml.Node, error) {
	if s, ok := key.(string); ok {
		return stringNode(s), nil
	}
	n := &yaml.Node{}
	if err := n.Encode(key); err != nil {
		return nil, err
	}
	return n, nil
}

func stringNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.Contains(s, "\n") {
		n.Style = yaml.LiteralStyle
	}
	return n
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func addPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, stringNode(key), value)
}
