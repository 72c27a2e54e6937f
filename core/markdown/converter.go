// Package markdown serializes normalized block sequences to Markdown
// and repairs boundary defects in the result. Paragraphs, headings, and
// flat lists are rendered directly; Raw blocks delegate to
// html-to-markdown for structures the paragraphizer passes through
// whole (tables, blockquotes, code blocks, nested lists).
package markdown

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/gaurav-prasanna/wxrpipe/core/paragraph"
)

// Convert renders the block sequence to Markdown, one blank line between
// any two consecutive blocks.
func Convert(blocks []paragraph.Block) (string, error) {
	var rendered []string
	for _, b := range blocks {
		text, err := renderBlock(b)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		rendered = append(rendered, strings.TrimRight(text, "\n"))
	}
	return strings.Join(rendered, "\n\n"), nil
}

func renderBlock(b paragraph.Block) (string, error) {
	switch b.Kind {
	case paragraph.Paragraph:
		return renderInline(b.Inline), nil
	case paragraph.Heading:
		return strings.Repeat("#", b.Level) + " " + flattenLine(renderInline(b.Inline)), nil
	case paragraph.List:
		return renderList(b), nil
	case paragraph.Raw:
		out, err := htmltomarkdown.ConvertNode(b.Node)
		if err != nil {
			return "", fmt.Errorf("converting raw block: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unknown block kind %d", b.Kind)
	}
}

func renderList(b paragraph.Block) string {
	var lines []string
	for i, item := range b.Items {
		marker := "-"
		if b.Ordered {
			marker = fmt.Sprintf("%d.", i+1)
		}
		lines = append(lines, marker+" "+flattenLine(renderInline(item)))
	}
	return strings.Join(lines, "\n")
}

// renderInline serializes one inline run. Plain text passes through
// unescaped: WordPress content rarely carries literal Markdown syntax,
// and escaping asterisks or underscores would mangle it far more often
// than it would help.
func renderInline(run []paragraph.Inline) string {
	var b strings.Builder
	for _, tok := range run {
		switch tok.Kind {
		case paragraph.Text:
			b.WriteString(tok.Text)
		case paragraph.Break:
			b.WriteString("\n")
		case paragraph.Emphasis:
			if tok.Text != "" {
				b.WriteString("*" + tok.Text + "*")
			}
		case paragraph.Strong:
			if tok.Text != "" {
				b.WriteString("**" + tok.Text + "**")
			}
		case paragraph.Code:
			if tok.Text != "" {
				b.WriteString("`" + tok.Text + "`")
			}
		case paragraph.Link:
			b.WriteString(renderLink(tok.Text, tok.Href, tok.Title, false))
		case paragraph.Image:
			b.WriteString(renderLink(tok.Text, tok.Href, tok.Title, true))
		}
	}
	return b.String()
}

func renderLink(text, href, title string, image bool) string {
	if href == "" {
		return text
	}
	dest := href
	if title != "" {
		dest = fmt.Sprintf("%s %q", href, title)
	}
	if image {
		return fmt.Sprintf("![%s](%s)", text, dest)
	}
	return fmt.Sprintf("[%s](%s)", text, dest)
}

// flattenLine folds internal line divisions into spaces for constructs
// that must stay on one line (headings, list items).
func flattenLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
