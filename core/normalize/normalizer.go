// Package normalize implements the Normalizer interface.
// It converts a WordPress HTML content fragment into Markdown by
// reconstructing its paragraph structure first, then rendering the
// normalized blocks and repairing block boundaries in the result.
package normalize

import (
	"fmt"

	"github.com/gaurav-prasanna/wxrpipe/core/markdown"
	"github.com/gaurav-prasanna/wxrpipe/core/paragraph"
)

// MarkdownNormalizer converts WordPress HTML to Markdown.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize converts an HTML fragment into Markdown.
func (n *MarkdownNormalizer) Normalize(html string) (string, error) {
	if html == "" {
		return "", nil
	}

	blocks, err := paragraph.Paragraphize(html)
	if err != nil {
		return "", fmt.Errorf("normalizing paragraphs: %w", err)
	}

	md, err := markdown.Convert(blocks)
	if err != nil {
		return "", fmt.Errorf("converting to markdown: %w", err)
	}

	return markdown.Postprocess(md), nil
}
