package paragraph

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// BlockKind discriminates the Block variants.
type BlockKind int

const (
	// Paragraph holds a single inline run.
	Paragraph BlockKind = iota
	// Heading holds an inline run with a level of 1–6.
	Heading
	// List holds one inline run per item.
	List
	// Raw passes an unnormalized HTML subtree through for fallback
	// conversion (tables, blockquotes, code blocks, nested lists).
	Raw
)

// Block is one normalized block-level node. Blocks never nest: nested
// ambiguous structure is either recursed into and flattened, or kept
// whole as a Raw block.
type Block struct {
	Kind    BlockKind
	Level   int        // Heading only
	Ordered bool       // List only
	Inline  []Inline   // Paragraph, Heading
	Items   [][]Inline // List
	Node    *html.Node // Raw
}

// InlineKind discriminates the Inline token variants.
type InlineKind int

const (
	// Text is plain character data.
	Text InlineKind = iota
	// Break is a soft line division inside a paragraph (single <br>).
	Break
	// Emphasis renders as *text*.
	Emphasis
	// Strong renders as **text**.
	Strong
	// Code renders as `text`.
	Code
	// Link renders as [text](href), with an optional title.
	Link
	// Image renders as ![text](href); Text carries the alt text.
	Image
)

// Inline is one atomic inline token.
type Inline struct {
	Kind  InlineKind
	Text  string
	Href  string // Link, Image
	Title string // Link, Image
}

// Paragraphize parses a raw HTML fragment and returns its normalized
// block sequence. Each call is independent; no state is retained.
func Paragraphize(fragment string) ([]Block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML fragment: %w", err)
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return nil, nil
	}
	return split(body.Nodes[0].FirstChild), nil
}
