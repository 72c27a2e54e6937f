package paragraph

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// blankLine matches a run of two or more newlines separated only by
// horizontal whitespace: the classic implicit paragraph boundary in
// WordPress content with no <p> wrapping. Redundant blank lines are
// swallowed by the same match so they cannot produce empty paragraphs.
var blankLine = regexp.MustCompile(`(?:\n[ \t\r]*){2,}`)

// splitter accumulates inline runs and flushes them as synthetic
// paragraphs at block boundaries, double <br> runs, and blank lines.
type splitter struct {
	blocks []Block
	accum  []Inline
	breaks int // length of the current consecutive <br> run
}

// split walks the sibling chain starting at first and returns the
// normalized block sequence.
func split(first *html.Node) []Block {
	s := &splitter{}
	for n := first; n != nil; n = n.NextSibling {
		s.add(n)
	}
	s.flush()
	return s.blocks
}

func (s *splitter) add(n *html.Node) {
	if isBreak(n) {
		s.breaks++
		return
	}

	// Whitespace-only text between breaks does not interrupt the run:
	// <br> \n <br> counts as one double-break event.
	if n.Type == html.TextNode && s.breaks > 0 && strings.TrimSpace(n.Data) == "" {
		return
	}

	if IsInline(n) {
		s.endBreakRun()
		if n.Type == html.TextNode {
			s.addText(n.Data)
		} else {
			s.accum = append(s.accum, tokens(n)...)
		}
		return
	}

	// Block-level child: pending breaks are redundant at a block
	// boundary, the flush covers them.
	s.breaks = 0
	s.flush()
	s.blocks = append(s.blocks, buildBlocks(n)...)
}

// endBreakRun resolves a pending <br> run before more inline content is
// appended: two or more breaks end the paragraph, a single break is a
// soft line division inside it.
func (s *splitter) endBreakRun() {
	switch {
	case s.breaks >= 2:
		s.flush()
	case s.breaks == 1:
		if len(s.accum) > 0 {
			s.accum = append(s.accum, Inline{Kind: Break})
		}
	}
	s.breaks = 0
}

// addText appends text to the accumulator, honoring blank-line implicit
// paragraph boundaries inside the text itself.
func (s *splitter) addText(text string) {
	segments := blankLine.Split(text, -1)
	for i, seg := range segments {
		if i > 0 {
			s.flush()
		}
		if seg != "" {
			s.accum = append(s.accum, Inline{Kind: Text, Text: seg})
		}
	}
}

// flush emits the accumulated inline run as a paragraph. Runs with no
// visible content are discarded, never emitted as empty paragraphs.
func (s *splitter) flush() {
	run := s.accum
	s.accum = nil
	if !visible(run) {
		return
	}
	s.blocks = append(s.blocks, Block{Kind: Paragraph, Inline: trimRun(run)})
}

// visible reports whether the run carries anything beyond whitespace.
func visible(run []Inline) bool {
	for _, tok := range run {
		switch tok.Kind {
		case Break:
		case Text:
			if strings.TrimSpace(tok.Text) != "" {
				return true
			}
		default:
			return true
		}
	}
	return false
}

// trimRun drops leading and trailing whitespace-only tokens and breaks
// so paragraphs start and end with content.
func trimRun(run []Inline) []Inline {
	isBlank := func(tok Inline) bool {
		return tok.Kind == Break || (tok.Kind == Text && strings.TrimSpace(tok.Text) == "")
	}
	start, end := 0, len(run)
	for start < end && isBlank(run[start]) {
		start++
	}
	for end > start && isBlank(run[end-1]) {
		end--
	}
	return run[start:end]
}

// tokens flattens an inline element into its token sequence.
func tokens(n *html.Node) []Inline {
	switch {
	case n.Type == html.TextNode:
		if n.Data == "" {
			return nil
		}
		return []Inline{{Kind: Text, Text: n.Data}}
	case n.Type != html.ElementNode:
		return nil
	}

	switch n.Data {
	case "br":
		return []Inline{{Kind: Break}}
	case "a":
		return []Inline{{Kind: Link, Text: textContent(n), Href: attr(n, "href"), Title: attr(n, "title")}}
	case "img":
		return []Inline{{Kind: Image, Text: attr(n, "alt"), Href: attr(n, "src"), Title: attr(n, "title")}}
	case "em", "i":
		return []Inline{{Kind: Emphasis, Text: textContent(n)}}
	case "strong", "b":
		return []Inline{{Kind: Strong, Text: textContent(n)}}
	case "code", "kbd", "samp", "var", "tt":
		return []Inline{{Kind: Code, Text: textContent(n)}}
	}

	// Other wrappers (span, small, u, ...) contribute their children's
	// tokens in order.
	var out []Inline
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, tokens(c)...)
	}
	return out
}

// inlineChildren collects the token sequence of all of n's children.
func inlineChildren(n *html.Node) []Inline {
	var out []Inline
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, tokens(c)...)
	}
	return trimRun(out)
}

// buildBlocks turns one block-level element into normalized blocks.
// Containers are recursed into and their results spliced flat, so block
// nesting never survives normalization.
func buildBlocks(n *html.Node) []Block {
	if n.Type != html.ElementNode {
		return nil
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		return []Block{{Kind: Heading, Level: level, Inline: inlineChildren(n)}}
	case "ul", "ol":
		if listHasBlockItems(n) {
			return []Block{{Kind: Raw, Node: n}}
		}
		return []Block{buildList(n)}
	}

	if containerTags[n.Data] {
		return split(n.FirstChild)
	}

	// Everything else (blockquote, pre, table, hr, unknown tags) is
	// passed through whole for fallback conversion.
	return []Block{{Kind: Raw, Node: n}}
}

func buildList(n *html.Node) Block {
	b := Block{Kind: List, Ordered: n.Data == "ol"}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		b.Items = append(b.Items, inlineChildren(c))
	}
	return b
}

// listHasBlockItems reports whether any list item carries block-level
// children (nested lists, paragraphs). Those lists keep their structure
// through the Raw fallback instead of being flattened.
func listHasBlockItems(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		for g := c.FirstChild; g != nil; g = g.NextSibling {
			if g.Type == html.ElementNode && g.Data != "br" && !inlineTags[g.Data] {
				return true
			}
		}
	}
	return false
}
