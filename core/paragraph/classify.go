// Package paragraph reconstructs a well-formed block structure from the
// loosely-structured HTML found in WordPress content fields. WordPress
// stores posts with implicit paragraphs (bare text, <br> runs, blank
// lines) mixed with real block elements; this package normalizes a
// fragment into a flat sequence of Block values ready for Markdown
// rendering.
package paragraph

import (
	"strings"

	"golang.org/x/net/html"
)

// inlineTags are elements that render as part of the surrounding text
// run. Anything not listed here (and not a text node or <br>) is treated
// as block-level: unknown structure is never flattened into a paragraph.
var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true,
	"cite": true, "code": true, "data": true, "del": true, "dfn": true,
	"em": true, "i": true, "img": true, "ins": true, "kbd": true,
	"mark": true, "q": true, "s": true, "samp": true, "small": true,
	"span": true, "strong": true, "sub": true, "sup": true,
	"time": true, "tt": true, "u": true, "var": true, "wbr": true,
}

// containerTags are block elements whose children may again mix inline
// and block content. The splitter recurses into these instead of passing
// them through, so stray inline runs inside a <div> still get wrapped.
var containerTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"main": true, "aside": true, "header": true, "footer": true,
	"address": true, "figure": true, "figcaption": true,
	"fieldset": true, "form": true, "noscript": true,
}

// IsInline reports whether n belongs to the surrounding inline run.
// Text nodes are inline; elements are inline when their tag is in the
// inline set and no block element hides underneath (a <span> wrapping a
// <div> is treated as block). <br> is neither: the splitter handles it
// as a break marker.
func IsInline(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
		if n.Data == "br" {
			return false
		}
		return inlineTags[n.Data] && !hasBlockDescendant(n)
	default:
		return false
	}
}

func isBreak(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "br"
}

func hasBlockDescendant(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.Data != "br" && !inlineTags[c.Data] {
			return true
		}
		if hasBlockDescendant(c) {
			return true
		}
	}
	return false
}

// textContent concatenates all text descendants of n in document order.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
