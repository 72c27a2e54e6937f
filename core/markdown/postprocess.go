package markdown

import (
	"regexp"
	"strings"
)

// extraBlank matches three or more consecutive newlines, allowing
// horizontal whitespace on the blank lines in between.
var extraBlank = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)

// Postprocess repairs spacing defects in generated Markdown: every line
// that begins a block construct gets a blank line before it unless the
// preceding line is blank or itself a block construct, and runs of blank
// lines collapse to a single one. Idempotent: applying it to its own
// output is a no-op.
func Postprocess(md string) string {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	md = strings.ReplaceAll(md, "\r", "\n")

	var out []string
	for _, line := range strings.Split(md, "\n") {
		if len(out) > 0 && beginsBlock(line) {
			prev := out[len(out)-1]
			if strings.TrimSpace(prev) != "" && !beginsBlock(prev) {
				out = append(out, "")
			}
		}
		out = append(out, line)
	}

	md = strings.Join(out, "\n")
	md = extraBlank.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md)
}

// beginsBlock reports whether the line starts a heading, list item, or
// blockquote.
func beginsBlock(line string) bool {
	if strings.HasPrefix(line, ">") {
		return true
	}
	if n := prefixLen(line, '#'); n >= 1 && n <= 6 && hasMarkerSpace(line, n) {
		return true
	}
	if len(line) >= 2 && (line[0] == '-' || line[0] == '*' || line[0] == '+') && line[1] == ' ' {
		return true
	}
	if n := digitPrefix(line); n > 0 && n+1 < len(line) && line[n] == '.' && line[n+1] == ' ' {
		return true
	}
	return false
}

func prefixLen(line string, ch byte) int {
	n := 0
	for n < len(line) && line[n] == ch {
		n++
	}
	return n
}

func digitPrefix(line string) int {
	n := 0
	for n < len(line) && line[n] >= '0' && line[n] <= '9' {
		n++
	}
	return n
}

func hasMarkerSpace(line string, n int) bool {
	return n < len(line) && line[n] == ' '
}
