package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/wxrpipe/core/paragraph"
)

func convert(t *testing.T, fragment string) string {
	t.Helper()
	blocks, err := paragraph.Paragraphize(fragment)
	require.NoError(t, err)
	md, err := Convert(blocks)
	require.NoError(t, err)
	return md
}

func TestConvertLinkStaysInOneParagraph(t *testing.T) {
	md := convert(t, `Visit <a href="https://example.com/">this</a> site.`)
	assert.Equal(t, "Visit [this](https://example.com/) site.", md)
	assert.NotContains(t, md, "\n\n")
}

func TestConvertLinkTitle(t *testing.T) {
	md := convert(t, `<a href="https://example.com/" title="Example">go</a>`)
	assert.Equal(t, `[go](https://example.com/ "Example")`, md)
}

func TestConvertInlineFormatting(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{"emphasis", "an <em>italic</em> word", "an *italic* word"},
		{"strong", "a <strong>bold</strong> word", "a **bold** word"},
		{"bold alias", "a <b>bold</b> word", "a **bold** word"},
		{"code span", "run <code>go build</code> now", "run `go build` now"},
		{"image", `<p>see <img src="a.jpg" alt="photo"> here</p>`, "see ![photo](a.jpg) here"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, convert(t, tc.fragment))
		})
	}
}

func TestConvertHeadings(t *testing.T) {
	md := convert(t, "<h1>Top</h1><h3>Deep</h3>")
	assert.Equal(t, "# Top\n\n### Deep", md)
}

func TestConvertLists(t *testing.T) {
	md := convert(t, "<ul><li>one</li><li>two</li></ul>")
	assert.Equal(t, "- one\n- two", md)

	md = convert(t, "<ol><li>first</li><li>second</li></ol>")
	assert.Equal(t, "1. first\n2. second", md)
}

func TestConvertSoftBreak(t *testing.T) {
	md := convert(t, "A<br>B")
	assert.Equal(t, "A\nB", md)
}

func TestConvertBlankLineBetweenBlocks(t *testing.T) {
	md := convert(t, "A<br><br>B<h2>Head</h2>")
	assert.Equal(t, "A\n\nB\n\n## Head", md)
}

func TestConvertRawBlockFallback(t *testing.T) {
	md := convert(t, "<blockquote>quoted words</blockquote>")
	assert.Contains(t, md, ">")
	assert.Contains(t, md, "quoted words")
}

func TestConvertTableFallbackKeepsContent(t *testing.T) {
	md := convert(t, "<table><tr><td>alpha</td><td>beta</td></tr></table>")
	assert.Contains(t, md, "alpha")
	assert.Contains(t, md, "beta")
}

func TestConvertEmptyInput(t *testing.T) {
	assert.Equal(t, "", convert(t, ""))
}

func TestConvertHeadingFlattensLineDivisions(t *testing.T) {
	md := convert(t, "<h2>line<br>division</h2>")
	assert.Equal(t, "## line division", md)
	assert.False(t, strings.Contains(md, "\n"))
}
