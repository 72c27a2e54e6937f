package assemble

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/wxrpipe/core"
	"github.com/gaurav-prasanna/wxrpipe/core/normalize"
	"github.com/gaurav-prasanna/wxrpipe/core/phpserial"
)

func newAssembler(opts Options) *Assembler {
	return New(opts, normalize.New(), phpserial.New())
}

func attachment(id, path string) *core.Item {
	return &core.Item{
		ID:   id,
		Type: "attachment",
		Meta: []core.RawMeta{{Key: "_wp_attached_file", Value: path}},
	}
}

func TestGalleryResolutionEndToEnd(t *testing.T) {
	a := newAssembler(Options{PostTypes: []string{"proyectos"}})

	a.Add(&core.Item{
		ID:   "1",
		Type: "proyectos",
		Meta: []core.RawMeta{{Key: "galeria", Value: `a:2:{i:0;s:3:"100";i:1;s:3:"101";}`}},
	})
	a.Add(attachment("100", "2023/01/a.jpg"))
	a.Add(attachment("101", "2023/01/b.jpg"))

	posts := a.Finish()
	require.Len(t, posts, 1)

	value, ok := posts[0].CustomField("galeria")
	require.True(t, ok)
	assert.Equal(t, []string{"2023/01/a.jpg", "2023/01/b.jpg"}, value)
}

func TestGalleryCommaSeparatedString(t *testing.T) {
	a := newAssembler(Options{})
	a.Add(attachment("100", "2023/01/a.jpg"))
	a.Add(&core.Item{
		ID:   "2",
		Type: "post",
		Meta: []core.RawMeta{{Key: "galeria", Value: "100, 999"}},
	})

	posts := a.Finish()
	require.Len(t, posts, 2)

	value, ok := posts[1].CustomField("galeria")
	require.True(t, ok)
	assert.Equal(t, []string{"2023/01/a.jpg", "999"}, value)
}

func TestGalleryUnresolvedDiagnostic(t *testing.T) {
	a := newAssembler(Options{PostTypes: []string{"post"}})
	var diag bytes.Buffer
	a.SetDiagnostics(&diag)

	a.Add(&core.Item{
		ID:   "3",
		Type: "post",
		Meta: []core.RawMeta{{Key: "galeria", Value: "777"}},
	})
	posts := a.Finish()

	value, ok := posts[0].CustomField("galeria")
	require.True(t, ok)
	assert.Equal(t, []string{"777"}, value)
	assert.Contains(t, diag.String(), "777")
}

func TestThumbnailResolution(t *testing.T) {
	a := newAssembler(Options{PostTypes: []string{"page"}})
	a.Add(attachment("50", "2022/05/cover.png"))
	a.Add(&core.Item{
		ID:   "4",
		Type: "page",
		Meta: []core.RawMeta{{Key: "_thumbnail_id", Value: "50"}},
	})

	posts := a.Finish()
	require.Len(t, posts, 1)

	value, ok := posts[0].CustomField("thumbnail")
	require.True(t, ok)
	assert.Equal(t, "2022/05/cover.png", value)

	_, ok = posts[0].CustomField("_thumbnail_id")
	assert.False(t, ok)
}

func TestThumbnailUnresolvedKeepsID(t *testing.T) {
	a := newAssembler(Options{})
	a.Add(&core.Item{
		ID:   "5",
		Type: "post",
		Meta: []core.RawMeta{{Key: "_thumbnail_id", Value: "404"}},
	})

	posts := a.Finish()
	value, ok := posts[0].CustomField("thumbnail")
	require.True(t, ok)
	assert.Equal(t, "404", value)
}

func TestExclusionPatterns(t *testing.T) {
	a := newAssembler(Options{ExcludeFields: []string{"_g_feedback_shortcode*", "_edit_lock"}})
	a.Add(&core.Item{
		ID:   "6",
		Type: "post",
		Meta: []core.RawMeta{
			{Key: "_g_feedback_shortcode", Value: "x"},
			{Key: "_g_feedback_shortcode_v2", Value: "y"},
			{Key: "_g_feedback", Value: "keep"},
			{Key: "_edit_lock", Value: "z"},
			{Key: "_edit_last", Value: "keep"},
		},
	})

	posts := a.Finish()
	require.Len(t, posts, 1)

	_, ok := posts[0].CustomField("_g_feedback_shortcode")
	assert.False(t, ok)
	_, ok = posts[0].CustomField("_g_feedback_shortcode_v2")
	assert.False(t, ok)
	_, ok = posts[0].CustomField("_edit_lock")
	assert.False(t, ok)

	value, ok := posts[0].CustomField("_g_feedback")
	assert.True(t, ok)
	assert.Equal(t, "keep", value)
	_, ok = posts[0].CustomField("_edit_last")
	assert.True(t, ok)
}

func TestPostTypeFilter(t *testing.T) {
	a := newAssembler(Options{PostTypes: []string{"proyectos"}})
	a.Add(&core.Item{ID: "7", Type: "page"})
	a.Add(&core.Item{ID: "8", Type: "proyectos"})

	posts := a.Finish()
	require.Len(t, posts, 1)
	assert.Equal(t, "8", posts[0].ID)
}

func TestUndecodableValuePassesThroughRaw(t *testing.T) {
	a := newAssembler(Options{})
	a.Add(&core.Item{
		ID:   "9",
		Type: "post",
		Meta: []core.RawMeta{
			{Key: "plain", Value: "just a string"},
			{Key: "broken", Value: `a:2:{i:0;s:4:"test";`},
		},
	})

	posts := a.Finish()
	value, _ := posts[0].CustomField("plain")
	assert.Equal(t, "just a string", value)
	value, _ = posts[0].CustomField("broken")
	assert.Equal(t, `a:2:{i:0;s:4:"test";`, value)
}

func TestDuplicateMetaKeysAccumulate(t *testing.T) {
	a := newAssembler(Options{})
	a.Add(&core.Item{
		ID:   "10",
		Type: "post",
		Meta: []core.RawMeta{
			{Key: "rel", Value: "one"},
			{Key: "rel", Value: "two"},
			{Key: "rel", Value: "three"},
		},
	})

	posts := a.Finish()
	value, ok := posts[0].CustomField("rel")
	require.True(t, ok)
	assert.Equal(t, []any{"one", "two", "three"}, value)
}

func TestMarkdownConversion(t *testing.T) {
	a := newAssembler(Options{ConvertMarkdown: true})
	a.Add(&core.Item{
		ID:      "11",
		Type:    "post",
		Content: "<p>Hello <strong>world</strong></p>",
	})

	posts := a.Finish()
	assert.Equal(t, "Hello **world**", posts[0].Content)
}

func TestMarkdownDisabledKeepsHTML(t *testing.T) {
	a := newAssembler(Options{})
	html := "<p>Hello <strong>world</strong></p>"
	a.Add(&core.Item{ID: "12", Type: "post", Content: html})

	posts := a.Finish()
	assert.Equal(t, html, posts[0].Content)
}

func TestAttachmentRegisteredDespiteFilter(t *testing.T) {
	a := newAssembler(Options{PostTypes: []string{"post"}})
	a.Add(attachment("60", "2021/12/x.jpg"))
	a.Add(&core.Item{
		ID:   "13",
		Type: "post",
		Meta: []core.RawMeta{{Key: "galeria", Value: "60"}},
	})

	posts := a.Finish()
	require.Len(t, posts, 1)
	value, _ := posts[0].CustomField("galeria")
	assert.Equal(t, []string{"2021/12/x.jpg"}, value)
}
