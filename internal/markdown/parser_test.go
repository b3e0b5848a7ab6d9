package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	doc, err := NewParser().Render([]byte("---\ntitle: Home\ncta: Start logging\n---\n\n# Meals\n\nA ~~bad~~ good day.\n"))
	require.NoError(t, err)
	assert.Equal(t, Meta{Title: "Home", CTA: "Start logging"}, doc.Meta)
	assert.Contains(t, doc.HTML, `<h1 id="meals">Meals</h1>`)
	assert.Contains(t, doc.HTML, "<del>bad</del>")
}

func TestRender_NoFrontMatter(t *testing.T) {
	doc, err := NewParser().Render([]byte("just text"))
	require.NoError(t, err)
	assert.Empty(t, doc.Meta)
	assert.Contains(t, doc.HTML, "just text")
}

func TestRender_DropsRawHTML(t *testing.T) {
	doc, err := NewParser().Render([]byte("hi <script>alert(1)</script>"))
	require.NoError(t, err)
	assert.NotContains(t, doc.HTML, "<script>")
}

func TestRender_BadFrontMatter(t *testing.T) {
	_, err := NewParser().Render([]byte("---\ntitle: [unclosed\n---\nbody"))
	require.Error(t, err)
}
