package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatQuestionsSections(t *testing.T) {
	md := FormatQuestions("Photosynthesis", []Question{
		{Type: Analysis, Content: "Compare C3 and C4 plants."},
		{Type: Synthesis, Content: "Design a greenhouse that maximises yield."},
		{Type: Analysis, Content: "  "},
		{Type: "other", Content: "Why do leaves change colour?"},
	})

	assert.True(t, strings.HasPrefix(md, "# Generated Questions\n\n_Topic: Photosynthesis_\n\n"))
	assert.Contains(t, md, "## Analysis Questions\n\n1. Compare C3 and C4 plants.\n\n## Synthesis")
	assert.NotContains(t, md, "Why do leaves change colour?")
	assert.Contains(t, md, "## Synthesis Questions\n\n1. Design a greenhouse that maximises yield.\n\n")
	assert.Contains(t, md, "## Study Order and Feedback Strategy\n\n1. Start with the analysis questions")
	assert.True(t, strings.HasSuffix(md, "4. Use the writing tips to improve your answers.\n"))

	analysisAt := strings.Index(md, "## Analysis Questions")
	synthesisAt := strings.Index(md, "## Synthesis Questions")
	assert.Less(t, analysisAt, synthesisAt)
}

func TestFormatQuestionsWithoutTopic(t *testing.T) {
	md := FormatQuestions("", nil)
	assert.NotContains(t, md, "_Topic:")
	assert.Contains(t, md, "## Analysis Questions\n\n## Synthesis Questions")
}

func TestRendererRendersMarkdown(t *testing.T) {
	html, err := NewRenderer().Render("# Q1\n\n1. first\n2. second\n")
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Q1</h1>")
	assert.Contains(t, html, "<ol>")
	assert.Contains(t, html, "<li>first</li>")
}

func TestRendererSanitizes(t *testing.T) {
	html, err := NewRenderer().Render("hello <script>alert(1)</script>\n\n[x](javascript:alert(1))")
	require.NoError(t, err)

	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, "hello")
}
