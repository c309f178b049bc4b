package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/models"
	"github.com/ternarybob/prezo/internal/services/theme"
)

func renderOne(t *testing.T, slide *models.Slide) string {
	t.Helper()
	r := NewRenderer(arbor.Logger())
	html, err := r.RenderSlide(slide, &theme.Midnight)
	require.NoError(t, err)
	return html
}

func TestRenderTitleSlide(t *testing.T) {
	html := renderOne(t, &models.Slide{
		ID:       "s1",
		Title:    "The Future of Cheese",
		Content:  []string{"An unexpectedly deep dive"},
		Layout:   models.LayoutTitle,
		ImageURL: "data:image/png;base64,AAAA",
	})

	assert.Contains(t, html, "The Future of Cheese")
	assert.Contains(t, html, "An unexpectedly deep dive")
	assert.Contains(t, html, "data:image/png;base64,AAAA")
	assert.Contains(t, html, "layout-title")
	assert.Contains(t, html, "1920px")
}

func TestRenderDefaultSlideEscapesAndMarkdown(t *testing.T) {
	html := renderOne(t, &models.Slide{
		ID:      "s1",
		Title:   "Costs <script>alert(1)</script>",
		Content: []string{"**bold** savings", "plain point"},
		Layout:  models.LayoutDefault,
	})

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestRenderImagePositionRight(t *testing.T) {
	left := renderOne(t, &models.Slide{
		ID: "s1", Title: "T", Content: []string{"a"},
		Layout: models.LayoutDefault, ImagePosition: models.ImageLeft,
		ImageURL: "http://example.com/i.jpg",
	})
	right := renderOne(t, &models.Slide{
		ID: "s1", Title: "T", Content: []string{"a"},
		Layout: models.LayoutDefault, ImagePosition: models.ImageRight,
		ImageURL: "http://example.com/i.jpg",
	})

	// left puts the image region before the content, right after
	assert.Less(t, strings.Index(left, `class="image-region"`), strings.Index(left, `class="content-region"`))
	assert.Greater(t, strings.Index(right, `class="image-region"`), strings.Index(right, `class="content-region"`))

	// the trailing image lives in its own region div, not a wrapper attribute
	assert.NotContains(t, right, "data-image")
}

func TestRenderPieChart(t *testing.T) {
	html := renderOne(t, &models.Slide{
		ID:      "s1",
		Title:   "Market Share",
		Content: []string{`[{"label":"A","value":10},{"label":"B","value":30}]`},
		Layout:  models.LayoutPieChart,
	})

	assert.Contains(t, html, "conic-gradient")
	assert.Contains(t, html, "(25%)")
	assert.Contains(t, html, "(75%)")
}

func TestRenderChartInvalidData(t *testing.T) {
	html := renderOne(t, &models.Slide{
		ID:      "s1",
		Title:   "Broken",
		Content: []string{`{"not":"an array"`},
		Layout:  models.LayoutBarChart,
	})

	assert.Contains(t, html, "No chart data")
}

func TestRenderLineChartNeedsTwoPoints(t *testing.T) {
	html := renderOne(t, &models.Slide{
		ID:      "s1",
		Title:   "Trend",
		Content: []string{`[{"label":"only","value":5}]`},
		Layout:  models.LayoutLineChart,
	})

	assert.Contains(t, html, "Not enough data")
	assert.NotContains(t, html, "<polyline")
}

func TestRenderHierarchy(t *testing.T) {
	html := renderOne(t, &models.Slide{
		ID:      "s1",
		Title:   "Org",
		Content: []string{`{"name":"CEO","children":[{"name":"CTO"}]}`},
		Layout:  models.LayoutHierarchy,
	})

	assert.Contains(t, html, "CEO")
	assert.Contains(t, html, "CTO")
	assert.Less(t, strings.Index(html, "CEO"), strings.Index(html, "CTO"))
}

func TestRenderHierarchyInvalid(t *testing.T) {
	html := renderOne(t, &models.Slide{
		ID:      "s1",
		Title:   "Org",
		Content: []string{"not json"},
		Layout:  models.LayoutHierarchy,
	})

	assert.Contains(t, html, "Invalid hierarchy data")
}

func TestRenderFeaturesFallbackIcon(t *testing.T) {
	html := renderOne(t, &models.Slide{
		ID:      "s1",
		Title:   "Why Us",
		Content: []string{"rocket :: Fast :: Ships quickly", "bogus :: Odd :: Unknown icon"},
		Layout:  models.LayoutFeatures,
	})

	assert.Contains(t, html, "🚀")
	assert.Contains(t, html, "✦")
}

func TestRenderDeckOnePagePerSlide(t *testing.T) {
	r := NewRenderer(arbor.Logger())
	deck := &models.Deck{Slides: []*models.Slide{
		{ID: "a", Title: "One", Content: []string{}, Layout: models.LayoutTitle},
		{ID: "b", Title: "Two", Content: []string{"x"}, Layout: models.LayoutDefault},
	}}

	html, err := r.RenderDeck(deck, &theme.Midnight)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(html, `class="slide`))
}
