package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLayout(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		expected Layout
	}{
		{name: "known tag passes through", tag: "pie-chart", expected: LayoutPieChart},
		{name: "unknown tag becomes default", tag: "bogus-layout", expected: LayoutDefault},
		{name: "empty tag becomes default", tag: "", expected: LayoutDefault},
		{name: "case sensitive", tag: "Timeline", expected: LayoutDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLayout(tt.tag))
		})
	}
}

func TestLayoutClassification(t *testing.T) {
	// image+content layouts split the canvas; everything else is full-width
	for _, l := range AllLayouts {
		switch l {
		case LayoutDefault, LayoutQuote, LayoutTimeline, LayoutBlocks:
			assert.False(t, l.FullWidth(), "%s should be image+content", l)
			assert.True(t, l.AdjustableImage(), "%s image should be adjustable", l)
		default:
			assert.True(t, l.FullWidth(), "%s should be full-width", l)
			assert.False(t, l.AdjustableImage(), "%s image should not be adjustable", l)
		}
	}

	assert.True(t, LayoutBarChart.Chart())
	assert.True(t, LayoutLineChart.Chart())
	assert.False(t, LayoutSwotAnalysis.Chart())

	assert.True(t, LayoutHierarchy.Infographic())
	assert.True(t, LayoutProcessFlow.Infographic())
	assert.False(t, LayoutTitle.Infographic())
	assert.False(t, LayoutCTA.Infographic())
}

func TestParseImagePosition(t *testing.T) {
	assert.Equal(t, ImageRight, ParseImagePosition("right"))
	assert.Equal(t, ImageLeft, ParseImagePosition("sideways"))
	assert.Equal(t, ImageLeft, ParseImagePosition(""))

	assert.True(t, ImageTop.Vertical())
	assert.True(t, ImageBottom.Vertical())
	assert.False(t, ImageLeft.Vertical())
}

func TestParseFeatureIcon(t *testing.T) {
	assert.Equal(t, IconRocket, ParseFeatureIcon("rocket"))
	assert.Equal(t, IconDefault, ParseFeatureIcon("sparkles"))
	assert.Equal(t, IconDefault, ParseFeatureIcon(""))
}

func TestSlideContentAt(t *testing.T) {
	s := &Slide{Content: []string{"a", "b"}}
	assert.Equal(t, "a", s.ContentAt(0))
	assert.Equal(t, "", s.ContentAt(5))
	assert.Equal(t, "", s.ContentAt(-1))
}

func TestSlideClone(t *testing.T) {
	s := &Slide{ID: "slide_1", Content: []string{"a"}}
	dup := s.Clone()
	dup.Content[0] = "changed"
	dup.Title = "changed"

	assert.Equal(t, "a", s.Content[0])
	assert.Empty(t, s.Title)
}
