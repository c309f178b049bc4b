package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/prezo/internal/codec"
	"github.com/ternarybob/prezo/internal/models"
	"github.com/ternarybob/prezo/internal/services/theme"
)

func TestStrategyFor(t *testing.T) {
	assert.Equal(t, StrategyImageContent, StrategyFor(models.LayoutDefault))
	assert.Equal(t, StrategyImageContent, StrategyFor(models.LayoutQuote))
	assert.Equal(t, StrategyImageContent, StrategyFor(models.LayoutTimeline))
	assert.Equal(t, StrategyImageContent, StrategyFor(models.LayoutBlocks))

	assert.Equal(t, StrategyFullWidth, StrategyFor(models.LayoutTitle))
	assert.Equal(t, StrategyFullWidth, StrategyFor(models.LayoutHierarchy))
	assert.Equal(t, StrategyFullWidth, StrategyFor(models.LayoutPieChart))
}

func TestClampIndex(t *testing.T) {
	deck := &models.Deck{Slides: []*models.Slide{{ID: "a"}, {ID: "b"}, {ID: "c"}}}

	assert.Equal(t, 0, ClampIndex(deck, -5))
	assert.Equal(t, 1, ClampIndex(deck, 1))
	assert.Equal(t, 2, ClampIndex(deck, 99))
	assert.Equal(t, 0, ClampIndex(&models.Deck{}, 3))
	assert.Equal(t, 0, ClampIndex(nil, 3))
}

func TestPieSlices(t *testing.T) {
	slices := PieSlices([]models.ChartPoint{
		{Label: "A", Value: 10},
		{Label: "B", Value: 30},
	}, &theme.Midnight)

	require.Len(t, slices, 2)
	assert.InDelta(t, 25.0, slices[0].Percent, 0.001)
	assert.InDelta(t, 75.0, slices[1].Percent, 0.001)
	assert.InDelta(t, 90.0, slices[0].EndDeg, 0.001)
	assert.InDelta(t, 360.0, slices[1].EndDeg, 0.001)
	assert.Equal(t, slices[0].EndDeg, slices[1].StartDeg)
}

func TestPieSlicesIgnoresNonPositive(t *testing.T) {
	slices := PieSlices([]models.ChartPoint{
		{Label: "A", Value: -4},
		{Label: "B", Value: 50},
	}, &theme.Midnight)

	require.Len(t, slices, 1)
	assert.Equal(t, "B", slices[0].Label)
	assert.InDelta(t, 100.0, slices[0].Percent, 0.001)
}

func TestPieSlicesEmptyIsInvalid(t *testing.T) {
	assert.Nil(t, PieSlices(nil, &theme.Midnight))
	assert.Nil(t, PieSlices([]models.ChartPoint{{Label: "A", Value: 0}}, &theme.Midnight))
}

func TestBars(t *testing.T) {
	bars := Bars([]models.ChartPoint{
		{Label: "Q1", Value: 50},
		{Label: "Q2", Value: 100},
		{Label: "Q3", Value: 0},
	}, &theme.Midnight)

	require.Len(t, bars, 3)
	assert.InDelta(t, 50.0, bars[0].HeightPct, 0.001)
	assert.InDelta(t, 100.0, bars[1].HeightPct, 0.001)
	assert.InDelta(t, 0.0, bars[2].HeightPct, 0.001)
}

func TestLinePoints(t *testing.T) {
	points := LinePoints([]models.ChartPoint{
		{Label: "a", Value: 0},
		{Label: "b", Value: 10},
		{Label: "c", Value: 5},
	}, 100, 100)

	assert.Equal(t, "0.0,100.0 50.0,0.0 100.0,50.0", points)
}

func TestLinePointsTooFewIsInvalid(t *testing.T) {
	assert.Empty(t, LinePoints([]models.ChartPoint{{Label: "a", Value: 1}}, 100, 100))
	assert.Empty(t, LinePoints(nil, 100, 100))
}

func TestLinePointsFlatSeries(t *testing.T) {
	points := LinePoints([]models.ChartPoint{
		{Label: "a", Value: 7},
		{Label: "b", Value: 7},
	}, 100, 100)
	assert.Equal(t, "0.0,100.0 100.0,100.0", points)
}

func TestFeatureViews(t *testing.T) {
	views := FeatureViews([]codec.Feature{
		{Icon: "rocket", Title: "Fast"},
		{Icon: "sparkle", Title: "Unknown icon"},
	})

	require.Len(t, views, 2)
	assert.Equal(t, models.IconRocket, views[0].Icon)
	assert.Equal(t, models.IconDefault, views[1].Icon)
}
