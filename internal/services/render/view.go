// Package render turns slides into their visual form. view.go computes the
// layout-independent view models (chart geometry, strategy selection,
// invalid-data states); html.go turns them into markup shared by the
// preview endpoint and the PDF exporter.
package render

import (
	"fmt"
	"strings"

	"github.com/ternarybob/prezo/internal/codec"
	"github.com/ternarybob/prezo/internal/models"
)

// Strategy selects how a slide occupies the canvas.
type Strategy string

const (
	// StrategyFullWidth renders content across the whole canvas, with any
	// image as a background.
	StrategyFullWidth Strategy = "full-width"

	// StrategyImageContent splits the canvas into an image region and a
	// content region.
	StrategyImageContent Strategy = "image-content"
)

// StrategyFor returns the rendering strategy for a layout.
func StrategyFor(layout models.Layout) Strategy {
	if layout.FullWidth() {
		return StrategyFullWidth
	}
	return StrategyImageContent
}

// ClampIndex clamps a requested slide index to the deck's bounds. An empty
// deck always yields 0.
func ClampIndex(deck *models.Deck, i int) int {
	if deck == nil || len(deck.Slides) == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i > len(deck.Slides)-1 {
		return len(deck.Slides) - 1
	}
	return i
}

// PieSlice is one segment of a pie chart with its share of the whole and
// its angular extent for conic-gradient rendering.
type PieSlice struct {
	Label    string
	Value    float64
	Percent  float64
	Color    string
	StartDeg float64
	EndDeg   float64
}

// PieSlices computes segment shares and angles. Non-positive values
// contribute nothing; a total of zero yields no slices (the invalid state).
func PieSlices(points []models.ChartPoint, theme *models.Theme) []PieSlice {
	var total float64
	for _, p := range points {
		if p.Value > 0 {
			total += p.Value
		}
	}
	if total <= 0 {
		return nil
	}

	slices := make([]PieSlice, 0, len(points))
	var cursor float64
	for i, p := range points {
		if p.Value <= 0 {
			continue
		}
		share := p.Value / total
		slice := PieSlice{
			Label:    p.Label,
			Value:    p.Value,
			Percent:  share * 100,
			Color:    theme.ChartColor(i),
			StartDeg: cursor,
			EndDeg:   cursor + share*360,
		}
		cursor = slice.EndDeg
		slices = append(slices, slice)
	}
	return slices
}

// Bar is one column of a bar chart, its height scaled against the largest
// value.
type Bar struct {
	Label     string
	Value     float64
	HeightPct float64
	Color     string
}

// Bars scales columns to the tallest value. No positive values yields nil.
func Bars(points []models.ChartPoint, theme *models.Theme) []Bar {
	var max float64
	for _, p := range points {
		if p.Value > max {
			max = p.Value
		}
	}
	if max <= 0 {
		return nil
	}

	bars := make([]Bar, 0, len(points))
	for i, p := range points {
		height := 0.0
		if p.Value > 0 {
			height = p.Value / max * 100
		}
		bars = append(bars, Bar{
			Label:     p.Label,
			Value:     p.Value,
			HeightPct: height,
			Color:     theme.ChartColor(i),
		})
	}
	return bars
}

// LinePoints maps chart points onto an SVG polyline "x,y x,y ..." string
// inside a width x height viewport. Fewer than two points is the invalid
// state and yields "".
func LinePoints(points []models.ChartPoint, width, height float64) string {
	if len(points) < 2 {
		return ""
	}

	var min, max float64
	min, max = points[0].Value, points[0].Value
	for _, p := range points[1:] {
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	coords := make([]string, len(points))
	step := width / float64(len(points)-1)
	for i, p := range points {
		x := float64(i) * step
		y := height - (p.Value-min)/span*height
		coords[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}
	return strings.Join(coords, " ")
}

// FeatureView resolves a feature card's icon through the closed icon set.
type FeatureView struct {
	Icon        models.FeatureIcon
	Title       string
	Description string
}

// FeatureViews maps decoded features to their renderable form.
func FeatureViews(features []codec.Feature) []FeatureView {
	out := make([]FeatureView, len(features))
	for i, f := range features {
		out[i] = FeatureView{
			Icon:        models.ParseFeatureIcon(f.Icon),
			Title:       f.Title,
			Description: f.Description,
		}
	}
	return out
}
