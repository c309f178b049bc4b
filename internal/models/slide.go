package models

// Layout selects which content codec and rendering strategy applies to a slide.
// The set is closed: unrecognized tags from the generator are coerced to
// LayoutDefault at normalization and never propagated.
type Layout string

const (
	LayoutDefault         Layout = "default"
	LayoutTimeline        Layout = "timeline"
	LayoutBlocks          Layout = "blocks"
	LayoutTitle           Layout = "title"
	LayoutQuote           Layout = "quote"
	LayoutComparison      Layout = "comparison"
	LayoutFeatures        Layout = "features"
	LayoutCTA             Layout = "cta"
	LayoutBarChart        Layout = "bar-chart"
	LayoutPieChart        Layout = "pie-chart"
	LayoutLineChart       Layout = "line-chart"
	LayoutSwotAnalysis    Layout = "swot-analysis"
	LayoutProcessFlow     Layout = "process-flow"
	LayoutCircularDiagram Layout = "circular-diagram"
	LayoutHierarchy       Layout = "hierarchy"
)

// AllLayouts lists every valid layout tag in display order.
var AllLayouts = []Layout{
	LayoutTitle,
	LayoutDefault,
	LayoutQuote,
	LayoutBlocks,
	LayoutTimeline,
	LayoutProcessFlow,
	LayoutCircularDiagram,
	LayoutHierarchy,
	LayoutComparison,
	LayoutSwotAnalysis,
	LayoutFeatures,
	LayoutCTA,
	LayoutBarChart,
	LayoutPieChart,
	LayoutLineChart,
}

var validLayouts = func() map[Layout]bool {
	m := make(map[Layout]bool, len(AllLayouts))
	for _, l := range AllLayouts {
		m[l] = true
	}
	return m
}()

// ParseLayout coerces an untrusted layout tag to a member of the closed set.
// Unknown tags become LayoutDefault (data-cleaning, not an error).
func ParseLayout(tag string) Layout {
	if validLayouts[Layout(tag)] {
		return Layout(tag)
	}
	return LayoutDefault
}

// Valid reports whether l is a member of the closed layout set.
func (l Layout) Valid() bool {
	return validLayouts[l]
}

// Chart reports whether l renders a data chart from JSON chart points.
func (l Layout) Chart() bool {
	switch l {
	case LayoutBarChart, LayoutPieChart, LayoutLineChart:
		return true
	}
	return false
}

// Infographic reports whether l is a chart or diagram layout that renders
// structured data full-canvas and never shows a photographic image. These
// are also the layouts for which no cover image is requested at generation.
func (l Layout) Infographic() bool {
	switch l {
	case LayoutBarChart, LayoutPieChart, LayoutLineChart,
		LayoutSwotAnalysis, LayoutProcessFlow, LayoutCircularDiagram, LayoutHierarchy:
		return true
	}
	return false
}

// FullWidth reports whether l uses a full-width rendering strategy consuming
// the whole slide canvas. The complement (default, quote, timeline, blocks)
// splits the canvas into an image region and a content region.
func (l Layout) FullWidth() bool {
	switch l {
	case LayoutDefault, LayoutQuote, LayoutTimeline, LayoutBlocks:
		return false
	}
	return true
}

// AdjustableImage reports whether the slide's image occupies a user-selectable
// position. Only image+content layouts qualify; title and cta use the image as
// a full-bleed background instead.
func (l Layout) AdjustableImage() bool {
	return !l.FullWidth()
}

// ImagePosition selects which side of the canvas the image region occupies
// for image+content layouts.
type ImagePosition string

const (
	ImageLeft   ImagePosition = "left"
	ImageRight  ImagePosition = "right"
	ImageTop    ImagePosition = "top"
	ImageBottom ImagePosition = "bottom"
)

// AllImagePositions lists the valid image positions.
var AllImagePositions = []ImagePosition{ImageLeft, ImageRight, ImageTop, ImageBottom}

// ParseImagePosition coerces an untrusted position to a valid one,
// defaulting to ImageLeft.
func ParseImagePosition(s string) ImagePosition {
	switch ImagePosition(s) {
	case ImageLeft, ImageRight, ImageTop, ImageBottom:
		return ImagePosition(s)
	}
	return ImageLeft
}

// Vertical reports whether the position splits the canvas top/bottom
// rather than left/right.
func (p ImagePosition) Vertical() bool {
	return p == ImageTop || p == ImageBottom
}

// Slide is the canonical per-slide entity. Content is an ordered sequence of
// strings whose interpretation depends entirely on Layout; consumers decode
// it through the codec package rather than reading raw strings.
type Slide struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Content       []string      `json:"content"`
	Layout        Layout        `json:"layout"`
	ImagePrompt   string        `json:"image_prompt"`
	ImageURL      string        `json:"image_url,omitempty"`
	ImagePosition ImagePosition `json:"image_position,omitempty"`
}

// ContentAt returns the content string at index i, or "" when the sequence
// is shorter. Consumers must tolerate missing trailing indices.
func (s *Slide) ContentAt(i int) string {
	if i < 0 || i >= len(s.Content) {
		return ""
	}
	return s.Content[i]
}

// Clone returns a deep copy of the slide.
func (s *Slide) Clone() *Slide {
	dup := *s
	dup.Content = append([]string(nil), s.Content...)
	return &dup
}

// ChartPoint is one labeled data point of a bar/pie/line chart.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// HierarchyNode is one node of the hierarchy layout's rooted tree.
// Children is always a list (possibly empty) after decode, never nil.
type HierarchyNode struct {
	Name     string           `json:"name"`
	Children []*HierarchyNode `json:"children"`
}

// FlatNode is the editing-time projection of one hierarchy node: its name and
// its depth from the root in a pre-order walk. Never persisted.
type FlatNode struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// FeatureIcon is the closed set of icon names the features layout accepts.
type FeatureIcon string

const (
	IconLightbulb FeatureIcon = "lightbulb"
	IconShield    FeatureIcon = "shield"
	IconRocket    FeatureIcon = "rocket"
	IconCog       FeatureIcon = "cog"
	IconDefault   FeatureIcon = "default"
)

// ParseFeatureIcon coerces an untrusted icon name to a member of the closed
// set, falling back to IconDefault.
func ParseFeatureIcon(s string) FeatureIcon {
	switch FeatureIcon(s) {
	case IconLightbulb, IconShield, IconRocket, IconCog:
		return FeatureIcon(s)
	}
	return IconDefault
}
