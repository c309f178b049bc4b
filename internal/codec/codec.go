// Package codec translates a slide's generic content sequence to and from
// the structured shape its layout implies. The editing engine, the
// presentation renderer and both exporters all consume decoded variants
// rather than raw strings, so the three stay behaviorally consistent.
//
// Decode never fails: malformed input yields the layout's empty or invalid
// variant so editing and rendering degrade gracefully instead of failing
// the whole slide.
package codec

import (
	"encoding/json"
	"strings"

	"github.com/ternarybob/prezo/internal/models"
)

// PartSeparator joins the sub-fields of packed tuple entries
// (timeline "date :: description", features "icon :: title :: description").
const PartSeparator = " :: "

// Content is the decoded, layout-typed view of a slide's content.
// Exactly one concrete variant implements it per layout family;
// consumers type-switch on the concrete type.
type Content interface {
	isContent()
}

// TitleContent holds the optional subtitle of a title slide.
type TitleContent struct {
	Subtitle string
}

// QuoteContent holds a quotation and its optional attribution.
type QuoteContent struct {
	Quote  string
	Author string
}

// TimelineEntry is one dated event on a timeline slide.
// Key is the date or heading; Value is the event description.
type TimelineEntry struct {
	Key   string
	Value string
}

// TimelineContent holds the ordered entries of a timeline slide.
type TimelineContent struct {
	Entries []TimelineEntry
}

// Feature is one feature card. Icon is kept as the raw name the user (or
// generator) supplied; renderers resolve it through models.ParseFeatureIcon
// so unknown names fall back to the default icon without losing the text.
type Feature struct {
	Icon        string
	Title       string
	Description string
}

// FeaturesContent holds the feature cards of a features slide.
type FeaturesContent struct {
	Features []Feature
}

// ComparisonContent holds the fixed four slots of a comparison slide.
// The bodies are newline-separated lists; renderers split them via Lines.
type ComparisonContent struct {
	LeftTitle  string
	LeftBody   string
	RightTitle string
	RightBody  string
}

// SwotContent holds the fixed four quadrants of a SWOT slide, each a
// newline-separated list of points.
type SwotContent struct {
	Strengths     string
	Weaknesses    string
	Opportunities string
	Threats       string
}

// ChartContent holds the decoded data points of a bar/pie/line chart slide.
// Malformed JSON decodes to an empty list, never an error.
type ChartContent struct {
	Points []models.ChartPoint
}

// HierarchyContent holds the decoded tree of a hierarchy slide.
// Root is nil for invalid or missing data; renderers and the editor must
// present a distinct invalid-data state rather than crash.
type HierarchyContent struct {
	Root *models.HierarchyNode
}

// ListContent holds the opaque items of the simple list layouts
// (default bullets, blocks, process-flow steps, circular-diagram items).
type ListContent struct {
	Items []string
}

// CTAContent holds the body text and optional action label of a
// call-to-action slide.
type CTAContent struct {
	Body   string
	Action string
}

func (TitleContent) isContent()      {}
func (QuoteContent) isContent()      {}
func (TimelineContent) isContent()   {}
func (FeaturesContent) isContent()   {}
func (ComparisonContent) isContent() {}
func (SwotContent) isContent()       {}
func (ChartContent) isContent()      {}
func (HierarchyContent) isContent()  {}
func (ListContent) isContent()       {}
func (CTAContent) isContent()        {}

// Lines splits a newline-separated body into trimmed, non-empty lines.
func Lines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// at returns content[i] or "" when the sequence is shorter; consumers must
// tolerate missing trailing indices.
func at(content []string, i int) string {
	if i < 0 || i >= len(content) {
		return ""
	}
	return content[i]
}

// Decode interprets a slide's content sequence according to its layout.
// It never returns an error: malformed input produces the layout's empty
// or invalid variant.
func Decode(layout models.Layout, content []string) Content {
	switch layout {
	case models.LayoutTitle:
		return TitleContent{Subtitle: at(content, 0)}

	case models.LayoutQuote:
		return QuoteContent{Quote: at(content, 0), Author: at(content, 1)}

	case models.LayoutCTA:
		return CTAContent{Body: at(content, 0), Action: at(content, 1)}

	case models.LayoutTimeline:
		entries := make([]TimelineEntry, 0, len(content))
		for _, item := range content {
			entries = append(entries, decodeTimelineEntry(item))
		}
		return TimelineContent{Entries: entries}

	case models.LayoutFeatures:
		features := make([]Feature, 0, len(content))
		for _, item := range content {
			features = append(features, decodeFeature(item))
		}
		return FeaturesContent{Features: features}

	case models.LayoutComparison:
		return ComparisonContent{
			LeftTitle:  at(content, 0),
			LeftBody:   at(content, 1),
			RightTitle: at(content, 2),
			RightBody:  at(content, 3),
		}

	case models.LayoutSwotAnalysis:
		return SwotContent{
			Strengths:     at(content, 0),
			Weaknesses:    at(content, 1),
			Opportunities: at(content, 2),
			Threats:       at(content, 3),
		}

	case models.LayoutBarChart, models.LayoutPieChart, models.LayoutLineChart:
		return ChartContent{Points: decodeChartPoints(at(content, 0))}

	case models.LayoutHierarchy:
		return HierarchyContent{Root: decodeHierarchy(at(content, 0))}

	default:
		// default, blocks, process-flow, circular-diagram: opaque items
		return ListContent{Items: append([]string(nil), content...)}
	}
}

// Encode is the exact inverse of Decode: it re-packs a structured variant
// into the generic content sequence its layout stores.
func Encode(c Content) []string {
	switch v := c.(type) {
	case TitleContent:
		return []string{v.Subtitle}

	case QuoteContent:
		return []string{v.Quote, v.Author}

	case CTAContent:
		return []string{v.Body, v.Action}

	case TimelineContent:
		out := make([]string, 0, len(v.Entries))
		for _, e := range v.Entries {
			out = append(out, encodeTimelineEntry(e))
		}
		return out

	case FeaturesContent:
		out := make([]string, 0, len(v.Features))
		for _, f := range v.Features {
			out = append(out, strings.Join([]string{f.Icon, f.Title, f.Description}, PartSeparator))
		}
		return out

	case ComparisonContent:
		return []string{v.LeftTitle, v.LeftBody, v.RightTitle, v.RightBody}

	case SwotContent:
		return []string{v.Strengths, v.Weaknesses, v.Opportunities, v.Threats}

	case ChartContent:
		return []string{encodeJSON(v.Points)}

	case HierarchyContent:
		if v.Root == nil {
			return nil
		}
		return []string{encodeJSON(v.Root)}

	case ListContent:
		return append([]string(nil), v.Items...)
	}
	return nil
}

// decodeTimelineEntry splits a timeline item once on "::": left trimmed is
// the date/heading, right trimmed the description. Without a separator the
// whole string is the description and the key stays empty.
func decodeTimelineEntry(item string) TimelineEntry {
	key, value, found := strings.Cut(item, "::")
	if !found {
		return TimelineEntry{Value: strings.TrimSpace(item)}
	}
	return TimelineEntry{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}
}

func encodeTimelineEntry(e TimelineEntry) string {
	// A bare value containing "::" must still carry the separator, or
	// decode would split the value itself into key and value.
	if e.Key == "" && !strings.Contains(e.Value, "::") {
		return e.Value
	}
	return e.Key + PartSeparator + e.Value
}

// decodeFeature splits a feature item on "::" into exactly three parts
// (icon name, title, description); missing parts default to empty strings.
func decodeFeature(item string) Feature {
	parts := strings.SplitN(item, "::", 3)
	var f Feature
	if len(parts) > 0 {
		f.Icon = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		f.Title = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		f.Description = strings.TrimSpace(parts[2])
	}
	return f
}

// unwrapJSON returns the JSON payload to parse, unwrapping one level of
// double encoding: the generator sometimes returns a JSON value that is
// itself serialized inside a JSON string.
func unwrapJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err == nil {
			return inner
		}
	}
	return trimmed
}

// decodeChartPoints parses a JSON array of chart points. Unparseable or
// non-array input yields an empty list, never an error.
func decodeChartPoints(raw string) []models.ChartPoint {
	if raw == "" {
		return []models.ChartPoint{}
	}

	var points []models.ChartPoint
	if err := json.Unmarshal([]byte(unwrapJSON(raw)), &points); err != nil {
		return []models.ChartPoint{}
	}
	if points == nil {
		return []models.ChartPoint{}
	}
	return points
}

// decodeHierarchy parses one hierarchy tree. Invalid or missing data yields
// nil, the distinct invalid-data sentinel. Children lists are normalized to
// be non-nil and nodes without a name are pruned.
func decodeHierarchy(raw string) *models.HierarchyNode {
	if raw == "" {
		return nil
	}

	var root models.HierarchyNode
	if err := json.Unmarshal([]byte(unwrapJSON(raw)), &root); err != nil {
		return nil
	}
	if root.Name == "" {
		return nil
	}

	normalizeHierarchy(&root)
	return &root
}

// normalizeHierarchy prunes nameless children and guarantees non-nil
// children lists at every depth.
func normalizeHierarchy(node *models.HierarchyNode) {
	kept := make([]*models.HierarchyNode, 0, len(node.Children))
	for _, child := range node.Children {
		if child == nil || child.Name == "" {
			continue
		}
		normalizeHierarchy(child)
		kept = append(kept, child)
	}
	node.Children = kept
}

// encodeJSON serializes a structured value to the pretty JSON form stored
// in content[0] for chart and hierarchy layouts.
func encodeJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
