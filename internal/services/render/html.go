package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"

	"github.com/ternarybob/prezo/internal/codec"
	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/models"
)

// Canvas dimensions shared with the PDF exporter's raster pages.
const (
	CanvasWidth  = 1920
	CanvasHeight = 1080
)

// iconGlyphs maps the closed icon set to renderable glyphs.
var iconGlyphs = map[models.FeatureIcon]string{
	models.IconLightbulb: "💡",
	models.IconShield:    "🛡️",
	models.IconRocket:    "🚀",
	models.IconCog:       "⚙️",
	models.IconDefault:   "✦",
}

// Renderer implements interfaces.RenderService.
type Renderer struct {
	markdown goldmark.Markdown
	logger   arbor.ILogger
}

// NewRenderer creates the HTML renderer.
func NewRenderer(logger arbor.ILogger) *Renderer {
	return &Renderer{
		markdown: goldmark.New(),
		logger:   logger,
	}
}

// RenderSlide renders one slide as a complete HTML document.
func (r *Renderer) RenderSlide(slide *models.Slide, theme *models.Theme) (string, error) {
	body, err := r.slideMarkup(slide, theme)
	if err != nil {
		return "", err
	}
	return r.document(theme, body), nil
}

// RenderDeck renders the whole deck as one paged document, one slide per
// page, for rasterized export.
func (r *Renderer) RenderDeck(deck *models.Deck, theme *models.Theme) (string, error) {
	var pages strings.Builder
	for _, slide := range deck.Slides {
		markup, err := r.slideMarkup(slide, theme)
		if err != nil {
			return "", fmt.Errorf("slide %s: %w", slide.ID, err)
		}
		pages.WriteString(markup)
	}
	return r.document(theme, pages.String()), nil
}

// document wraps slide markup in the HTML shell carrying the theme CSS.
func (r *Renderer) document(theme *models.Theme, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { background: #%s; font-family: %s; }
.slide {
  position: relative; overflow: hidden;
  width: %dpx; height: %dpx;
  background: #%s; color: #%s;
  display: flex; flex-direction: column;
  padding: 80px; page-break-after: always;
}
.slide h1 { font-size: 72px; margin-bottom: 48px; }
.slide .muted { color: #%s; }
.slide .accent { color: #%s; }
.surface { background: #%s; border-radius: 16px; padding: 32px; }
.bullets { list-style: none; font-size: 40px; line-height: 1.6; }
.bullets li { margin-bottom: 24px; padding-left: 40px; position: relative; }
.bullets li::before { content: ""; position: absolute; left: 0; top: 24px; width: 16px; height: 16px; border-radius: 50%%; background: #%s; }
.split { display: flex; gap: 64px; flex: 1; min-height: 0; }
.split.vertical { flex-direction: column; }
.image-region { flex: 1; border-radius: 24px; background-size: cover; background-position: center; }
.content-region { flex: 1.2; display: flex; flex-direction: column; justify-content: center; }
.invalid { display: flex; flex: 1; align-items: center; justify-content: center; font-size: 44px; color: #%s; }
p { display: inline; }
</style>
</head>
<body>
%s
</body>
</html>`,
		theme.Background, theme.FontFamily,
		CanvasWidth, CanvasHeight,
		theme.Background, theme.TextPrimary,
		theme.TextMuted, theme.Accent, theme.Surface, theme.Accent,
		theme.TextMuted,
		body)
}

// slideMarkup renders one slide's <div class="slide"> block.
func (r *Renderer) slideMarkup(slide *models.Slide, theme *models.Theme) (string, error) {
	decoded := codec.Decode(slide.Layout, slide.Content)

	var body string
	switch content := decoded.(type) {
	case codec.TitleContent:
		body = r.titleBody(slide, content)
	case codec.CTAContent:
		body = r.ctaBody(slide, content, theme)
	case codec.QuoteContent:
		body = r.quoteBody(slide, content, theme)
	case codec.TimelineContent:
		body = r.timelineBody(slide, content, theme)
	case codec.FeaturesContent:
		body = r.featuresBody(slide, content)
	case codec.ComparisonContent:
		body = r.comparisonBody(slide, content, theme)
	case codec.SwotContent:
		body = r.swotBody(slide, content, theme)
	case codec.ChartContent:
		body = r.chartBody(slide, content, theme)
	case codec.HierarchyContent:
		body = r.hierarchyBody(slide, content, theme)
	case codec.ListContent:
		body = r.listBody(slide, content, theme)
	default:
		body = `<div class="invalid">Unsupported layout</div>`
	}

	return fmt.Sprintf(`<div class="slide layout-%s">%s</div>`, esc(string(slide.Layout)), body), nil
}

// md converts inline markdown (bold, italic, links) to HTML, escaping any
// raw HTML in the source.
func (r *Renderer) md(s string) string {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(s), &buf); err != nil {
		return esc(s)
	}
	return strings.TrimSpace(buf.String())
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

// splitOpen opens the image/content split for image+content layouts,
// honoring the slide's image position. The caller must close both divs via
// splitClose.
func splitOpen(slide *models.Slide) string {
	pos := slide.ImagePosition
	if pos == "" {
		pos = models.ImageLeft
	}

	class := "split"
	if pos.Vertical() {
		class += " vertical"
	}

	image := ""
	if slide.ImageURL != "" {
		image = fmt.Sprintf(`<div class="image-region" style="background-image:url('%s')"></div>`, esc(slide.ImageURL))
	}

	if pos == models.ImageLeft || pos == models.ImageTop {
		return fmt.Sprintf(`<div class="%s">%s<div class="content-region">`, class, image)
	}
	// image trails the content: splitClose emits it after the content div
	return fmt.Sprintf(`<div class="%s"><div class="content-region">`, class)
}

func splitClose(slide *models.Slide) string {
	pos := slide.ImagePosition
	if pos == models.ImageRight || pos == models.ImageBottom {
		image := ""
		if slide.ImageURL != "" {
			image = fmt.Sprintf(`<div class="image-region" style="background-image:url('%s')"></div>`, esc(slide.ImageURL))
		}
		return "</div>" + image + "</div>"
	}
	return "</div></div>"
}

func (r *Renderer) titleBody(slide *models.Slide, content codec.TitleContent) string {
	background := ""
	if slide.ImageURL != "" {
		background = fmt.Sprintf(`<div style="position:absolute;inset:0;background-image:url('%s');background-size:cover;background-position:center;opacity:0.35"></div>`, esc(slide.ImageURL))
	}

	subtitle := ""
	if content.Subtitle != "" {
		subtitle = fmt.Sprintf(`<div class="muted" style="font-size:48px">%s</div>`, r.md(content.Subtitle))
	}

	return fmt.Sprintf(`%s<div style="position:relative;display:flex;flex-direction:column;justify-content:center;align-items:center;text-align:center;flex:1">
<h1 style="font-size:104px;margin-bottom:32px">%s</h1>%s</div>`, background, esc(slide.Title), subtitle)
}

func (r *Renderer) ctaBody(slide *models.Slide, content codec.CTAContent, theme *models.Theme) string {
	action := ""
	if content.Action != "" {
		action = fmt.Sprintf(`<div style="margin-top:56px"><span style="background:#%s;color:#%s;font-size:40px;padding:24px 64px;border-radius:999px">%s</span></div>`,
			theme.Accent, theme.Background, esc(content.Action))
	}

	return fmt.Sprintf(`<div style="display:flex;flex-direction:column;justify-content:center;align-items:center;text-align:center;flex:1">
<h1 style="font-size:88px">%s</h1>
<div style="font-size:44px;max-width:1200px">%s</div>%s</div>`, esc(slide.Title), r.md(content.Body), action)
}

func (r *Renderer) quoteBody(slide *models.Slide, content codec.QuoteContent, theme *models.Theme) string {
	author := ""
	if content.Author != "" {
		author = fmt.Sprintf(`<div class="muted" style="font-size:36px;margin-top:40px">— %s</div>`, esc(content.Author))
	}

	return splitOpen(slide) + fmt.Sprintf(`
<blockquote style="font-size:56px;font-style:italic;border-left:12px solid #%s;padding-left:48px">%s</blockquote>%s`,
		theme.Accent, r.md(content.Quote), author) + splitClose(slide)
}

func (r *Renderer) timelineBody(slide *models.Slide, content codec.TimelineContent, theme *models.Theme) string {
	var items strings.Builder
	for _, entry := range content.Entries {
		key := ""
		if entry.Key != "" {
			key = fmt.Sprintf(`<span class="accent" style="font-weight:bold;margin-right:24px">%s</span>`, esc(entry.Key))
		}
		fmt.Fprintf(&items, `<li style="margin-bottom:32px;font-size:38px;border-left:6px solid #%s;padding-left:32px">%s%s</li>`,
			theme.Accent, key, r.md(entry.Value))
	}

	return splitOpen(slide) + fmt.Sprintf(`<h1>%s</h1><ul style="list-style:none">%s</ul>`,
		esc(slide.Title), items.String()) + splitClose(slide)
}

func (r *Renderer) featuresBody(slide *models.Slide, content codec.FeaturesContent) string {
	var cards strings.Builder
	for _, view := range FeatureViews(content.Features) {
		fmt.Fprintf(&cards, `<div class="surface" style="flex:1;min-width:380px">
<div style="font-size:64px;margin-bottom:24px">%s</div>
<div style="font-size:40px;font-weight:bold;margin-bottom:16px">%s</div>
<div class="muted" style="font-size:30px">%s</div></div>`,
			iconGlyphs[view.Icon], esc(view.Title), r.md(view.Description))
	}

	return fmt.Sprintf(`<h1>%s</h1><div style="display:flex;flex-wrap:wrap;gap:40px;flex:1;align-content:flex-start">%s</div>`,
		esc(slide.Title), cards.String())
}

func (r *Renderer) comparisonBody(slide *models.Slide, content codec.ComparisonContent, theme *models.Theme) string {
	column := func(title, body string) string {
		var items strings.Builder
		for _, line := range codec.Lines(body) {
			fmt.Fprintf(&items, `<li>%s</li>`, r.md(line))
		}
		return fmt.Sprintf(`<div class="surface" style="flex:1">
<div class="accent" style="font-size:48px;font-weight:bold;margin-bottom:32px">%s</div>
<ul class="bullets" style="font-size:34px">%s</ul></div>`, esc(title), items.String())
	}

	return fmt.Sprintf(`<h1>%s</h1><div style="display:flex;gap:48px;flex:1">%s%s</div>`,
		esc(slide.Title),
		column(content.LeftTitle, content.LeftBody),
		column(content.RightTitle, content.RightBody))
}

func (r *Renderer) swotBody(slide *models.Slide, content codec.SwotContent, theme *models.Theme) string {
	quadrant := func(label, body, color string) string {
		var items strings.Builder
		for _, line := range codec.Lines(body) {
			fmt.Fprintf(&items, `<li style="margin-bottom:12px">%s</li>`, r.md(line))
		}
		return fmt.Sprintf(`<div class="surface" style="border-top:10px solid #%s">
<div style="font-size:40px;font-weight:bold;margin-bottom:24px">%s</div>
<ul style="list-style:none;font-size:30px">%s</ul></div>`, color, label, items.String())
	}

	return fmt.Sprintf(`<h1>%s</h1>
<div style="display:grid;grid-template-columns:1fr 1fr;grid-template-rows:1fr 1fr;gap:40px;flex:1">%s%s%s%s</div>`,
		esc(slide.Title),
		quadrant("Strengths", content.Strengths, theme.ChartColor(4)),
		quadrant("Weaknesses", content.Weaknesses, theme.ChartColor(2)),
		quadrant("Opportunities", content.Opportunities, theme.ChartColor(0)),
		quadrant("Threats", content.Threats, theme.ChartColor(3)))
}

func (r *Renderer) chartBody(slide *models.Slide, content codec.ChartContent, theme *models.Theme) string {
	title := fmt.Sprintf(`<h1>%s</h1>`, esc(slide.Title))

	switch slide.Layout {
	case models.LayoutBarChart:
		bars := Bars(content.Points, theme)
		if bars == nil {
			return title + `<div class="invalid">No chart data</div>`
		}
		var cols strings.Builder
		for _, bar := range bars {
			fmt.Fprintf(&cols, `<div style="flex:1;display:flex;flex-direction:column;justify-content:flex-end;align-items:center;gap:16px">
<div class="muted" style="font-size:28px">%s</div>
<div style="width:70%%;height:%.1f%%;background:#%s;border-radius:12px 12px 0 0"></div>
<div style="font-size:28px">%s</div></div>`,
				formatValue(bar.Value), bar.HeightPct, bar.Color, esc(bar.Label))
		}
		return title + fmt.Sprintf(`<div style="display:flex;align-items:stretch;gap:24px;flex:1">%s</div>`, cols.String())

	case models.LayoutPieChart:
		slices := PieSlices(content.Points, theme)
		if slices == nil {
			return title + `<div class="invalid">No chart data</div>`
		}
		var stops, legend strings.Builder
		for i, slice := range slices {
			if i > 0 {
				stops.WriteString(", ")
			}
			fmt.Fprintf(&stops, "#%s %.1fdeg %.1fdeg", slice.Color, slice.StartDeg, slice.EndDeg)
			fmt.Fprintf(&legend, `<li style="font-size:34px;margin-bottom:20px"><span style="display:inline-block;width:28px;height:28px;border-radius:6px;background:#%s;margin-right:20px"></span>%s <span class="muted">(%.0f%%)</span></li>`,
				slice.Color, esc(slice.Label), slice.Percent)
		}
		return title + fmt.Sprintf(`<div style="display:flex;align-items:center;gap:96px;flex:1">
<div style="width:640px;height:640px;border-radius:50%%;background:conic-gradient(%s)"></div>
<ul style="list-style:none">%s</ul></div>`, stops.String(), legend.String())

	default: // line-chart
		pointsAttr := LinePoints(content.Points, 1600, 700)
		if pointsAttr == "" {
			return title + `<div class="invalid">Not enough data for a line chart</div>`
		}
		var labels strings.Builder
		for _, p := range content.Points {
			fmt.Fprintf(&labels, `<div class="muted" style="flex:1;text-align:center;font-size:28px">%s</div>`, esc(p.Label))
		}
		return title + fmt.Sprintf(`<div style="flex:1">
<svg width="1600" height="700" viewBox="0 0 1600 700"><polyline points="%s" fill="none" stroke="#%s" stroke-width="8" stroke-linejoin="round"/></svg>
<div style="display:flex;width:1600px">%s</div></div>`, pointsAttr, theme.Accent, labels.String())
	}
}

func (r *Renderer) hierarchyBody(slide *models.Slide, content codec.HierarchyContent, theme *models.Theme) string {
	title := fmt.Sprintf(`<h1>%s</h1>`, esc(slide.Title))
	if content.Root == nil {
		return title + `<div class="invalid">Invalid hierarchy data</div>`
	}

	var render func(node *models.HierarchyNode, depth int) string
	render = func(node *models.HierarchyNode, depth int) string {
		var children strings.Builder
		for _, child := range node.Children {
			children.WriteString(render(child, depth+1))
		}
		childBlock := ""
		if children.Len() > 0 {
			childBlock = fmt.Sprintf(`<div style="display:flex;gap:32px;justify-content:center;margin-top:40px">%s</div>`, children.String())
		}
		size := 40 - depth*6
		if size < 24 {
			size = 24
		}
		return fmt.Sprintf(`<div style="display:flex;flex-direction:column;align-items:center">
<div class="surface" style="font-size:%dpx;padding:20px 40px;border:3px solid #%s">%s</div>%s</div>`,
			size, theme.Accent, esc(node.Name), childBlock)
	}

	return title + fmt.Sprintf(`<div style="display:flex;justify-content:center;align-items:flex-start;flex:1;overflow:hidden">%s</div>`,
		render(content.Root, 0))
}

func (r *Renderer) listBody(slide *models.Slide, content codec.ListContent, theme *models.Theme) string {
	title := fmt.Sprintf(`<h1>%s</h1>`, esc(slide.Title))

	switch slide.Layout {
	case models.LayoutProcessFlow:
		var steps strings.Builder
		for i, item := range content.Items {
			if i > 0 {
				steps.WriteString(`<div class="accent" style="font-size:56px;align-self:center">&#8594;</div>`)
			}
			fmt.Fprintf(&steps, `<div class="surface" style="flex:1;text-align:center;font-size:34px;align-self:center">
<div class="accent" style="font-weight:bold;font-size:44px;margin-bottom:12px">%d</div>%s</div>`, i+1, r.md(item))
		}
		return title + fmt.Sprintf(`<div style="display:flex;gap:32px;flex:1;align-items:center">%s</div>`, steps.String())

	case models.LayoutCircularDiagram:
		var items strings.Builder
		for i, item := range content.Items {
			fmt.Fprintf(&items, `<div class="surface" style="font-size:32px;text-align:center;border:3px solid #%s">
<div class="accent" style="font-weight:bold">%d</div>%s</div>`, theme.ChartColor(i), i+1, r.md(item))
		}
		return title + fmt.Sprintf(`<div style="display:flex;flex-wrap:wrap;gap:48px;justify-content:center;align-items:center;flex:1">%s</div>`, items.String())

	case models.LayoutBlocks:
		var blocks strings.Builder
		for _, item := range content.Items {
			fmt.Fprintf(&blocks, `<div class="surface" style="font-size:34px;margin-bottom:32px">%s</div>`, r.md(item))
		}
		return splitOpen(slide) + title + blocks.String() + splitClose(slide)

	default: // default bullet layout
		var bullets strings.Builder
		for _, item := range content.Items {
			fmt.Fprintf(&bullets, `<li>%s</li>`, r.md(item))
		}
		return splitOpen(slide) + title + fmt.Sprintf(`<ul class="bullets">%s</ul>`, bullets.String()) + splitClose(slide)
	}
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

var _ interfaces.RenderService = (*Renderer)(nil)
