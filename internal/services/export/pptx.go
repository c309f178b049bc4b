package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/codec"
	"github.com/ternarybob/prezo/internal/httpclient"
	"github.com/ternarybob/prezo/internal/models"
)

// Slide canvas in EMU: 13.333 x 7.5 inches, the standard 16:9 size.
const (
	slideCX = 12192000
	slideCY = 6858000
	emuPerPx = slideCX / 1920
)

// pptxWriter assembles an Office Open XML presentation package. Each slide
// is written independently; a slide that fails (e.g. an unreachable image)
// degrades to its text content instead of failing the package.
type pptxWriter struct {
	theme  *models.Theme
	client *http.Client
	logger arbor.ILogger

	shapeID int
	media   []mediaFile
}

type mediaFile struct {
	name string
	data []byte
}

func newPPTXWriter(theme *models.Theme, logger arbor.ILogger) *pptxWriter {
	return &pptxWriter{
		theme:  theme,
		client: httpclient.NewDefaultHTTPClient(20 * time.Second),
		logger: logger,
	}
}

// write builds the complete .pptx package for the deck.
func (w *pptxWriter) write(ctx context.Context, deck *models.Deck) ([]byte, error) {
	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)

	slideXMLs := make([]string, len(deck.Slides))
	slideRels := make([][]relationship, len(deck.Slides))
	for i, slide := range deck.Slides {
		xml, rels := w.slideXML(ctx, slide)
		slideXMLs[i] = xml
		slideRels[i] = rels
	}

	files := map[string]string{
		"[Content_Types].xml":                   w.contentTypes(len(deck.Slides)),
		"_rels/.rels":                           rootRels,
		"ppt/presentation.xml":                  w.presentationXML(len(deck.Slides)),
		"ppt/_rels/presentation.xml.rels":       w.presentationRels(len(deck.Slides)),
		"ppt/slideMasters/slideMaster1.xml":     slideMasterXML,
		"ppt/slideMasters/_rels/slideMaster1.xml.rels": slideMasterRels,
		"ppt/slideLayouts/slideLayout1.xml":     slideLayoutXML,
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": slideLayoutRels,
		"ppt/theme/theme1.xml":                  w.themeXML(),
		"docProps/core.xml":                     w.coreXML(deck.Title),
		"docProps/app.xml":                      appXML,
	}
	for i := range deck.Slides {
		files[fmt.Sprintf("ppt/slides/slide%d.xml", i+1)] = slideXMLs[i]
		files[fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1)] = w.slideRelsXML(slideRels[i])
	}

	for name, content := range files {
		f, err := archive.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	for _, m := range w.media {
		f, err := archive.Create("ppt/media/" + m.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create media %s: %w", m.name, err)
		}
		if _, err := f.Write(m.data); err != nil {
			return nil, fmt.Errorf("failed to write media %s: %w", m.name, err)
		}
	}

	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize package: %w", err)
	}
	return buf.Bytes(), nil
}

type relationship struct {
	id     string
	relTyp string
	target string
}

// slideXML renders one slide to its XML part plus its relationships.
func (w *pptxWriter) slideXML(ctx context.Context, slide *models.Slide) (string, []relationship) {
	w.shapeID = 1

	rels := []relationship{{
		id:     "rId1",
		relTyp: "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout",
		target: "../slideLayouts/slideLayout1.xml",
	}}

	var shapes strings.Builder

	// background image or image region
	if slide.ImageURL != "" && !slide.Layout.Infographic() {
		if data, ext, err := w.fetchImage(ctx, slide.ImageURL); err == nil {
			name := fmt.Sprintf("image%d.%s", len(w.media)+1, ext)
			w.media = append(w.media, mediaFile{name: name, data: data})
			relID := fmt.Sprintf("rId%d", len(rels)+1)
			rels = append(rels, relationship{
				id:     relID,
				relTyp: "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image",
				target: "../media/" + name,
			})
			shapes.WriteString(w.pictureXML(relID, slide))
		} else {
			w.logger.Warn().Err(err).Str("slide_id", slide.ID).Msg("Skipping unreachable slide image in export")
		}
	}

	w.contentShapes(&shapes, slide)

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
<p:cSld>
<p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>
<p:spTree>
<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>
<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>
%s
</p:spTree>
</p:cSld>
<p:clrMapOvr><a:overrideClrMapping bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/></p:clrMapOvr>
</p:sld>`, strings.ToUpper(w.theme.Background), shapes.String()), rels
}

// contentShapes emits the layout-specific text and shape geometry.
func (w *pptxWriter) contentShapes(shapes *strings.Builder, slide *models.Slide) {
	decoded := codec.Decode(slide.Layout, slide.Content)

	fullWidth := slide.Layout.FullWidth()
	contentX, contentW := px(80), px(1760)
	if !fullWidth && slide.ImageURL != "" {
		// image+content: text takes the half opposite the image
		contentW = px(820)
		if slide.ImagePosition == models.ImageRight || slide.ImagePosition == models.ImageBottom {
			contentX = px(80)
		} else {
			contentX = px(1020)
		}
	}

	switch content := decoded.(type) {
	case codec.TitleContent:
		shapes.WriteString(w.textBox(px(160), px(380), px(1600), px(200), slide.Title, 54, true, "ctr"))
		if content.Subtitle != "" {
			shapes.WriteString(w.textBoxColor(px(160), px(600), px(1600), px(140), content.Subtitle, 28, false, "ctr", w.theme.TextMuted))
		}

	case codec.CTAContent:
		shapes.WriteString(w.textBox(px(160), px(320), px(1600), px(180), slide.Title, 48, true, "ctr"))
		shapes.WriteString(w.textBox(px(260), px(520), px(1400), px(220), content.Body, 26, false, "ctr"))
		if content.Action != "" {
			shapes.WriteString(w.buttonXML(px(760), px(800), px(400), px(110), content.Action))
		}

	case codec.QuoteContent:
		shapes.WriteString(w.textBox(contentX, px(340), contentW, px(320), "“"+content.Quote+"”", 32, false, "l"))
		if content.Author != "" {
			shapes.WriteString(w.textBoxColor(contentX, px(700), contentW, px(100), "— "+content.Author, 22, false, "l", w.theme.TextMuted))
		}

	case codec.TimelineContent:
		shapes.WriteString(w.textBox(contentX, px(90), contentW, px(140), slide.Title, 40, true, "l"))
		var lines []string
		for _, e := range content.Entries {
			if e.Key != "" {
				lines = append(lines, e.Key+" — "+e.Value)
			} else {
				lines = append(lines, e.Value)
			}
		}
		shapes.WriteString(w.bulletBox(contentX, px(260), contentW, px(740), lines, 22))

	case codec.FeaturesContent:
		shapes.WriteString(w.textBox(px(80), px(90), px(1760), px(140), slide.Title, 40, true, "l"))
		cardW := px(560)
		for i, f := range content.Features {
			col, row := i%3, i/3
			x := px(80) + col*(cardW+px(40))
			y := px(280) + row*px(380)
			shapes.WriteString(w.cardXML(x, y, cardW, px(340)))
			shapes.WriteString(w.textBox(x+px(30), y+px(30), cardW-px(60), px(90), f.Title, 26, true, "l"))
			shapes.WriteString(w.textBoxColor(x+px(30), y+px(130), cardW-px(60), px(180), f.Description, 18, false, "l", w.theme.TextMuted))
		}

	case codec.ComparisonContent:
		shapes.WriteString(w.textBox(px(80), px(90), px(1760), px(140), slide.Title, 40, true, "l"))
		half := px(850)
		w.comparisonColumn(shapes, px(80), half, content.LeftTitle, content.LeftBody)
		w.comparisonColumn(shapes, px(990), half, content.RightTitle, content.RightBody)

	case codec.SwotContent:
		shapes.WriteString(w.textBox(px(80), px(70), px(1760), px(130), slide.Title, 40, true, "l"))
		quadW, quadH := px(850), px(390)
		quads := []struct {
			label, body string
			x, y        int
		}{
			{"Strengths", content.Strengths, px(80), px(230)},
			{"Weaknesses", content.Weaknesses, px(990), px(230)},
			{"Opportunities", content.Opportunities, px(80), px(650)},
			{"Threats", content.Threats, px(990), px(650)},
		}
		for _, q := range quads {
			shapes.WriteString(w.cardXML(q.x, q.y, quadW, quadH))
			shapes.WriteString(w.textBox(q.x+px(30), q.y+px(20), quadW-px(60), px(70), q.label, 24, true, "l"))
			shapes.WriteString(w.bulletBox(q.x+px(30), q.y+px(100), quadW-px(60), quadH-px(120), codec.Lines(q.body), 16))
		}

	case codec.ChartContent:
		shapes.WriteString(w.textBox(px(80), px(90), px(1760), px(140), slide.Title, 40, true, "l"))
		w.chartShapes(shapes, slide.Layout, content.Points)

	case codec.HierarchyContent:
		shapes.WriteString(w.textBox(px(80), px(90), px(1760), px(140), slide.Title, 40, true, "l"))
		if content.Root == nil {
			shapes.WriteString(w.textBoxColor(px(80), px(480), px(1760), px(120), "Invalid hierarchy data", 28, false, "ctr", w.theme.TextMuted))
			break
		}
		var lines []string
		for _, row := range codec.Flatten(content.Root) {
			lines = append(lines, strings.Repeat("    ", row.Level)+row.Name)
		}
		shapes.WriteString(w.bulletBox(px(280), px(280), px(1360), px(720), lines, 22))

	case codec.ListContent:
		shapes.WriteString(w.textBox(contentX, px(90), contentW, px(140), slide.Title, 40, true, "l"))
		items := content.Items
		if slide.Layout == models.LayoutProcessFlow {
			numbered := make([]string, len(items))
			for i, item := range items {
				numbered[i] = fmt.Sprintf("%d. %s", i+1, item)
			}
			items = numbered
		}
		shapes.WriteString(w.bulletBox(contentX, px(260), contentW, px(740), items, 24))
	}
}

func (w *pptxWriter) comparisonColumn(shapes *strings.Builder, x, width int, title, body string) {
	shapes.WriteString(w.cardXML(x, px(260), width, px(730)))
	shapes.WriteString(w.textBoxColor(x+px(30), px(290), width-px(60), px(90), title, 28, true, "l", w.theme.Accent))
	shapes.WriteString(w.bulletBox(x+px(30), px(400), width-px(60), px(560), codec.Lines(body), 20))
}

// chartShapes draws bar charts as native rectangles; pie and line charts
// degrade to a labeled legend, which keeps the data visible and editable.
func (w *pptxWriter) chartShapes(shapes *strings.Builder, layout models.Layout, points []models.ChartPoint) {
	if len(points) == 0 {
		shapes.WriteString(w.textBoxColor(px(80), px(480), px(1760), px(120), "No chart data", 28, false, "ctr", w.theme.TextMuted))
		return
	}

	if layout == models.LayoutBarChart {
		var max float64
		for _, p := range points {
			if p.Value > max {
				max = p.Value
			}
		}
		if max <= 0 {
			shapes.WriteString(w.textBoxColor(px(80), px(480), px(1760), px(120), "No chart data", 28, false, "ctr", w.theme.TextMuted))
			return
		}

		plotX, plotY, plotW, plotH := px(160), px(280), px(1600), px(620)
		barW := plotW / (len(points)*2 - 1)
		for i, p := range points {
			h := int(float64(plotH) * p.Value / max)
			if h < 0 {
				h = 0
			}
			x := plotX + i*2*barW
			shapes.WriteString(w.rectXML(x, plotY+plotH-h, barW, h, w.theme.ChartColor(i)))
			shapes.WriteString(w.textBox(x-px(20), plotY+plotH+px(16), barW+px(40), px(60), p.Label, 16, false, "ctr"))
		}
		return
	}

	var total float64
	for _, p := range points {
		if p.Value > 0 {
			total += p.Value
		}
	}
	var lines []string
	for _, p := range points {
		if total > 0 && layout == models.LayoutPieChart {
			lines = append(lines, fmt.Sprintf("%s — %s (%.0f%%)", p.Label, formatNumber(p.Value), p.Value/total*100))
		} else {
			lines = append(lines, fmt.Sprintf("%s — %s", p.Label, formatNumber(p.Value)))
		}
	}
	shapes.WriteString(w.bulletBox(px(480), px(300), px(960), px(680), lines, 24))
}

// fetchImage resolves a slide image to raw bytes: data URLs are decoded in
// place, http(s) URLs are fetched.
func (w *pptxWriter) fetchImage(ctx context.Context, url string) ([]byte, string, error) {
	if strings.HasPrefix(url, "data:") {
		meta, payload, found := strings.Cut(url, ",")
		if !found {
			return nil, "", fmt.Errorf("malformed data URL")
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode data URL: %w", err)
		}
		ext := "png"
		if strings.Contains(meta, "jpeg") || strings.Contains(meta, "jpg") {
			ext = "jpeg"
		}
		return data, ext, nil
	}

	resp, err := httpclient.Get(ctx, w.client, url, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return nil, "", err
	}

	ext := "jpeg"
	if strings.Contains(resp.Header.Get("Content-Type"), "png") {
		ext = "png"
	}
	return data, ext, nil
}

// pictureXML places the slide image: full-bleed behind full-width layouts,
// in its half for image+content layouts.
func (w *pptxWriter) pictureXML(relID string, slide *models.Slide) string {
	x, y, cx, cy := 0, 0, slideCX, slideCY
	if !slide.Layout.FullWidth() {
		switch slide.ImagePosition {
		case models.ImageRight:
			x, y, cx, cy = px(1000), px(80), px(840), px(920)
		case models.ImageTop:
			x, y, cx, cy = px(80), px(60), px(1760), px(440)
		case models.ImageBottom:
			x, y, cx, cy = px(80), px(580), px(1760), px(440)
		default:
			x, y, cx, cy = px(80), px(80), px(840), px(920)
		}
	}

	id := w.nextShapeID()
	return fmt.Sprintf(`<p:pic>
<p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>
<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>
<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>
</p:pic>`, id, id, relID, x, y, cx, cy)
}

func (w *pptxWriter) textBox(x, y, cx, cy int, text string, size int, bold bool, align string) string {
	return w.textBoxColor(x, y, cx, cy, text, size, bold, align, w.theme.TextPrimary)
}

func (w *pptxWriter) textBoxColor(x, y, cx, cy int, text string, size int, bold bool, align, color string) string {
	id := w.nextShapeID()
	b := "0"
	if bold {
		b = "1"
	}
	return fmt.Sprintf(`<p:sp>
<p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>
<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>
<p:txBody><a:bodyPr wrap="square" rtlCol="0"><a:normAutofit/></a:bodyPr><a:lstStyle/>
<a:p><a:pPr algn="%s"/><a:r><a:rPr lang="en-US" sz="%d" b="%s" dirty="0"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:rPr><a:t>%s</a:t></a:r></a:p>
</p:txBody></p:sp>`, id, id, x, y, cx, cy, align, size*100, b, strings.ToUpper(color), escXML(text))
}

func (w *pptxWriter) bulletBox(x, y, cx, cy int, lines []string, size int) string {
	id := w.nextShapeID()
	var paras strings.Builder
	if len(lines) == 0 {
		lines = []string{""}
	}
	for _, line := range lines {
		fmt.Fprintf(&paras, `<a:p><a:pPr><a:buClr><a:srgbClr val="%s"/></a:buClr><a:buChar char="&#8226;"/></a:pPr><a:r><a:rPr lang="en-US" sz="%d" dirty="0"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:rPr><a:t>%s</a:t></a:r></a:p>`,
			strings.ToUpper(w.theme.Accent), size*100, strings.ToUpper(w.theme.TextPrimary), escXML(line))
	}
	return fmt.Sprintf(`<p:sp>
<p:nvSpPr><p:cNvPr id="%d" name="Content %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>
<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>
<p:txBody><a:bodyPr wrap="square" rtlCol="0"><a:normAutofit/></a:bodyPr><a:lstStyle/>%s</p:txBody></p:sp>`,
		id, id, x, y, cx, cy, paras.String())
}

func (w *pptxWriter) rectXML(x, y, cx, cy int, color string) string {
	id := w.nextShapeID()
	return fmt.Sprintf(`<p:sp>
<p:nvSpPr><p:cNvPr id="%d" name="Shape %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>
<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="roundRect"><a:avLst/></a:prstGeom><a:solidFill><a:srgbClr val="%s"/></a:solidFill></p:spPr>
<p:txBody><a:bodyPr/><a:lstStyle/><a:p/></p:txBody></p:sp>`, id, id, x, y, cx, cy, strings.ToUpper(color))
}

func (w *pptxWriter) cardXML(x, y, cx, cy int) string {
	return w.rectXML(x, y, cx, cy, w.theme.Surface)
}

func (w *pptxWriter) buttonXML(x, y, cx, cy int, label string) string {
	id := w.nextShapeID()
	return fmt.Sprintf(`<p:sp>
<p:nvSpPr><p:cNvPr id="%d" name="Button %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>
<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="roundRect"><a:avLst/></a:prstGeom><a:solidFill><a:srgbClr val="%s"/></a:solidFill></p:spPr>
<p:txBody><a:bodyPr anchor="ctr"/><a:lstStyle/><a:p><a:pPr algn="ctr"/><a:r><a:rPr lang="en-US" sz="2400" b="1" dirty="0"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:rPr><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		id, id, x, y, cx, cy, strings.ToUpper(w.theme.Accent), strings.ToUpper(w.theme.Background), escXML(label))
}

func (w *pptxWriter) nextShapeID() int {
	w.shapeID++
	return w.shapeID
}

func px(v int) int {
	return v * emuPerPx
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escXML(s string) string {
	return xmlEscaper.Replace(s)
}
