package generator

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// defaultSlideCount is the target deck length when the request does not ask
// for a specific count.
const defaultSlideCount = 10

// deckSchema constrains the model's JSON output to the raw deck shape.
// Gemini enforces this server side via ResponseSchema; the Claude provider
// embeds it in the prompt instead.
var deckSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"slides": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title": {Type: genai.TypeString, Description: "Short slide title"},
					"content": {
						Type:        genai.TypeArray,
						Items:       &genai.Schema{Type: genai.TypeString},
						Description: "Slide content items; meaning depends on layout",
					},
					"imagePrompt": {Type: genai.TypeString, Description: "Descriptive prompt for a supporting image"},
					"layout":      {Type: genai.TypeString, Description: "One of the supported layout tags"},
				},
				Required: []string{"title", "content", "layout"},
			},
		},
	},
	Required: []string{"slides"},
}

// buildPrompt produces the generation instructions for a topic or
// transcript. The per-layout content rules here define the packed encodings
// the rest of the system decodes.
func buildPrompt(input string, slideCount int) string {
	if slideCount <= 0 {
		slideCount = defaultSlideCount
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert presentation designer. Create a compelling presentation of about %d slides for the topic or source material below.

Rules for every slide:
- "title": a short punchy title.
- "layout": exactly one of: title, default, quote, blocks, timeline, process-flow, circular-diagram, hierarchy, comparison, swot-analysis, features, cta, bar-chart, pie-chart, line-chart.
- "imagePrompt": a vivid, photographic description of a supporting image. Omit it for chart, swot-analysis, process-flow, circular-diagram and hierarchy slides.
- "content": an array of strings whose meaning depends on the layout:
  - title: one optional subtitle string.
  - default: 3-5 short bullet points.
  - quote: the quotation, then the author.
  - blocks: 3-4 short text blocks.
  - timeline: each item as "date :: what happened".
  - process-flow: 3-6 step names in order.
  - circular-diagram: 3-6 stage names of a cycle.
  - hierarchy: a single JSON string of the tree, e.g. {"name":"CEO","children":[{"name":"CTO","children":[]}]}.
  - comparison: exactly four items: left title, left points separated by newlines, right title, right points separated by newlines.
  - swot-analysis: exactly four items: strengths, weaknesses, opportunities, threats, each as newline-separated points.
  - features: each item as "icon :: title :: description" where icon is one of lightbulb, shield, rocket, cog.
  - cta: the body text, then a short action label.
  - bar-chart, pie-chart, line-chart: a single JSON string of data points, e.g. [{"label":"Q1","value":42}].

Start with a title slide and end with a cta slide. Vary the layouts.

Source material:
%s`, slideCount, input)

	return b.String()
}

// transcriptionPreamble instructs the model when the input arrives as audio
// rather than text.
const transcriptionPreamble = "First transcribe the attached audio, then use the transcription as the source material for the presentation described below.\n\n"
