package models

// Theme is one named color and typography scheme applied across the
// renderer and both exporters. Colors are hex strings without the
// leading '#'.
type Theme struct {
	Name        string   `yaml:"name" json:"name"`
	Background  string   `yaml:"background" json:"background"`
	Surface     string   `yaml:"surface" json:"surface"`
	Accent      string   `yaml:"accent" json:"accent"`
	TextPrimary string   `yaml:"text_primary" json:"text_primary"`
	TextMuted   string   `yaml:"text_muted" json:"text_muted"`
	ChartColors []string `yaml:"chart_colors" json:"chart_colors"`
	FontFamily  string   `yaml:"font_family" json:"font_family"`
}

// ChartColor returns the series color for index i, cycling through the
// palette.
func (t *Theme) ChartColor(i int) string {
	if len(t.ChartColors) == 0 {
		return t.Accent
	}
	return t.ChartColors[i%len(t.ChartColors)]
}
