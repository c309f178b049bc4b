// Package theme loads named presentation themes from YAML files and serves
// them to the renderer and exporters. The built-in "midnight" theme matches
// the editor's dark palette and is always available even with an empty
// themes directory.
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/models"
)

// Midnight is the built-in default theme.
var Midnight = models.Theme{
	Name:        "midnight",
	Background:  "1e293b",
	Surface:     "334155",
	Accent:      "38bdf8",
	TextPrimary: "f8fafc",
	TextMuted:   "94a3b8",
	ChartColors: []string{"38bdf8", "818cf8", "f471b5", "fbbf24", "a3e635", "4ade80"},
	FontFamily:  "Inter, 'Segoe UI', sans-serif",
}

// Service implements interfaces.ThemeService.
type Service struct {
	mu          sync.RWMutex
	themes      map[string]*models.Theme
	defaultName string
	logger      arbor.ILogger
}

// NewService loads every *.yaml/*.yml file in dir. A missing directory is
// not an error; the built-in theme always remains available. defaultName
// selects the theme returned by Default, falling back to midnight.
func NewService(dir, defaultName string, logger arbor.ILogger) (*Service, error) {
	s := &Service{
		themes:      map[string]*models.Theme{Midnight.Name: &Midnight},
		defaultName: Midnight.Name,
		logger:      logger,
	}

	if err := s.loadDir(dir); err != nil {
		return nil, err
	}

	if defaultName != "" {
		if _, ok := s.themes[defaultName]; ok {
			s.defaultName = defaultName
		} else {
			logger.Warn().
				Str("theme", defaultName).
				Msg("Configured default theme not found, using midnight")
		}
	}

	logger.Info().
		Int("themes", len(s.themes)).
		Str("default", s.defaultName).
		Msg("Themes loaded")

	return s, nil
}

func (s *Service) loadDir(dir string) error {
	if dir == "" {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read themes directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read theme %s: %w", path, err)
		}

		var theme models.Theme
		if err := yaml.Unmarshal(data, &theme); err != nil {
			return fmt.Errorf("failed to parse theme %s: %w", path, err)
		}
		if theme.Name == "" {
			theme.Name = strings.TrimSuffix(entry.Name(), ext)
		}
		fillDefaults(&theme)

		s.themes[theme.Name] = &theme
		s.logger.Debug().Str("theme", theme.Name).Str("file", entry.Name()).Msg("Theme loaded")
	}

	return nil
}

// fillDefaults backfills missing colors from the built-in theme so a sparse
// theme file still renders.
func fillDefaults(t *models.Theme) {
	if t.Background == "" {
		t.Background = Midnight.Background
	}
	if t.Surface == "" {
		t.Surface = Midnight.Surface
	}
	if t.Accent == "" {
		t.Accent = Midnight.Accent
	}
	if t.TextPrimary == "" {
		t.TextPrimary = Midnight.TextPrimary
	}
	if t.TextMuted == "" {
		t.TextMuted = Midnight.TextMuted
	}
	if len(t.ChartColors) == 0 {
		t.ChartColors = append([]string(nil), Midnight.ChartColors...)
	}
	if t.FontFamily == "" {
		t.FontFamily = Midnight.FontFamily
	}
}

// Get returns the theme by name, falling back to the default for unknown
// names.
func (s *Service) Get(name string) *models.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.themes[name]; ok {
		return t
	}
	return s.themes[s.defaultName]
}

// List returns all themes sorted by name.
func (s *Service) List() []*models.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Theme, 0, len(s.themes))
	for _, t := range s.themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Default returns the configured default theme.
func (s *Service) Default() *models.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.themes[s.defaultName]
}

var _ interfaces.ThemeService = (*Service)(nil)
