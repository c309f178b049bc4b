package session

import (
	"github.com/ternarybob/prezo/internal/codec"
	"github.com/ternarybob/prezo/internal/common"
	"github.com/ternarybob/prezo/internal/models"
)

// Mutator is one editing operation applied to a deck under the session
// lock. Mutators targeting a slide ID that is no longer in the deck are
// silent no-ops: the slide was deleted by a concurrent edit and there is
// nothing meaningful to report.
type Mutator func(*models.Deck) error

// SetDeckTitle renames the presentation.
func SetDeckTitle(title string) Mutator {
	return func(d *models.Deck) error {
		d.Title = title
		return nil
	}
}

// SetTheme switches the deck's theme.
func SetTheme(theme string) Mutator {
	return func(d *models.Deck) error {
		d.Theme = theme
		return nil
	}
}

// ReplaceSlide swaps the slide with the same identity for the given one.
func ReplaceSlide(slide *models.Slide) Mutator {
	return func(d *models.Deck) error {
		if i := d.SlideIndex(slide.ID); i >= 0 {
			d.Slides[i] = slide.Clone()
		}
		return nil
	}
}

// AddSlideAfter inserts a fresh default-layout slide after the given slide,
// or at the end when the ID is unknown or empty.
func AddSlideAfter(slideID string) Mutator {
	return func(d *models.Deck) error {
		slide := &models.Slide{
			ID:            common.NewSlideID(),
			Title:         "New Slide",
			Content:       []string{"New point"},
			Layout:        models.LayoutDefault,
			ImagePosition: models.ImageLeft,
		}

		i := d.SlideIndex(slideID)
		if i < 0 {
			d.Slides = append(d.Slides, slide)
			return nil
		}

		d.Slides = append(d.Slides, nil)
		copy(d.Slides[i+2:], d.Slides[i+1:])
		d.Slides[i+1] = slide
		return nil
	}
}

// DeleteSlide removes the slide from the deck.
func DeleteSlide(slideID string) Mutator {
	return func(d *models.Deck) error {
		if i := d.SlideIndex(slideID); i >= 0 {
			d.Slides = append(d.Slides[:i], d.Slides[i+1:]...)
		}
		return nil
	}
}

// MoveSlide shifts the slide by delta positions, clamped to the deck bounds.
func MoveSlide(slideID string, delta int) Mutator {
	return func(d *models.Deck) error {
		i := d.SlideIndex(slideID)
		if i < 0 {
			return nil
		}

		j := i + delta
		if j < 0 {
			j = 0
		}
		if j > len(d.Slides)-1 {
			j = len(d.Slides) - 1
		}

		slide := d.Slides[i]
		d.Slides = append(d.Slides[:i], d.Slides[i+1:]...)
		d.Slides = append(d.Slides, nil)
		copy(d.Slides[j+1:], d.Slides[j:])
		d.Slides[j] = slide
		return nil
	}
}

// SetSlideTitle updates one slide's title.
func SetSlideTitle(slideID, title string) Mutator {
	return onSlide(slideID, func(s *models.Slide) {
		s.Title = title
	})
}

// ChangeLayout switches the slide's layout tag. Content is not migrated:
// the new layout reinterprets the existing sequence under its own codec.
func ChangeLayout(slideID, layout string) Mutator {
	return onSlide(slideID, func(s *models.Slide) {
		s.Layout = models.ParseLayout(layout)
	})
}

// SetImageURL assigns the slide's image (generated data URL or a search
// result's full-resolution URL). An empty value clears the image.
func SetImageURL(slideID, url string) Mutator {
	return onSlide(slideID, func(s *models.Slide) {
		s.ImageURL = url
	})
}

// SetImagePosition moves the image region for image+content layouts.
func SetImagePosition(slideID, position string) Mutator {
	return onSlide(slideID, func(s *models.Slide) {
		s.ImagePosition = models.ParseImagePosition(position)
	})
}

// SetImagePrompt replaces the slide's image prompt.
func SetImagePrompt(slideID, prompt string) Mutator {
	return onSlide(slideID, func(s *models.Slide) {
		s.ImagePrompt = prompt
	})
}

// SetContentItem replaces content item i. Out-of-range indices are no-ops.
func SetContentItem(slideID string, i int, value string) Mutator {
	return onSlide(slideID, func(s *models.Slide) {
		if i >= 0 && i < len(s.Content) {
			s.Content[i] = value
		}
	})
}

// AddContentItem appends a content item.
func AddContentItem(slideID, value string) Mutator {
	return onSlide(slideID, func(s *models.Slide) {
		s.Content = append(s.Content, value)
	})
}

// RemoveContentItem removes content item i. Out-of-range indices are no-ops.
func RemoveContentItem(slideID string, i int) Mutator {
	return onSlide(slideID, func(s *models.Slide) {
		if i >= 0 && i < len(s.Content) {
			s.Content = append(s.Content[:i], s.Content[i+1:]...)
		}
	})
}

// SetTimelineEntry updates one timeline entry through the codec, keeping the
// packed "date :: description" encoding out of the caller's hands.
func SetTimelineEntry(slideID string, i int, key, value string) Mutator {
	return onSlide(slideID, func(s *models.Slide) {
		content, ok := codec.Decode(s.Layout, s.Content).(codec.TimelineContent)
		if !ok || i < 0 || i >= len(content.Entries) {
			return
		}
		content.Entries[i] = codec.TimelineEntry{Key: key, Value: value}
		s.Content = codec.Encode(content)
	})
}

// SetFeature updates one feature card through the codec.
func SetFeature(slideID string, i int, icon, title, description string) Mutator {
	return onSlide(slideID, func(s *models.Slide) {
		content, ok := codec.Decode(s.Layout, s.Content).(codec.FeaturesContent)
		if !ok || i < 0 || i >= len(content.Features) {
			return
		}
		content.Features[i] = codec.Feature{Icon: icon, Title: title, Description: description}
		s.Content = codec.Encode(content)
	})
}

// SetChartPoint updates one chart data point.
func SetChartPoint(slideID string, i int, point models.ChartPoint) Mutator {
	return onChart(slideID, func(points []models.ChartPoint) []models.ChartPoint {
		if i >= 0 && i < len(points) {
			points[i] = point
		}
		return points
	})
}

// AddChartPoint appends a chart data point.
func AddChartPoint(slideID string, point models.ChartPoint) Mutator {
	return onChart(slideID, func(points []models.ChartPoint) []models.ChartPoint {
		return append(points, point)
	})
}

// RemoveChartPoint removes chart data point i.
func RemoveChartPoint(slideID string, i int) Mutator {
	return onChart(slideID, func(points []models.ChartPoint) []models.ChartPoint {
		if i >= 0 && i < len(points) {
			points = append(points[:i], points[i+1:]...)
		}
		return points
	})
}

// RenameHierarchyRow renames row i of the slide's flattened hierarchy.
func RenameHierarchyRow(slideID string, i int, name string) Mutator {
	return onHierarchy(slideID, func(rows []models.FlatNode) []models.FlatNode {
		return codec.RenameRow(rows, i, name)
	})
}

// IndentHierarchyRow deepens row i by one level where legal.
func IndentHierarchyRow(slideID string, i int) Mutator {
	return onHierarchy(slideID, func(rows []models.FlatNode) []models.FlatNode {
		return codec.IndentRow(rows, i)
	})
}

// OutdentHierarchyRow shallows row i by one level where legal.
func OutdentHierarchyRow(slideID string, i int) Mutator {
	return onHierarchy(slideID, func(rows []models.FlatNode) []models.FlatNode {
		return codec.OutdentRow(rows, i)
	})
}

// InsertHierarchyRowAfter inserts a sibling row after row i. On a slide with
// no valid hierarchy this creates the root row.
func InsertHierarchyRowAfter(slideID string, i int, name string) Mutator {
	return onHierarchy(slideID, func(rows []models.FlatNode) []models.FlatNode {
		return codec.InsertRowAfter(rows, i, name)
	})
}

// RemoveHierarchySubtree removes row i and its whole subtree.
func RemoveHierarchySubtree(slideID string, i int) Mutator {
	return onHierarchy(slideID, func(rows []models.FlatNode) []models.FlatNode {
		return codec.RemoveSubtree(rows, i)
	})
}

func onSlide(slideID string, apply func(*models.Slide)) Mutator {
	return func(d *models.Deck) error {
		if s := d.SlideByID(slideID); s != nil {
			apply(s)
		}
		return nil
	}
}

func onChart(slideID string, transform func([]models.ChartPoint) []models.ChartPoint) Mutator {
	return onSlide(slideID, func(s *models.Slide) {
		content, ok := codec.Decode(s.Layout, s.Content).(codec.ChartContent)
		if !ok {
			return
		}
		content.Points = transform(content.Points)
		s.Content = codec.Encode(content)
	})
}

func onHierarchy(slideID string, transform func([]models.FlatNode) []models.FlatNode) Mutator {
	return onSlide(slideID, func(s *models.Slide) {
		content, ok := codec.Decode(s.Layout, s.Content).(codec.HierarchyContent)
		if !ok {
			return
		}
		rows := transform(codec.Flatten(content.Root))
		s.Content = codec.Encode(codec.HierarchyContent{Root: codec.Unflatten(rows)})
	})
}
