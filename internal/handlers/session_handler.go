package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/models"
	"github.com/ternarybob/prezo/internal/services/session"
)

// EditOp is one structured editing operation. Op selects the operation;
// the remaining fields carry its parameters. Operations addressing an
// unknown slide ID apply as no-ops, matching the editing engine.
type EditOp struct {
	Op          string             `json:"op" validate:"required"`
	SlideID     string             `json:"slide_id,omitempty"`
	Title       string             `json:"title,omitempty"`
	Theme       string             `json:"theme,omitempty"`
	Layout      string             `json:"layout,omitempty"`
	Index       int                `json:"index,omitempty"`
	Delta       int                `json:"delta,omitempty"`
	Value       string             `json:"value,omitempty"`
	Key         string             `json:"key,omitempty"`
	Name        string             `json:"name,omitempty"`
	Icon        string             `json:"icon,omitempty"`
	Description string             `json:"description,omitempty"`
	URL         string             `json:"url,omitempty"`
	Position    string             `json:"position,omitempty"`
	Prompt      string             `json:"prompt,omitempty"`
	Point       *models.ChartPoint `json:"point,omitempty"`
	Slide       *models.Slide      `json:"slide,omitempty"`
}

// SessionHandler serves session lifecycle and deck editing routes.
type SessionHandler struct {
	sessions interfaces.SessionService
	logger   arbor.ILogger
}

func NewSessionHandler(sessions interfaces.SessionService, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// GetSessionHandler handles GET /api/sessions/{id}.
func (h *SessionHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sess.ID,
		"deck":       sess.Deck,
		"created_at": sess.CreatedAt,
		"updated_at": sess.UpdatedAt,
	})
}

// DeleteSessionHandler handles DELETE /api/sessions/{id}.
func (h *SessionHandler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, "session deleted")
}

// ReplaceSlideHandler handles PUT /api/sessions/{id}/slides/{slideID}.
// The body carries the complete replacement slide; its ID must match the
// path so a stale client cannot overwrite a different slide.
func (h *SessionHandler) ReplaceSlideHandler(w http.ResponseWriter, r *http.Request, id, slideID string) {
	var slide models.Slide
	if err := json.NewDecoder(r.Body).Decode(&slide); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid slide body: %v", err))
		return
	}
	if slide.ID != slideID {
		WriteError(w, http.StatusBadRequest, "slide ID in body does not match path")
		return
	}
	if !slide.Layout.Valid() {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown layout %q", slide.Layout))
		return
	}

	sess, err := h.sessions.Update(r.Context(), id, session.ReplaceSlide(&slide))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"session_id": sess.ID, "deck": sess.Deck})
}

// ApplyOpsHandler handles POST /api/sessions/{id}/ops. All operations in
// the batch apply atomically under the session lock, in order.
func (h *SessionHandler) ApplyOpsHandler(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Ops []EditOp `json:"ops" validate:"required,min=1,max=100,dive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := validate.Struct(&body); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	mutators := make([]session.Mutator, 0, len(body.Ops))
	for i, op := range body.Ops {
		m, err := mutatorFor(op)
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("op %d: %v", i, err))
			return
		}
		mutators = append(mutators, m)
	}

	sess, err := h.sessions.Update(r.Context(), id, func(deck *models.Deck) error {
		for _, m := range mutators {
			if err := m(deck); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	h.logger.Debug().Str("session_id", id).Int("ops", len(body.Ops)).Msg("Applied edit operations")
	WriteJSON(w, http.StatusOK, map[string]interface{}{"session_id": sess.ID, "deck": sess.Deck})
}

func mutatorFor(op EditOp) (session.Mutator, error) {
	switch op.Op {
	case "set_deck_title":
		return session.SetDeckTitle(op.Title), nil
	case "set_theme":
		return session.SetTheme(op.Theme), nil
	case "replace_slide":
		if op.Slide == nil {
			return nil, fmt.Errorf("replace_slide needs a slide")
		}
		return session.ReplaceSlide(op.Slide), nil
	case "add_slide_after":
		return session.AddSlideAfter(op.SlideID), nil
	case "delete_slide":
		return session.DeleteSlide(op.SlideID), nil
	case "move_slide":
		return session.MoveSlide(op.SlideID, op.Delta), nil
	case "set_slide_title":
		return session.SetSlideTitle(op.SlideID, op.Title), nil
	case "change_layout":
		return session.ChangeLayout(op.SlideID, op.Layout), nil
	case "set_image_url":
		return session.SetImageURL(op.SlideID, op.URL), nil
	case "set_image_position":
		return session.SetImagePosition(op.SlideID, op.Position), nil
	case "set_image_prompt":
		return session.SetImagePrompt(op.SlideID, op.Prompt), nil
	case "set_content_item":
		return session.SetContentItem(op.SlideID, op.Index, op.Value), nil
	case "add_content_item":
		return session.AddContentItem(op.SlideID, op.Value), nil
	case "remove_content_item":
		return session.RemoveContentItem(op.SlideID, op.Index), nil
	case "set_timeline_entry":
		return session.SetTimelineEntry(op.SlideID, op.Index, op.Key, op.Value), nil
	case "set_feature":
		return session.SetFeature(op.SlideID, op.Index, op.Icon, op.Title, op.Description), nil
	case "set_chart_point":
		if op.Point == nil {
			return nil, fmt.Errorf("set_chart_point needs a point")
		}
		return session.SetChartPoint(op.SlideID, op.Index, *op.Point), nil
	case "add_chart_point":
		if op.Point == nil {
			return nil, fmt.Errorf("add_chart_point needs a point")
		}
		return session.AddChartPoint(op.SlideID, *op.Point), nil
	case "remove_chart_point":
		return session.RemoveChartPoint(op.SlideID, op.Index), nil
	case "rename_hierarchy_row":
		return session.RenameHierarchyRow(op.SlideID, op.Index, op.Name), nil
	case "indent_hierarchy_row":
		return session.IndentHierarchyRow(op.SlideID, op.Index), nil
	case "outdent_hierarchy_row":
		return session.OutdentHierarchyRow(op.SlideID, op.Index), nil
	case "insert_hierarchy_row_after":
		return session.InsertHierarchyRowAfter(op.SlideID, op.Index, op.Name), nil
	case "remove_hierarchy_subtree":
		return session.RemoveHierarchySubtree(op.SlideID, op.Index), nil
	default:
		return nil, fmt.Errorf("unknown op %q", op.Op)
	}
}
