package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/conecta-lead/internal/infra/http/middleware"
	"github.com/xavierca1/conecta-lead/internal/usecase"
)

type FollowupHandler struct {
	Followups *usecase.FollowupService
}

func NewFollowupHandler(followups *usecase.FollowupService) *FollowupHandler {
	return &FollowupHandler{Followups: followups}
}

func (h *FollowupHandler) List(w http.ResponseWriter, r *http.Request) {
	followups, err := h.Followups.List(r.Context(), storeOf(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, followups)
}

func (h *FollowupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.ScheduleFollowupInput
	if !decodeJSON(w, r, &input) {
		return
	}
	store, ok := loadBoard(w, r, "")
	if !ok {
		return
	}

	followup, err := h.Followups.Schedule(r.Context(), store, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.RecordFollowupScheduled()
	writeJSON(w, http.StatusCreated, followup)
}

func (h *FollowupHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	store, ok := loadBoard(w, r, "")
	if !ok {
		return
	}
	if err := h.Followups.Cancel(r.Context(), store, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
