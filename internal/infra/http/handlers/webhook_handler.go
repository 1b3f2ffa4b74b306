package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/conecta-lead/internal/infra/http/middleware"
	"github.com/xavierca1/conecta-lead/internal/usecase"
)

// WebhookHandler recebe leads de automações externas. O limite por IP é
// aplicado no roteador (httprate).
type WebhookHandler struct {
	CaptureLead *usecase.CaptureLeadUseCase
}

func NewWebhookHandler(captureLead *usecase.CaptureLeadUseCase) *WebhookHandler {
	return &WebhookHandler{CaptureLead: captureLead}
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"lead_id,omitempty"`
}

func (h *WebhookHandler) CaptureLeadHandler(w http.ResponseWriter, r *http.Request) {
	var input usecase.CaptureLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.CaptureLead.Execute(r.Context(), chi.URLParam(r, "token"), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.RecordLeadCaptured()
	writeJSON(w, http.StatusCreated, CaptureLeadResponse{Success: true, LeadID: lead.ID})
}
