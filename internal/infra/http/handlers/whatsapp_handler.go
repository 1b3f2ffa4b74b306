package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/infra/integration/workflow"
	"github.com/xavierca1/conecta-lead/internal/usecase"
)

type WhatsAppHandler struct {
	WhatsApp *usecase.WhatsAppService
}

func NewWhatsAppHandler(whatsapp *usecase.WhatsAppService) *WhatsAppHandler {
	return &WhatsAppHandler{WhatsApp: whatsapp}
}

type StatusResponse struct {
	Status workflow.SessionStatus `json:"status"`
}

func (h *WhatsAppHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	qr, err := h.WhatsApp.QRCode(r.Context(), storeOf(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, qr)
}

func (h *WhatsAppHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.WhatsApp.Status(r.Context(), storeOf(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: status})
}

// StatusStream envia o status por Server-Sent Events enquanto a tela de
// conexão estiver aberta. Fechar a conexão cancela o polling.
func (h *WhatsAppHandler) StatusStream(w http.ResponseWriter, r *http.Request) {
	client := storeOf(r).Client()
	if client == nil {
		writeError(w, r, entity.ErrNoTenant)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "STREAM_UNSUPPORTED", Message: "streaming não suportado"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.WhatsApp.Poll(r.Context(), client, func(status workflow.SessionStatus) {
		data, _ := json.Marshal(StatusResponse{Status: status})
		if _, err := fmt.Fprintf(w, "event: status\ndata: %s\n\n", data); err != nil {
			log.Debug().Err(err).Msg("cliente do stream desconectou")
			return
		}
		flusher.Flush()
	})
}
