package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/usecase"
)

type AdminHandler struct {
	Clients  *usecase.ClientAdminService
	Payments *usecase.PaymentAdminService
}

func NewAdminHandler(clients *usecase.ClientAdminService, payments *usecase.PaymentAdminService) *AdminHandler {
	return &AdminHandler{Clients: clients, Payments: payments}
}

type MarkPaidRequest struct {
	PaidAt time.Time `json:"paid_at"`
}

func (h *AdminHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	filter := entity.ClientFilter{Search: r.URL.Query().Get("search")}
	if s := r.URL.Query().Get("status"); s != "" {
		st, err := entity.ParseClientStatus(s)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.Status = st
	}

	clients, err := h.Clients.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *AdminHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.Clients.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (h *AdminHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var input usecase.ProvisionClientInput
	if !decodeJSON(w, r, &input) {
		return
	}
	client, err := h.Clients.Provision(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (h *AdminHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var patch usecase.ClientPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	client, err := h.Clients.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (h *AdminHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.Clients.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClientBoard abre o quadro do cliente em modo somente leitura.
func (h *AdminHandler) ClientBoard(w http.ResponseWriter, r *http.Request) {
	store, ok := loadBoard(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	columns := store.Columns()
	if columns == nil {
		columns = []entity.Column{}
	}
	writeJSON(w, http.StatusOK, BoardResponse{Columns: columns, ReadOnly: true})
}

func (h *AdminHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var input usecase.PaymentInput
	if !decodeJSON(w, r, &input) {
		return
	}
	payment, err := h.Payments.Register(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (h *AdminHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req MarkPaidRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Payments.MarkPaid(r.Context(), chi.URLParam(r, "id"), req.PaidAt); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
