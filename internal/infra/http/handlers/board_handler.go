package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/infra/http/middleware"
	"github.com/xavierca1/conecta-lead/internal/usecase"
)

type BoardHandler struct{}

func NewBoardHandler() *BoardHandler {
	return &BoardHandler{}
}

type BoardResponse struct {
	Columns  []entity.Column `json:"columns"`
	ReadOnly bool            `json:"read_only"`
}

type MoveLeadRequest struct {
	ColumnID string `json:"column_id"`
}

type ColumnRequest struct {
	Name  string             `json:"name"`
	Color entity.ColumnColor `json:"color"`
}

type LabelRequest struct {
	Name  string             `json:"name"`
	Color entity.ColumnColor `json:"color"`
}

// loadBoard carrega o quadro do cliente da sessão; as mutações exigem que
// o lead esteja no quadro carregado.
func loadBoard(w http.ResponseWriter, r *http.Request, tenantID string) (*usecase.Store, bool) {
	store := storeOf(r)
	if err := store.FetchColumnsAndLeads(r.Context(), tenantID); err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return store, true
}

// Get devolve o quadro. Admin informa ?tenant_id= e recebe o quadro em
// modo somente leitura.
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	store, ok := loadBoard(w, r, r.URL.Query().Get("tenant_id"))
	if !ok {
		return
	}
	columns := store.Columns()
	if columns == nil {
		columns = []entity.Column{}
	}
	writeJSON(w, http.StatusOK, BoardResponse{Columns: columns, ReadOnly: store.IsAdmin()})
}

// isRemoteMoveFailure separa a falha de escrita (revertida no quadro) dos
// erros de entrada, que não contam na métrica de movimentos.
func isRemoteMoveFailure(err error) bool {
	var te *usecase.TechnicalError
	return errors.As(err, &te) && te.Code == "MOVE_FAILED"
}

func (h *BoardHandler) MoveLead(w http.ResponseWriter, r *http.Request) {
	var req MoveLeadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	store := storeOf(r)
	drag := usecase.NewDragSession(store, store.IsAdmin())
	if drag.ReadOnly() {
		writeError(w, r, entity.ErrReadOnlyBoard)
		return
	}

	store, ok := loadBoard(w, r, "")
	if !ok {
		return
	}

	drag.DragStart(chi.URLParam(r, "id"))
	moved, err := drag.Drop(r.Context(), req.ColumnID)
	if err != nil {
		if isRemoteMoveFailure(err) {
			middleware.RecordLeadMove(false)
		}
		writeError(w, r, err)
		return
	}
	if moved {
		middleware.RecordLeadMove(true)
	}

	writeJSON(w, http.StatusOK, BoardResponse{Columns: store.Columns()})
}

func (h *BoardHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}
	store, ok := loadBoard(w, r, "")
	if !ok {
		return
	}

	lead, err := store.AddLead(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *BoardHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	var patch entity.LeadPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	store, ok := loadBoard(w, r, "")
	if !ok {
		return
	}

	lead, err := store.UpdateLead(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *BoardHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	store, ok := loadBoard(w, r, "")
	if !ok {
		return
	}
	if err := store.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BoardHandler) AddLabel(w http.ResponseWriter, r *http.Request) {
	store, ok := loadBoard(w, r, "")
	if !ok {
		return
	}
	leadID := chi.URLParam(r, "id")
	if err := store.AddLabel(r.Context(), leadID, chi.URLParam(r, "labelID")); err != nil {
		writeError(w, r, err)
		return
	}
	lead, _ := store.Lead(leadID)
	writeJSON(w, http.StatusOK, lead)
}

func (h *BoardHandler) RemoveLabel(w http.ResponseWriter, r *http.Request) {
	store, ok := loadBoard(w, r, "")
	if !ok {
		return
	}
	leadID := chi.URLParam(r, "id")
	if err := store.RemoveLabel(r.Context(), leadID, chi.URLParam(r, "labelID")); err != nil {
		writeError(w, r, err)
		return
	}
	lead, _ := store.Lead(leadID)
	writeJSON(w, http.StatusOK, lead)
}

func (h *BoardHandler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	var req ColumnRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	store, ok := loadBoard(w, r, "")
	if !ok {
		return
	}
	col, err := store.CreateColumn(r.Context(), req.Name, req.Color)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, col)
}

func (h *BoardHandler) RenameColumn(w http.ResponseWriter, r *http.Request) {
	var req ColumnRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	store, ok := loadBoard(w, r, "")
	if !ok {
		return
	}
	if err := store.RenameColumn(r.Context(), chi.URLParam(r, "id"), req.Name); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BoardHandler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	store, ok := loadBoard(w, r, "")
	if !ok {
		return
	}
	if err := store.DeleteColumn(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BoardHandler) ListLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := storeOf(r).Labels(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

func (h *BoardHandler) CreateLabel(w http.ResponseWriter, r *http.Request) {
	var req LabelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	label, err := storeOf(r).CreateLabel(r.Context(), req.Name, req.Color)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, label)
}
