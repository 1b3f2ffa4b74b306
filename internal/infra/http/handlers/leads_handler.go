package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/usecase"
)

type LeadsHandler struct {
	Now func() time.Time
}

func NewLeadsHandler() *LeadsHandler {
	return &LeadsHandler{Now: time.Now}
}

type LeadView struct {
	entity.Lead
	ColumnName   string `json:"column_name"`
	WhatsAppLink string `json:"whatsapp_link,omitempty"`
}

func filterFromQuery(r *http.Request) usecase.LeadFilter {
	q := r.URL.Query()
	return usecase.LeadFilter{Search: q.Get("search"), ColumnID: q.Get("column_id")}
}

// List devolve os leads filtrados com o nome da coluna e o link wa.me.
func (h *LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	store, ok := loadBoard(w, r, r.URL.Query().Get("tenant_id"))
	if !ok {
		return
	}

	names := columnNames(store.Columns())
	leads := usecase.FilterLeads(store.Leads(), filterFromQuery(r))
	out := make([]LeadView, 0, len(leads))
	for _, l := range leads {
		out = append(out, LeadView{Lead: l, ColumnName: names[l.ColumnID], WhatsAppLink: usecase.WhatsAppLink(l.Phone)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	store, ok := loadBoard(w, r, r.URL.Query().Get("tenant_id"))
	if !ok {
		return
	}

	var buf bytes.Buffer
	leads := usecase.FilterLeads(store.Leads(), filterFromQuery(r))
	if err := usecase.ExportLeadsCSV(&buf, leads, store.Columns()); err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("leads-%s.csv", h.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *LeadsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	store, ok := loadBoard(w, r, r.URL.Query().Get("tenant_id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, usecase.BuildDashboard(store.Columns(), store.Leads(), h.Now()))
}

func columnNames(columns []entity.Column) map[string]string {
	names := make(map[string]string, len(columns))
	for _, c := range columns {
		names[c.ID] = c.Name
	}
	return names
}
