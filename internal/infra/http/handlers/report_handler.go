package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/usecase"
)

type ReportHandler struct {
	Reports *usecase.ReportService
}

func NewReportHandler(reports *usecase.ReportService) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

func paymentFilter(r *http.Request) (entity.PaymentFilter, error) {
	q := r.URL.Query()
	filter := entity.PaymentFilter{ClientID: q.Get("client_id"), ReferenceMonth: q.Get("month")}
	if s := q.Get("status"); s != "" {
		st, err := entity.ParsePaymentStatus(s)
		if err != nil {
			return filter, err
		}
		filter.Status = st
	}
	return filter, nil
}

func (h *ReportHandler) Payments(w http.ResponseWriter, r *http.Request) {
	filter, err := paymentFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.Reports.PaymentReport(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) PaymentsCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := paymentFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.Reports.PaymentReport(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := usecase.ExportPaymentsCSV(&buf, report.Payments); err != nil {
		writeError(w, r, err)
		return
	}
	name := "pagamentos.csv"
	if filter.ReferenceMonth != "" {
		name = fmt.Sprintf("pagamentos-%s.csv", filter.ReferenceMonth)
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *ReportHandler) Recurrence(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reports.RecurrenceReport(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// LeadScores ranqueia os leads de um cliente pela nota de interesse.
func (h *ReportHandler) LeadScores(w http.ResponseWriter, r *http.Request) {
	store, ok := loadBoard(w, r, r.URL.Query().Get("tenant_id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, usecase.ScoreLeads(store.Leads()))
}
