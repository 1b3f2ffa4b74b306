package usecase

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xavierca1/conecta-lead/internal/entity"
)

type LeadFilter struct {
	Search   string
	ColumnID string
}

// FilterLeads filtra por nome/telefone (substring, sem diferenciar
// maiúsculas) e coluna.
func FilterLeads(leads []entity.Lead, f LeadFilter) []entity.Lead {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if f.ColumnID != "" && l.ColumnID != f.ColumnID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(l.Name), search) &&
			!strings.Contains(l.Phone, search) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// ExportLeadsCSV escreve o cabeçalho e uma linha por lead. Campos com
// vírgula, aspas ou quebra de linha saem entre aspas.
func ExportLeadsCSV(w io.Writer, leads []entity.Lead, columns []entity.Column) error {
	names := make(map[string]string, len(columns))
	for _, c := range columns {
		names[c.ID] = c.Name
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Nome", "Telefone", "Interesse", "Coluna", "Criado em"}); err != nil {
		return err
	}
	for _, l := range leads {
		row := []string{l.Name, l.Phone, l.Interest, names[l.ColumnID], formatDate(l.CreatedAt)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("erro ao escrever lead %s: %w", l.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func ExportPaymentsCSV(w io.Writer, payments []entity.Payment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Cliente", "Valor", "Tipo", "Referência", "Vencimento", "Pagamento", "Status"}); err != nil {
		return err
	}
	for _, p := range payments {
		paidAt := ""
		if p.PaidAt != nil {
			paidAt = formatDate(*p.PaidAt)
		}
		row := []string{
			p.ClientName,
			formatCents(p.AmountCents),
			p.Type,
			p.ReferenceMonth,
			formatDate(p.DueDate),
			paidAt,
			string(p.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("erro ao escrever pagamento %s: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
