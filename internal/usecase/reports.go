package usecase

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/xavierca1/conecta-lead/internal/entity"
)

type ReportService struct {
	Payments PaymentRepository
}

func NewReportService(payments PaymentRepository) *ReportService {
	return &ReportService{Payments: payments}
}

type PaymentReport struct {
	Payments            []entity.Payment `json:"payments"`
	Count               int              `json:"count"`
	TotalPaidCents      int64            `json:"total_paid_cents"`
	TotalPendingCents   int64            `json:"total_pending_cents"`
	TotalLateCents      int64            `json:"total_late_cents"`
	TotalCancelledCents int64            `json:"total_cancelled_cents"`
}

func (r *ReportService) PaymentReport(ctx context.Context, filter entity.PaymentFilter) (*PaymentReport, error) {
	payments, err := r.Payments.List(ctx, filter)
	if err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao buscar pagamentos", err)
	}
	report := SummarizePayments(payments)
	return &report, nil
}

func SummarizePayments(payments []entity.Payment) PaymentReport {
	report := PaymentReport{Payments: payments, Count: len(payments)}
	if report.Payments == nil {
		report.Payments = []entity.Payment{}
	}
	for _, p := range payments {
		switch p.Status {
		case entity.PaymentPaid:
			report.TotalPaidCents += p.AmountCents
		case entity.PaymentPending:
			report.TotalPendingCents += p.AmountCents
		case entity.PaymentLate:
			report.TotalLateCents += p.AmountCents
		case entity.PaymentCancelled:
			report.TotalCancelledCents += p.AmountCents
		}
	}
	return report
}

// Recurrence é o histórico de pagamentos de um cliente.
type Recurrence struct {
	ClientID       string     `json:"client_id"`
	ClientName     string     `json:"client_name"`
	PaidMonths     int        `json:"paid_months"`
	LateCount      int        `json:"late_count"`
	TotalPaidCents int64      `json:"total_paid_cents"`
	LastPaymentAt  *time.Time `json:"last_payment_at,omitempty"`
}

func (r *ReportService) RecurrenceReport(ctx context.Context) ([]Recurrence, error) {
	payments, err := r.Payments.List(ctx, entity.PaymentFilter{})
	if err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao buscar pagamentos", err)
	}
	return BuildRecurrence(payments), nil
}

func BuildRecurrence(payments []entity.Payment) []Recurrence {
	byClient := make(map[string]*Recurrence)
	months := make(map[string]map[string]bool)

	for _, p := range payments {
		rec, ok := byClient[p.ClientID]
		if !ok {
			rec = &Recurrence{ClientID: p.ClientID, ClientName: p.ClientName}
			byClient[p.ClientID] = rec
			months[p.ClientID] = make(map[string]bool)
		}

		switch p.Status {
		case entity.PaymentPaid:
			rec.TotalPaidCents += p.AmountCents
			months[p.ClientID][p.ReferenceMonth] = true
			if p.PaidAt != nil && (rec.LastPaymentAt == nil || p.PaidAt.After(*rec.LastPaymentAt)) {
				paidAt := *p.PaidAt
				rec.LastPaymentAt = &paidAt
			}
		case entity.PaymentLate:
			rec.LateCount++
		}
	}

	out := make([]Recurrence, 0, len(byClient))
	for id, rec := range byClient {
		rec.PaidMonths = len(months[id])
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClientName == out[j].ClientName {
			return out[i].ClientID < out[j].ClientID
		}
		return out[i].ClientName < out[j].ClientName
	})
	return out
}

var firstNumber = regexp.MustCompile(`\d+`)

// InterestScore extrai a nota numérica do texto de interesse ("8",
// "nota 7/10"...). Valores acima de 10 são limitados a 10.
func InterestScore(interest string) (int, bool) {
	m := firstNumber.FindString(interest)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	if n > 10 {
		n = 10
	}
	return n, true
}

type LeadScore struct {
	LeadID   string `json:"lead_id"`
	Name     string `json:"name"`
	Interest string `json:"interest"`
	Score    int    `json:"score"`
	Scored   bool   `json:"scored"`
}

// ScoreLeads ordena os leads pela nota de interesse; leads sem nota vão
// para o fim.
func ScoreLeads(leads []entity.Lead) []LeadScore {
	out := make([]LeadScore, 0, len(leads))
	for _, l := range leads {
		score, ok := InterestScore(l.Interest)
		out = append(out, LeadScore{LeadID: l.ID, Name: l.Name, Interest: l.Interest, Score: score, Scored: ok})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Scored != out[j].Scored {
			return out[i].Scored
		}
		return out[i].Score > out[j].Score
	})
	return out
}
