package entity

import (
	"strings"
	"time"
)

// PaymentStatus unifica os dois vocabulários encontrados nas telas
// (pending/paid/late e paid/pending/cancelled).
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentLate      PaymentStatus = "late"
	PaymentCancelled PaymentStatus = "cancelled"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "pendente":
		return PaymentPending, nil
	case "paid", "pago":
		return PaymentPaid, nil
	case "late", "atrasado":
		return PaymentLate, nil
	case "cancelled", "canceled", "cancelado":
		return PaymentCancelled, nil
	}
	return "", ErrInvalidStatus
}

// Payment é uma cobrança do cliente. ReferenceMonth usa o formato YYYY-MM.
type Payment struct {
	ID             string        `json:"id"`
	ClientID       string        `json:"client_id"`
	ClientName     string        `json:"client_name,omitempty"`
	AmountCents    int64         `json:"amount_cents"`
	Type           string        `json:"type"`
	ReferenceMonth string        `json:"reference_month"`
	DueDate        time.Time     `json:"due_date"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`
	Status         PaymentStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

type PaymentFilter struct {
	ClientID       string
	Status         PaymentStatus
	ReferenceMonth string
}
