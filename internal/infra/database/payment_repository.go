package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/conecta-lead/internal/entity"
)

type PaymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) List(ctx context.Context, filter entity.PaymentFilter) ([]entity.Payment, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		conds = append(conds, fmt.Sprintf("p.client_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.ReferenceMonth != "" {
		args = append(args, filter.ReferenceMonth)
		conds = append(conds, fmt.Sprintf("p.reference_month = $%d", len(args)))
	}

	query := `
		SELECT p.id, p.client_id, c.name, p.amount_cents, p.type, p.reference_month,
			p.due_date, p.paid_at, p.status, p.created_at
		FROM payments p
		JOIN clients c ON c.id = p.client_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY p.due_date DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []entity.Payment{}
	for rows.Next() {
		var (
			p      entity.Payment
			paidAt sql.NullTime
			status string
		)
		err := rows.Scan(&p.ID, &p.ClientID, &p.ClientName, &p.AmountCents, &p.Type,
			&p.ReferenceMonth, &p.DueDate, &paidAt, &status, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		if paidAt.Valid {
			p.PaidAt = &paidAt.Time
		}
		if st, err := entity.ParsePaymentStatus(status); err == nil {
			p.Status = st
		} else {
			p.Status = entity.PaymentStatus(status)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, client_id, amount_cents, type, reference_month, due_date, paid_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.ClientID,
		p.AmountCents,
		p.Type,
		p.ReferenceMonth,
		p.DueDate,
		p.PaidAt,
		string(p.Status),
		p.CreatedAt,
	)
	return mapError(err)
}

func (r *PaymentRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	return expectOne(r.DB.ExecContext(ctx,
		`UPDATE payments SET status = 'paid', paid_at = $2 WHERE id = $1 AND status <> 'cancelled'`, id, paidAt))
}

// OverduePayment é uma cobrança que acabou de virar atrasada.
type OverduePayment struct {
	ID       string
	ClientID string
	DueDate  time.Time
}

// MarkOverdue marca como atrasadas as cobranças pendentes vencidas antes
// de now e devolve as que mudaram.
func (r *PaymentRepository) MarkOverdue(ctx context.Context, now time.Time) ([]OverduePayment, error) {
	query := `
		UPDATE payments
		SET status = 'late'
		WHERE status IN ('pending', 'pendente') AND due_date < $1
		RETURNING id, client_id, due_date
	`
	rows, err := r.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OverduePayment{}
	for rows.Next() {
		var o OverduePayment
		if err := rows.Scan(&o.ID, &o.ClientID, &o.DueDate); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
