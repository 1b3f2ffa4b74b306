package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/conecta-lead/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) ListByClient(ctx context.Context, clientID string) ([]entity.Lead, error) {
	query := `
		SELECT id, client_id, column_id, name, phone, interest, notes, created_at
		FROM leads
		WHERE client_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		var (
			l                      entity.Lead
			phone, interest, notes sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.ClientID, &l.ColumnID, &l.Name, &phone, &interest, &notes, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Phone = fromNull(phone)
		l.Interest = fromNull(interest)
		l.Notes = fromNull(notes)
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (id, client_id, column_id, name, phone, interest, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		l.ID,
		l.ClientID,
		l.ColumnID,
		l.Name,
		nullString(l.Phone),
		nullString(l.Interest),
		nullString(l.Notes),
		l.CreatedAt,
	)
	return mapError(err)
}

func (r *LeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads
		SET name = $2, phone = $3, interest = $4, notes = $5, column_id = $6
		WHERE id = $1
	`
	return expectOne(r.DB.ExecContext(ctx, query,
		l.ID,
		l.Name,
		nullString(l.Phone),
		nullString(l.Interest),
		nullString(l.Notes),
		l.ColumnID,
	))
}

func (r *LeadRepository) UpdateColumn(ctx context.Context, id, columnID string) error {
	return expectOne(r.DB.ExecContext(ctx, `UPDATE leads SET column_id = $2 WHERE id = $1`, id, columnID))
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lead_labels WHERE lead_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM followups WHERE lead_id = $1`, id); err != nil {
		return err
	}
	if err := expectOne(tx.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)); err != nil {
		return err
	}
	return tx.Commit()
}
