package database

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/xavierca1/conecta-lead/internal/entity"
)

type LabelRepository struct {
	DB *sql.DB
}

func NewLabelRepository(db *sql.DB) *LabelRepository {
	return &LabelRepository{DB: db}
}

func (r *LabelRepository) ListByClient(ctx context.Context, clientID string) ([]entity.Label, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, client_id, name, color FROM labels WHERE client_id = $1 ORDER BY name ASC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := []entity.Label{}
	for rows.Next() {
		var l entity.Label
		if err := rows.Scan(&l.ID, &l.ClientID, &l.Name, &l.Color); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (r *LabelRepository) Create(ctx context.Context, l *entity.Label) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO labels (id, client_id, name, color) VALUES ($1, $2, $3, $4)`,
		l.ID, l.ClientID, l.Name, string(l.Color))
	return mapError(err)
}

func (r *LabelRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lead_labels WHERE label_id = $1`, id); err != nil {
		return err
	}
	if err := expectOne(tx.ExecContext(ctx, `DELETE FROM labels WHERE id = $1`, id)); err != nil {
		return err
	}
	return tx.Commit()
}

// Assign é idempotente: repetir a associação não duplica a linha.
func (r *LabelRepository) Assign(ctx context.Context, leadID, labelID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO lead_labels (lead_id, label_id) VALUES ($1, $2)
		ON CONFLICT (lead_id, label_id) DO NOTHING
	`, leadID, labelID)
	return err
}

func (r *LabelRepository) Unassign(ctx context.Context, leadID, labelID string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM lead_labels WHERE lead_id = $1 AND label_id = $2`, leadID, labelID)
	return err
}

func (r *LabelRepository) ListAssignments(ctx context.Context, leadIDs []string) ([]entity.LeadLabel, error) {
	out := []entity.LeadLabel{}
	if len(leadIDs) == 0 {
		return out, nil
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT lead_id, label_id FROM lead_labels WHERE lead_id = ANY($1)`, pq.Array(leadIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ll entity.LeadLabel
		if err := rows.Scan(&ll.LeadID, &ll.LabelID); err != nil {
			return nil, err
		}
		out = append(out, ll)
	}
	return out, rows.Err()
}
