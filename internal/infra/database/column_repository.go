package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/conecta-lead/internal/entity"
)

type ColumnRepository struct {
	DB *sql.DB
}

func NewColumnRepository(db *sql.DB) *ColumnRepository {
	return &ColumnRepository{DB: db}
}

func (r *ColumnRepository) ListByClient(ctx context.Context, clientID string) ([]entity.Column, error) {
	query := `
		SELECT id, client_id, name, "order", color, created_at
		FROM columns
		WHERE client_id = $1
		ORDER BY "order" ASC, created_at ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := []entity.Column{}
	for rows.Next() {
		var c entity.Column
		if err := rows.Scan(&c.ID, &c.ClientID, &c.Name, &c.Order, &c.Color, &c.CreatedAt); err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

func (r *ColumnRepository) Create(ctx context.Context, c *entity.Column) error {
	query := `INSERT INTO columns (id, client_id, name, "order", color, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.ClientID, c.Name, c.Order, string(c.Color), c.CreatedAt)
	return mapError(err)
}

func (r *ColumnRepository) Rename(ctx context.Context, id, name string) error {
	return expectOne(r.DB.ExecContext(ctx, `UPDATE columns SET name = $2 WHERE id = $1`, id, name))
}

// Delete remove a coluna junto com os leads dela.
func (r *ColumnRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []string{
		`DELETE FROM lead_labels WHERE lead_id IN (SELECT id FROM leads WHERE column_id = $1)`,
		`DELETE FROM followups WHERE lead_id IN (SELECT id FROM leads WHERE column_id = $1)`,
		`DELETE FROM leads WHERE column_id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("column cascade: %w", err)
		}
	}
	if err := expectOne(tx.ExecContext(ctx, `DELETE FROM columns WHERE id = $1`, id)); err != nil {
		return err
	}
	return tx.Commit()
}
