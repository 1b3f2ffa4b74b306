package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/conecta-lead/internal/entity"
)

type FollowupRepository struct {
	DB *sql.DB
}

func NewFollowupRepository(db *sql.DB) *FollowupRepository {
	return &FollowupRepository{DB: db}
}

// LeadIDsWithStatus devolve os leads do cliente que possuem ao menos um
// follow-up no status informado.
func (r *FollowupRepository) LeadIDsWithStatus(ctx context.Context, clientID string, status entity.FollowupStatus) ([]string, error) {
	query := `
		SELECT DISTINCT f.lead_id
		FROM followups f
		JOIN leads l ON l.id = f.lead_id
		WHERE l.client_id = $1 AND f.status = $2
	`
	rows, err := r.DB.QueryContext(ctx, query, clientID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *FollowupRepository) ListByClient(ctx context.Context, clientID string) ([]entity.Followup, error) {
	query := `
		SELECT f.id, f.lead_id, l.name, f.message, f.scheduled_at, f.status, f.created_at
		FROM followups f
		JOIN leads l ON l.id = f.lead_id
		WHERE l.client_id = $1
		ORDER BY f.scheduled_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	followups := []entity.Followup{}
	for rows.Next() {
		var f entity.Followup
		if err := rows.Scan(&f.ID, &f.LeadID, &f.LeadName, &f.Message, &f.ScheduledAt, &f.Status, &f.CreatedAt); err != nil {
			return nil, err
		}
		followups = append(followups, f)
	}
	return followups, rows.Err()
}

func (r *FollowupRepository) Create(ctx context.Context, f *entity.Followup) error {
	query := `
		INSERT INTO followups (id, lead_id, message, scheduled_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query, f.ID, f.LeadID, f.Message, f.ScheduledAt, string(f.Status), f.CreatedAt)
	return mapError(err)
}

// UpdateStatus só altera follow-ups que ainda estão em from.
func (r *FollowupRepository) UpdateStatus(ctx context.Context, id string, from, to entity.FollowupStatus) error {
	err := expectOne(r.DB.ExecContext(ctx,
		`UPDATE followups SET status = $3 WHERE id = $1 AND status = $2`, id, string(from), string(to)))
	if !errors.Is(err, entity.ErrNotFound) {
		return err
	}

	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM followups WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return entity.ErrStatusChanged
	}
	return entity.ErrNotFound
}
