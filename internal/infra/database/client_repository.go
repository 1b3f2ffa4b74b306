package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xavierca1/conecta-lead/internal/entity"
)

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

const clientColumns = `id, user_id, name, email, plan, billing_day, status, whatsapp,
	billing_message, automation_enabled, webhook_token, created_at, updated_at`

func (r *ClientRepository) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, user_id, name, email, plan, billing_day, status, whatsapp,
			billing_message, automation_enabled, webhook_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		nullString(c.UserID),
		c.Name,
		c.Email,
		string(c.Plan),
		c.BillingDay,
		string(c.Status),
		nullString(c.WhatsApp),
		nullString(c.BillingMessage),
		c.AutomationEnabled,
		c.WebhookToken,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		err = mapError(err)
		if err != entity.ErrEmailAlreadyExists {
			log.Error().Err(err).Msg("❌ erro crítico no banco ao criar cliente")
		}
		return err
	}
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *ClientRepository) FindByUserID(ctx context.Context, userID string) (*entity.Client, error) {
	return r.findOne(ctx, "user_id = $1", userID)
}

func (r *ClientRepository) FindByWebhookToken(ctx context.Context, token string) (*entity.Client, error) {
	return r.findOne(ctx, "webhook_token = $1", token)
}

func (r *ClientRepository) findOne(ctx context.Context, where string, arg any) (*entity.Client, error) {
	query := "SELECT " + clientColumns + " FROM clients WHERE " + where + " LIMIT 1"
	c, err := scanClient(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// List aplica os filtros da tela administrativa, ordenando por nome.
func (r *ClientRepository) List(ctx context.Context, filter entity.ClientFilter) ([]entity.Client, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}

	query := "SELECT " + clientColumns + " FROM clients"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []entity.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $2, plan = $3, billing_day = $4, status = $5, whatsapp = $6,
			billing_message = $7, automation_enabled = $8, updated_at = $9
		WHERE id = $1
	`
	return expectOne(r.DB.ExecContext(ctx, query,
		c.ID,
		c.Name,
		string(c.Plan),
		c.BillingDay,
		string(c.Status),
		nullString(c.WhatsApp),
		nullString(c.BillingMessage),
		c.AutomationEnabled,
		c.UpdatedAt,
	))
}

// Delete apaga o cliente e todos os dados dele numa única transação.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []string{
		`DELETE FROM lead_labels WHERE lead_id IN (SELECT id FROM leads WHERE client_id = $1)`,
		`DELETE FROM followups WHERE lead_id IN (SELECT id FROM leads WHERE client_id = $1)`,
		`DELETE FROM leads WHERE client_id = $1`,
		`DELETE FROM labels WHERE client_id = $1`,
		`DELETE FROM columns WHERE client_id = $1`,
		`DELETE FROM payments WHERE client_id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("cascade delete: %w", err)
		}
	}

	if err := expectOne(tx.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*entity.Client, error) {
	var (
		c                         entity.Client
		status                    string
		userID, whatsapp, message sql.NullString
	)
	err := row.Scan(
		&c.ID,
		&userID,
		&c.Name,
		&c.Email,
		&c.Plan,
		&c.BillingDay,
		&status,
		&whatsapp,
		&message,
		&c.AutomationEnabled,
		&c.WebhookToken,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// linhas antigas usam o vocabulário em português
	if st, err := entity.ParseClientStatus(status); err == nil {
		c.Status = st
	} else {
		c.Status = entity.ClientStatus(status)
	}
	c.UserID = fromNull(userID)
	c.WhatsApp = fromNull(whatsapp)
	c.BillingMessage = fromNull(message)
	return &c, nil
}
