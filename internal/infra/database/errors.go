package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/xavierca1/conecta-lead/internal/entity"
)

const uniqueViolation = "23505"

// emailConstraints são os nomes padrão do Postgres para os UNIQUE de e-mail.
var emailConstraints = map[string]bool{
	"users_email_key":   true,
	"clients_email_key": true,
}

// mapError traduz erros do driver para os erros de domínio.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if emailConstraints[pgErr.ConstraintName] {
			return entity.ErrEmailAlreadyExists
		}
		return fmt.Errorf("%w: %s", entity.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

// expectOne devolve ErrNotFound quando um UPDATE/DELETE não atinge linhas.
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNull(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}
