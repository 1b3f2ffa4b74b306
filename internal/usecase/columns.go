package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xavierca1/conecta-lead/internal/entity"
)

// CreateColumn adiciona uma coluna ao fim do quadro carregado.
func (s *Store) CreateColumn(ctx context.Context, name string, color entity.ColumnColor) (*entity.Column, error) {
	tenantID, err := s.tenantID("")
	if err != nil {
		return nil, err
	}

	col, err := entity.NewColumn(tenantID, name, s.nextColumnOrder(), color)
	if err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}
	if err := s.gw.Columns.Create(ctx, col); err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao criar coluna", err)
	}

	s.columns = append(s.columns, *col)
	s.partition()
	return col, nil
}

// nextColumnOrder é a maior ordem carregada + 1. Exclusões deixam buracos
// na sequência, então a quantidade de colunas não serve.
func (s *Store) nextColumnOrder() int {
	next := 0
	for _, c := range s.columns {
		if c.Order >= next {
			next = c.Order + 1
		}
	}
	return next
}

func (s *Store) RenameColumn(ctx context.Context, columnID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &DomainError{Code: "VALIDATION_ERROR", Message: "nome da coluna é obrigatório"}
	}
	idx := -1
	for i := range s.columns {
		if s.columns[i].ID == columnID {
			idx = i
		}
	}
	if idx < 0 {
		return entity.ErrNotFound
	}

	if err := s.gw.Columns.Rename(ctx, columnID, name); err != nil {
		return remoteError("DATABASE_ERROR", "erro ao renomear coluna", err)
	}
	s.columns[idx].Name = name
	return nil
}

// DeleteColumn remove a coluna e os leads que estavam nela.
func (s *Store) DeleteColumn(ctx context.Context, columnID string) error {
	if !s.hasColumn(columnID) {
		return entity.ErrNotFound
	}
	if err := s.gw.Columns.Delete(ctx, columnID); err != nil {
		return remoteError("DATABASE_ERROR", "erro ao excluir coluna", err)
	}

	cols := s.columns[:0]
	for _, c := range s.columns {
		if c.ID != columnID {
			cols = append(cols, c)
		}
	}
	s.columns = cols

	leads := s.leads[:0]
	removed := 0
	for _, l := range s.leads {
		if l.ColumnID == columnID {
			removed++
			continue
		}
		leads = append(leads, l)
	}
	s.leads = leads
	s.partition()

	log.Warn().Str("column_id", columnID).Int("leads_removed", removed).Msg("🗑️ coluna excluída")
	return nil
}

// CreateLabel cria uma etiqueta no catálogo do cliente.
func (s *Store) CreateLabel(ctx context.Context, name string, color entity.ColumnColor) (*entity.Label, error) {
	tenantID, err := s.tenantID("")
	if err != nil {
		return nil, err
	}
	label, err := entity.NewLabel(tenantID, name, color)
	if err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}
	if err := s.gw.Labels.Create(ctx, label); err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao criar etiqueta", err)
	}
	return label, nil
}

func (s *Store) Labels(ctx context.Context) ([]entity.Label, error) {
	tenantID, err := s.tenantID("")
	if err != nil {
		return nil, err
	}
	labels, err := s.gw.Labels.ListByClient(ctx, tenantID)
	if err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao buscar etiquetas", err)
	}
	return labels, nil
}
