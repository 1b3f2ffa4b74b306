package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/xavierca1/conecta-lead/internal/entity"
)

// CaptureLeadUseCase recebe leads postados por automações externas no
// webhook do cliente.
type CaptureLeadUseCase struct {
	Clients ClientRepository
	Columns ColumnRepository
	Leads   LeadRepository
}

func NewCaptureLeadUseCase(clients ClientRepository, columns ColumnRepository, leads LeadRepository) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{Clients: clients, Columns: columns, Leads: leads}
}

type CaptureLeadInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Interest string `json:"interest"`
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, webhookToken string, input CaptureLeadInput) (*entity.Lead, error) {
	client, err := uc.Clients.FindByWebhookToken(ctx, webhookToken)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, &DomainError{Code: "UNKNOWN_WEBHOOK", Message: "webhook desconhecido"}
		}
		return nil, remoteError("DATABASE_ERROR", "erro ao buscar cliente", err)
	}
	if client.Status.Restricted() {
		return nil, &DomainError{Code: "CLIENT_RESTRICTED", Message: "conta do cliente sem acesso"}
	}

	columns, err := uc.Columns.ListByClient(ctx, client.ID)
	if err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao buscar colunas", err)
	}
	if len(columns) == 0 {
		return nil, &DomainError{Code: "NO_COLUMNS", Message: "cliente não possui colunas"}
	}

	input.Interest = truncate(input.Interest, 500)
	errs := ValidateLeadInput(LeadInput{ColumnID: columns[0].ID, Name: input.Name, Phone: input.Phone})
	if err := validationFailed(errs); err != nil {
		return nil, err
	}

	lead, err := entity.NewLead(client.ID, columns[0].ID, input.Name, input.Phone, input.Interest, "")
	if err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}
	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao salvar lead", err)
	}

	log.Info().Str("client_id", client.ID).Str("lead_id", lead.ID).Msg("📥 lead recebido via webhook")
	return lead, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
