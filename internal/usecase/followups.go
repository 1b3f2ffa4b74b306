package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/infra/queue"
)

type FollowupService struct {
	Repo      FollowupRepository
	Publisher FollowupPublisher
	Now       func() time.Time
}

func NewFollowupService(repo FollowupRepository, publisher FollowupPublisher) *FollowupService {
	return &FollowupService{Repo: repo, Publisher: publisher, Now: time.Now}
}

type ScheduleFollowupInput struct {
	LeadID      string    `json:"lead_id"`
	Message     string    `json:"message"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (uc *FollowupService) List(ctx context.Context, store *Store) ([]entity.Followup, error) {
	tenantID, err := store.tenantID("")
	if err != nil {
		return nil, err
	}
	if tenantID == "" {
		return []entity.Followup{}, nil
	}

	followups, err := uc.Repo.ListByClient(ctx, tenantID)
	if err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao buscar follow-ups", err)
	}
	return followups, nil
}

// Schedule grava o follow-up e entrega a mensagem para o disparador
// externo. Falha na fila não desfaz o agendamento.
func (uc *FollowupService) Schedule(ctx context.Context, store *Store, input ScheduleFollowupInput) (*entity.Followup, error) {
	lead, ok := store.Lead(input.LeadID)
	if !ok {
		return nil, entity.ErrNotFound
	}

	followup, err := entity.NewFollowup(lead.ID, input.Message, input.ScheduledAt, uc.Now())
	if err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}
	followup.LeadName = lead.Name

	if err := uc.Repo.Create(ctx, followup); err != nil {
		return nil, remoteError("DATABASE_ERROR", "erro ao agendar follow-up", err)
	}
	store.markFollowup(lead.ID, true)

	if uc.Publisher != nil {
		payload := queue.FollowupPayload{
			FollowupID:  followup.ID,
			LeadID:      lead.ID,
			ClientID:    lead.ClientID,
			LeadName:    lead.Name,
			Phone:       NormalizePhone(lead.Phone),
			Message:     followup.Message,
			ScheduledAt: followup.ScheduledAt,
		}
		if err := uc.Publisher.PublishFollowup(ctx, payload); err != nil {
			log.Error().Err(err).Str("followup_id", followup.ID).Msg("⚠️ CRITICAL: follow-up salvo, mas falha na fila")
		}
	}

	return followup, nil
}

func (uc *FollowupService) Cancel(ctx context.Context, store *Store, followupID string) error {
	followups, err := uc.List(ctx, store)
	if err != nil {
		return err
	}

	var target *entity.Followup
	for i := range followups {
		if followups[i].ID == followupID {
			target = &followups[i]
			break
		}
	}
	if target == nil {
		return entity.ErrNotFound
	}
	if target.Status != entity.FollowupScheduled {
		return &DomainError{Code: "INVALID_STATUS", Message: "apenas follow-ups agendados podem ser cancelados"}
	}

	err = uc.Repo.UpdateStatus(ctx, followupID, entity.FollowupScheduled, entity.FollowupCancelled)
	if errors.Is(err, entity.ErrStatusChanged) {
		return &DomainError{Code: "INVALID_STATUS", Message: "o follow-up já foi processado pelo disparador"}
	}
	if err != nil {
		return remoteError("DATABASE_ERROR", "erro ao cancelar follow-up", err)
	}

	stillScheduled := false
	for _, f := range followups {
		if f.LeadID == target.LeadID && f.ID != followupID && f.Status == entity.FollowupScheduled {
			stillScheduled = true
		}
	}
	store.markFollowup(target.LeadID, stillScheduled)
	return nil
}

// ApplySenderStatus registra o retorno do disparador externo. Só follow-ups
// ainda agendados mudam; um retorno atrasado de um cancelado é ignorado.
func (uc *FollowupService) ApplySenderStatus(ctx context.Context, followupID, status string) error {
	st, err := entity.ParseFollowupStatus(status)
	if err != nil {
		return err
	}
	if st != entity.FollowupSent && st != entity.FollowupFailed {
		return &DomainError{Code: "INVALID_STATUS", Message: "status do disparador deve ser sent ou failed"}
	}

	err = uc.Repo.UpdateStatus(ctx, followupID, entity.FollowupScheduled, st)
	if errors.Is(err, entity.ErrStatusChanged) {
		log.Warn().Str("followup_id", followupID).Str("status", string(st)).Msg("⚠️ retorno do disparador ignorado, follow-up não está mais agendado")
		return nil
	}
	return err
}
