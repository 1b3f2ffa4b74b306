package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xavierca1/conecta-lead/internal/entity"
	"github.com/xavierca1/conecta-lead/internal/infra/integration/workflow"
)

const DefaultPollInterval = 5 * time.Second

type WhatsAppService struct {
	Gateway      WhatsAppGateway
	PollInterval time.Duration
}

func NewWhatsAppService(gateway WhatsAppGateway, pollInterval time.Duration) *WhatsAppService {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &WhatsAppService{Gateway: gateway, PollInterval: pollInterval}
}

// SessionID é o nome da sessão do cliente no motor de workflows.
func SessionID(client *entity.Client) string {
	return "conectalead-" + client.ID
}

func (uc *WhatsAppService) QRCode(ctx context.Context, store *Store) (*workflow.QRCode, error) {
	client := store.Client()
	if client == nil {
		return nil, entity.ErrNoTenant
	}
	qr, err := uc.Gateway.QRCode(ctx, SessionID(client))
	if err != nil {
		return nil, remoteError("INTEGRATION_ERROR", "erro ao gerar QR code", err)
	}
	return qr, nil
}

func (uc *WhatsAppService) Status(ctx context.Context, store *Store) (workflow.SessionStatus, error) {
	client := store.Client()
	if client == nil {
		return "", entity.ErrNoTenant
	}
	status, err := uc.Gateway.Status(ctx, SessionID(client))
	if err != nil {
		return "", remoteError("INTEGRATION_ERROR", "erro ao consultar status", err)
	}
	return status, nil
}

// Poll consulta o status periodicamente até o contexto ser cancelado ou a
// sessão conectar. Erros de consulta são logados e a espera continua.
func (uc *WhatsAppService) Poll(ctx context.Context, client *entity.Client, onStatus func(workflow.SessionStatus)) {
	session := SessionID(client)
	ticker := time.NewTicker(uc.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("session", session).Msg("polling do WhatsApp encerrado")
			return
		case <-ticker.C:
			status, err := uc.Gateway.Status(ctx, session)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn().Err(err).Str("session", session).Msg("⚠️ falha ao consultar status do WhatsApp")
				continue
			}
			onStatus(status)
			if status == workflow.StatusConnected {
				log.Info().Str("session", session).Msg("✅ WhatsApp conectado")
				return
			}
		}
	}
}
