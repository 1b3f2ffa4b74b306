package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xavierca1/conecta-lead/internal/infra/database"
)

type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) ([]database.OverduePayment, error)
}

// PaymentOverdueWorker move cobranças pendentes vencidas para "late".
type PaymentOverdueWorker struct {
	payments     OverdueMarker
	tickInterval time.Duration
	now          func() time.Time
	onOverdue    func(n int)
}

func NewPaymentOverdueWorker(payments OverdueMarker, onOverdue func(n int)) *PaymentOverdueWorker {
	return &PaymentOverdueWorker{
		payments:     payments,
		tickInterval: 1 * time.Minute,
		now:          time.Now,
		onOverdue:    onOverdue,
	}
}

func (w *PaymentOverdueWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.tickInterval).Msg("🕒 Payment Overdue Worker iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.markOverdue(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("⚠️ Payment Overdue Worker encerrado")
			return
		case <-ticker.C:
			w.markOverdue(ctx)
		}
	}
}

func (w *PaymentOverdueWorker) markOverdue(ctx context.Context) int {
	overdue, err := w.payments.MarkOverdue(ctx, w.now())
	if err != nil {
		log.Error().Err(err).Msg("❌ Erro ao marcar cobranças atrasadas")
		return 0
	}

	for _, p := range overdue {
		log.Info().
			Str("payment_id", p.ID).
			Str("client_id", p.ClientID).
			Time("due_date", p.DueDate).
			Msg("⏱️ cobrança atrasada")
	}

	if len(overdue) > 0 {
		log.Info().Int("count", len(overdue)).Msg("✅ cobranças marcadas como late")
		if w.onOverdue != nil {
			w.onOverdue(len(overdue))
		}
	}
	return len(overdue)
}
