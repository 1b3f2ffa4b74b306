package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// StatusApplier grava o retorno do disparador no follow-up.
type StatusApplier interface {
	ApplySenderStatus(ctx context.Context, followupID, status string) error
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel consumer
	Applier StatusApplier
}

func NewWorker(ch *amqp.Channel, applier StatusApplier) *Worker {
	return &Worker{Channel: ch, Applier: applier}
}

// Start consome a fila de status até o contexto ser cancelado ou o canal
// fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Info().Str("queue", queueName).Msg(" [*] Worker rodando e aguardando na fila")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("⚠️ Worker de status encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal do RabbitMQ fechado")
			}
			w.process(ctx, d.Body, d)
		}
	}
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (w *Worker) process(ctx context.Context, body []byte, ack acknowledger) {
	var payload FollowupStatusPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error().Err(err).Msg("❌ [WORKER] JSON inválido")
		// mensagem malformada vai para a DLQ sem requeue
		ack.Nack(false, false)
		return
	}

	if err := w.Applier.ApplySenderStatus(ctx, payload.FollowupID, payload.Status); err != nil {
		log.Error().Err(err).Str("followup_id", payload.FollowupID).Msg("❌ [WORKER] erro ao aplicar status")
		ack.Nack(false, false)
		return
	}

	if payload.Error != "" {
		log.Warn().Str("followup_id", payload.FollowupID).Str("error", payload.Error).Msg("⚠️ [WORKER] disparo falhou")
	} else {
		log.Info().Str("followup_id", payload.FollowupID).Str("status", payload.Status).Msg("✅ [WORKER] status atualizado")
	}
	ack.Ack(false)
}
