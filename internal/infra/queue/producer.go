package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// FollowupPayload é a mensagem entregue ao disparador externo de WhatsApp.
type FollowupPayload struct {
	FollowupID  string    `json:"followup_id"`
	LeadID      string    `json:"lead_id"`
	ClientID    string    `json:"client_id"`
	LeadName    string    `json:"lead_name"`
	Phone       string    `json:"phone"`
	Message     string    `json:"message"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// FollowupStatusPayload é o retorno do disparador.
type FollowupStatusPayload struct {
	FollowupID string `json:"followup_id"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// publisher é o subconjunto de *amqp.Channel usado pelo producer.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch publisher
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishFollowup(ctx context.Context, payload FollowupPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		FollowupRoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    payload.FollowupID,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
