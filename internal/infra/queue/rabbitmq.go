package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.conectalead"
	DLXName      = "ex.dlx" // Dead Letter Exchange

	FollowupQueue      = "q.followups"
	FollowupDLQ        = "q.followups.dlq"
	FollowupRoutingKey = "k.followup.scheduled"

	StatusQueue      = "q.followups.status"
	StatusDLQ        = "q.followups.status.dlq"
	StatusRoutingKey = "k.followup.status"
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("falha ao abrir canal: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

func (r *RabbitMQ) Close() {
	if r.Ch != nil {
		r.Ch.Close()
	}
	if r.Conn != nil {
		r.Conn.Close()
	}
}

func setupTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return err
	}

	bindings := []struct{ queue, dlq, key string }{
		{FollowupQueue, FollowupDLQ, FollowupRoutingKey},
		{StatusQueue, StatusDLQ, StatusRoutingKey},
	}
	for _, b := range bindings {
		if err := declareWithDLQ(ch, b.queue, b.dlq, b.key); err != nil {
			return fmt.Errorf("topologia %s: %w", b.queue, err)
		}
	}
	return nil
}

// declareWithDLQ cria a fila principal apontando o Nack para a DLQ.
func declareWithDLQ(ch *amqp.Channel, queue, dlq, key string) error {
	if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(dlq, key, DLXName, false, nil); err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": key,
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, args); err != nil {
		return err
	}
	return ch.QueueBind(queue, key, ExchangeName, false, nil)
}
