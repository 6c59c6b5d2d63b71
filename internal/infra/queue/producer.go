package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AccessPayload é publicado exatamente uma vez por pagamento confirmado
// (o guarda é a transição do pagou no banco). O worker consome e faz a
// liberação do acesso: email de confirmação + registro.
type AccessPayload struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	ChargeID string `json:"cobranca_id"`
	Origin   string `json:"origin"` // PAYMENT_CONFIRMED, WEBHOOK_ASAAS
}

type QueueProducerInterface interface {
	PublishAccess(ctx context.Context, payload AccessPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishAccess(ctx context.Context, payload AccessPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
