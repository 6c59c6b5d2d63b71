package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PurchaseMailer manda o email de compra confirmada.
type PurchaseMailer interface {
	SendPurchaseConfirmation(to, name string) error
}

// Worker consome a fila de acessos e executa a liberação fora do
// caminho quente da confirmação: o pagamento já está garantido no
// banco quando a mensagem chega aqui.
type Worker struct {
	Channel *amqp.Channel
	Mailer  PurchaseMailer
}

func NewWorker(ch *amqp.Channel, mailer PurchaseMailer) *Worker {
	return &Worker{
		Channel: ch,
		Mailer:  mailer,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload AccessPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON Inválido: %s", err)
				// Mensagem malformada: rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("⚙️ [WORKER] Liberando acesso para: %s (origem: %s)", payload.Email, payload.Origin)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Erro na liberação: %s", err)
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] Acesso liberado para %s.", payload.Email)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(_ context.Context, payload AccessPayload) error {
	if w.Mailer == nil {
		log.Printf("⚠️ [WORKER] Mailer não configurado, pulando email de %s", payload.Email)
		return nil
	}
	return w.Mailer.SendPurchaseConfirmation(payload.Email, payload.Name)
}
