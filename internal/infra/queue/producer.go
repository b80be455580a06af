package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ScrapeJobPayload é o job de captação publicado na fila. Um run de scrape
// demora minutos, então ele roda fora do ciclo request/response.
type ScrapeJobPayload struct {
	Query     string   `json:"query"`
	Industry  string   `json:"industry"`
	Zones     []string `json:"zones"`
	MaxPlaces int      `json:"max_places"`
	Export    bool     `json:"export"`

	// NotifyEmail recebe o relatório quando o job termina.
	NotifyEmail string `json:"notify_email,omitempty"`
}

type QueueProducerInterface interface {
	PublishScrapeJob(ctx context.Context, payload ScrapeJobPayload) error
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

func (p *RabbitMQProducer) PublishScrapeJob(ctx context.Context, payload ScrapeJobPayload) error {
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
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
