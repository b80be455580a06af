package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// ScrapeRunner é o contrato do pipeline de captação consumido pelo worker.
type ScrapeRunner interface {
	Execute(ctx context.Context, in usecase.ScrapeLeadsInput) (*usecase.ScrapeReport, error)
}

type Worker struct {
	Channel *amqp.Channel
	Scraper ScrapeRunner
	Mailer  usecase.ReportMailer // opcional, só notifica quando configurado
}

func NewWorker(ch *amqp.Channel, scraper ScrapeRunner, mailer usecase.ReportMailer) *Worker {
	return &Worker{
		Channel: ch,
		Scraper: scraper,
		Mailer:  mailer,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			log.Printf("📥 [WORKER] Job de captação recebido")

			var payload ScrapeJobPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("⚙️ [WORKER] Captando %q em %d zonas", payload.Query, len(payload.Zones))

			if err := w.processJob(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Erro na captação: %s", err)
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] Captação de %q concluída", payload.Query)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processJob(ctx context.Context, payload ScrapeJobPayload) error {
	report, err := w.Scraper.Execute(ctx, usecase.ScrapeLeadsInput{
		Query:     payload.Query,
		Industry:  payload.Industry,
		Zones:     payload.Zones,
		MaxPlaces: payload.MaxPlaces,
		Export:    payload.Export,
	})
	if err != nil {
		return err
	}

	if w.Mailer != nil && payload.NotifyEmail != "" {
		body := reportBody(payload, report)
		if mailErr := w.Mailer.Send(payload.NotifyEmail, "Captação concluída: "+payload.Query, body); mailErr != nil {
			// Notificação é cortesia, não motivo para reprocessar o job.
			log.Printf("⚠️ [WORKER] Falha enviando relatório por e-mail: %s", mailErr)
		}
	}
	return nil
}

func reportBody(payload ScrapeJobPayload, report *usecase.ScrapeReport) string {
	b, err := json.MarshalIndent(map[string]any{
		"query":  payload.Query,
		"zones":  payload.Zones,
		"report": report,
	}, "", "  ")
	if err != nil {
		return "captação concluída"
	}
	return string(b)
}
