package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-leads/internal/infra/airtable"
	"github.com/xavierca1/ligue-leads/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/apify"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/apollo"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/instantly"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/millionverifier"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func main() {
	godotenv.Load()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "user"),
		envOr("RABBITMQ_PASS", "password"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Datastore
	store := airtable.NewLeadTable(
		airtable.NewClient(os.Getenv("AIRTABLE_API_KEY"), os.Getenv("AIRTABLE_BASE_ID"), ""),
		envOr("AIRTABLE_LEADS_TABLE", "Leads"),
	)

	// 2. Integrações
	instantlyClient := instantly.NewClient(os.Getenv("INSTANTLY_API_KEY"), "")
	if tz := os.Getenv("INSTANTLY_TIMEZONE"); tz != "" {
		instantlyClient.SetScheduleTimezone(tz)
	}
	apifyClient := apify.NewClient(os.Getenv("APIFY_TOKEN"), "")
	apolloClient := apollo.NewClient(os.Getenv("APOLLO_API_KEY"), "")
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), mailPort(), os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		os.Getenv("MAIL_FROM"),
	)
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	// 3. UseCases
	directory := usecase.NewCampaignDirectory(instantlyClient)
	syncUC := &usecase.SyncPendingLeadsUseCase{
		API:       instantlyClient,
		Store:     store,
		Directory: directory,
	}
	// Gate de verificação só entra com a credencial configurada.
	if os.Getenv("MILLIONVERIFIER_API_KEY") != "" {
		verifierClient := millionverifier.NewClient(os.Getenv("MILLIONVERIFIER_API_KEY"), "")
		syncUC.Verifier = &usecase.LeadVerifier{API: verifierClient}
	}
	scrapeUC := &usecase.ScrapeLeadsUseCase{
		Scraper:   apifyClient,
		Enricher:  apolloClient,
		Store:     store,
		API:       instantlyClient,
		Directory: directory,
	}

	// 4. Worker (consome a fila de captação)
	worker := queue.NewWorker(rabbitMQ.Ch, scrapeUC, mailSender)
	go worker.Start(queue.QueueName)

	// 5. Handlers
	syncHandler := handlers.NewSyncHandler(store, syncUC, mailSender, os.Getenv("REPORT_EMAIL"))
	scrapeHandler := handlers.NewScrapeHandler(producer)
	leadHandler := handlers.NewLeadHandler(store)
	creditsHandler := handlers.NewCreditsHandler(apifyClient, instantlyClient)
	healthHandler := handlers.NewHealthHandler(rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/sync", syncHandler.Handle)
	r.Post("/scrape", scrapeHandler.Handle)
	r.Get("/leads/pending", leadHandler.HandlePending)
	r.Get("/credits", creditsHandler.Handle)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":8080"
	log.Printf("🔥 Server LigueLeads rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mailPort() int {
	if p, err := strconv.Atoi(os.Getenv("MAIL_PORT")); err == nil && p > 0 {
		return p
	}
	return 587
}
