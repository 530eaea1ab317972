package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/leadline-hq/crm-api/internal/infra/activity"
	"github.com/leadline-hq/crm-api/internal/infra/database"
	"github.com/leadline-hq/crm-api/internal/infra/http/handlers"
	"github.com/leadline-hq/crm-api/internal/infra/http/middleware"
	"github.com/leadline-hq/crm-api/internal/infra/mail"
	"github.com/leadline-hq/crm-api/internal/infra/queue"
	"github.com/leadline-hq/crm-api/internal/usecase"
)

func main() {
	godotenv.Load()

	log := logrus.New()

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.NewConnection(connString)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.WithError(err).Fatal("schema migration failed")
	}

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	clientRepo := database.NewClientRepository(db)
	activityRepo := database.NewActivityRepository(db)

	// 2. Queue + notification worker (both optional)
	var publisher activity.Publisher
	var rabbitConn *amqp.Connection
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		rabbitMQ, err := queue.NewRabbitMQ(url)
		if err != nil {
			log.WithError(err).Warn("rabbitmq unavailable, activity events will not be published")
		} else {
			defer rabbitMQ.Close()
			rabbitConn = rabbitMQ.Conn
			publisher = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

			if to := os.Getenv("NOTIFY_EMAIL"); to != "" && os.Getenv("SMTP_HOST") != "" {
				smtpPort, _ := strconv.Atoi(envDefault("SMTP_PORT", "587"))
				sender := mail.NewEmailSender(
					os.Getenv("SMTP_HOST"), smtpPort,
					os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS"),
				)
				worker := queue.NewWorker(rabbitMQ.Ch, sender, to, log)
				if err := worker.Start(queue.QueueName); err != nil {
					log.WithError(err).Warn("notification worker failed to start")
				}
			}
		}
	}

	// 3. Activity recorder (fire-and-forget)
	recorder := activity.NewRecorder(activityRepo, publisher, log)
	defer recorder.Close()

	// 4. Usecases
	lifecycle := usecase.NewLeadLifecycle(leadRepo, clientRepo, recorder)
	stats := usecase.NewStatsReader(leadRepo, clientRepo)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(lifecycle, leadRepo)
	clientHandler := handlers.NewClientHandler(clientRepo)
	activityHandler := handlers.NewActivityHandler(activityRepo)
	statsHandler := handlers.NewStatsHandler(stats)
	healthHandler := handlers.NewHealthHandler(db, rabbitConn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins(),
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/", healthHandler.Root)
	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/leads", leadHandler.Create)
		r.Get("/leads", leadHandler.List)
		r.Patch("/leads/{id}/status", leadHandler.UpdateStatus)
		r.Delete("/leads/{id}", leadHandler.Delete)
		r.Post("/leads/{id}/convert", leadHandler.Convert)
		r.Get("/clients", clientHandler.List)
		r.Get("/stats", statsHandler.Get)
		r.Get("/activity", activityHandler.List)
	})

	port := envDefault("PORT", "8080")
	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		log.WithField("port", port).Info("CRM API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown incomplete")
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func corsOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"*"}
	}

	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}
