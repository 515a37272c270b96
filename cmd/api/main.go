package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/seatsync/ticketd/internal/adapter/handler"
	"github.com/seatsync/ticketd/internal/adapter/lock/redislock"
	"github.com/seatsync/ticketd/internal/adapter/notify/mail"
	"github.com/seatsync/ticketd/internal/adapter/notify/pdf"
	"github.com/seatsync/ticketd/internal/adapter/queue/memqueue"
	"github.com/seatsync/ticketd/internal/adapter/queue/rabbitmq"
	"github.com/seatsync/ticketd/internal/adapter/repository/postgres"
	"github.com/seatsync/ticketd/internal/core/ports"
	"github.com/seatsync/ticketd/internal/core/services"
	"github.com/seatsync/ticketd/internal/platform/config"
	"github.com/seatsync/ticketd/internal/platform/database"
	"github.com/seatsync/ticketd/internal/worker"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.PostgresDSN(), logger)
	if err != nil {
		logger.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Error("connect redis", "addr", cfg.RedisAddr(), "error", err)
		os.Exit(1)
	}
	logger.Info("redis connected", "addr", cfg.RedisAddr())

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	// With a broker configured the worker binary consumes jobs; without
	// one, jobs flow through an in-memory queue drained in-process.
	var queue ports.JobQueue
	if cfg.RabbitURL != "" {
		mq, err := rabbitmq.NewQueue(cfg.RabbitURL, cfg.Exchange)
		if err != nil {
			logger.Error("connect rabbitmq", "error", err)
			os.Exit(1)
		}
		defer mq.Close()
		queue = mq
		logger.Info("rabbitmq connected", "exchange", cfg.Exchange)
	} else {
		memq := memqueue.New(256)
		queue = memq

		notifier := worker.NewNotifier(
			pdf.NewRenderer(cfg.TicketPDFDir),
			mail.NewSender(mail.Config{
				Host:     cfg.MailHost,
				Port:     cfg.MailPort,
				Username: cfg.MailUsername,
				Password: cfg.MailPassword,
				FromName: cfg.MailFromName,
			}),
			cfg.AdminEmail,
			logger,
		)
		go notifier.RunJobs(workerCtx, memq.Jobs())
		logger.Info("running with in-process notification worker")
	}

	eventRepo := postgres.NewEventRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	eventLock := redislock.New(redisClient)

	bookingSvc := services.NewBookingService(eventRepo, ticketRepo, eventLock, queue, logger, cfg.LockTTL)
	eventSvc := services.NewEventService(eventRepo)

	eventHandler := handler.NewEventHandler(eventSvc)
	ticketHandler := handler.NewTicketHandler(bookingSvc)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/events", func(r chi.Router) {
		r.Post("/", eventHandler.Create)
		r.Get("/", eventHandler.List)
		r.Delete("/{id}", eventHandler.Delete)
		r.Post("/{id}/tickets", ticketHandler.Book)
	})
	r.Delete("/tickets/{id}", ticketHandler.Cancel)
	r.Get("/my-tickets", ticketHandler.MyTickets)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server startup failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server exiting")
}
