package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seatsync/ticketd/internal/adapter/notify/mail"
	"github.com/seatsync/ticketd/internal/adapter/notify/pdf"
	"github.com/seatsync/ticketd/internal/adapter/queue/rabbitmq"
	"github.com/seatsync/ticketd/internal/platform/config"
	"github.com/seatsync/ticketd/internal/worker"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if cfg.RabbitURL == "" {
		logger.Error("RABBIT_URL is required for the worker")
		os.Exit(1)
	}

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

	var consumer *rabbitmq.Consumer
	for {
		consumer, err = rabbitmq.NewConsumer(cfg.RabbitURL, cfg.Exchange, cfg.NotifyQueue, cfg.WorkerPrefetch)
		if err == nil {
			break
		}
		logger.Warn("rabbitmq connect failed, retrying in 2s", "error", err)
		time.Sleep(2 * time.Second)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deliveries, err := consumer.Deliveries(ctx)
	if err != nil {
		logger.Error("start consuming", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := notifier.Run(ctx, deliveries); err != nil {
			logger.Error("worker run", "error", err)
		}
	}()
	logger.Info("notification worker started", "queue", cfg.NotifyQueue, "exchange", cfg.Exchange)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
	logger.Info("notification worker stopped")
}
