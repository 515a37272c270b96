// Package config loads all runtime settings from the environment into one
// explicitly constructed value passed down at startup. No process-wide
// mutable state.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:""`
	DBName     string `envconfig:"DB_NAME" default:"ticketd"`

	RedisHost string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort string `envconfig:"REDIS_PORT" default:"6379"`

	LockTTL time.Duration `envconfig:"LOCK_TTL" default:"10s"`

	// RabbitURL empty means single-process mode: notifications run on an
	// in-memory queue consumed inside the API process.
	RabbitURL      string `envconfig:"RABBIT_URL" default:""`
	Exchange       string `envconfig:"MQ_EXCHANGE" default:"ticketd.exchange"`
	NotifyQueue    string `envconfig:"NOTIFY_QUEUE" default:"ticketd.notifications"`
	WorkerPrefetch int    `envconfig:"WORKER_PREFETCH" default:"8"`

	MailHost     string `envconfig:"MAIL_SERVER" default:"localhost"`
	MailPort     int    `envconfig:"MAIL_PORT" default:"587"`
	MailUsername string `envconfig:"MAIL_USERNAME" default:""`
	MailPassword string `envconfig:"MAIL_PASSWORD" default:""`
	MailFromName string `envconfig:"MAIL_FROM_NAME" default:"Ticket Booking App"`
	AdminEmail   string `envconfig:"ADMIN_EMAIL" default:""`

	TicketPDFDir string `envconfig:"TICKET_PDF_DIR" default:"tickets"`
}

func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
