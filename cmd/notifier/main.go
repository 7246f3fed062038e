package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gameswap/gameswap/internal/config"
	"github.com/gameswap/gameswap/internal/logging"
	"github.com/gameswap/gameswap/internal/notifier"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	if len(cfg.KafkaBrokers) == 0 {
		logger.Error("KAFKA_BROKERS is required for the notifier")
		os.Exit(1)
	}

	var mailer notifier.Mailer
	if cfg.SMTP.Host != "" {
		m, err := notifier.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			logger.Error("build smtp mailer", "error", err)
			os.Exit(1)
		}
		mailer = m
	} else {
		logger.Warn("no SMTP host configured, mail will only be logged")
		mailer = notifier.NewLogMailer(logger)
	}

	consumer := notifier.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, mailer, logger)
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Warn("close consumer", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("notifier started", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)

	if err := consumer.Run(ctx); err != nil {
		logger.Error("consumer stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("notifier exited cleanly")
}
