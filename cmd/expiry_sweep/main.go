package main

import (
	"context"
	"os"
	"time"

	"hotelstay/internal/config"
	"hotelstay/internal/database"
	"hotelstay/internal/events"
	"hotelstay/internal/modules/rates"
	"hotelstay/internal/modules/stay"
	"hotelstay/internal/pkg/clock"
	"hotelstay/internal/pkg/logger"
	"hotelstay/internal/repository"
)

// One-shot job for cron: expires ACTIVE stays past checkout plus the
// cleaning margin and publishes stay.expired when AMQP is configured.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(config.LogConfig{}, true).Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log, true)

	db, err := database.Connect(cfg.DB.URL)
	if err != nil {
		log.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close(db) }()

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQP.URL != "" {
		pub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Warn("amqp publisher disabled", "error", err)
		} else {
			defer func() { _ = pub.Close() }()
			publisher = pub
		}
	}

	table, err := rates.NewTable(cfg.Booking)
	if err != nil {
		log.Error("rate table", "error", err)
		os.Exit(1)
	}
	rules, err := stay.RulesFromConfig(cfg.Booking)
	if err != nil {
		log.Error("booking rules", "error", err)
		os.Exit(1)
	}

	svc := stay.NewService(
		repository.NewTxManager(db),
		repository.NewStayRepository(db),
		stay.NewFactory(table, rules),
		clock.NewRealClock(),
		cfg.Booking.CleaningMargin,
		publisher,
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := svc.SweepExpired(ctx)
	if err != nil {
		log.Error("expiry sweep failed", "error", err)
		os.Exit(1)
	}
	log.Info("expiry sweep completed", "expired", n)
}
