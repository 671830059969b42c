package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warungpati/storefront/internal/archive"
	"github.com/warungpati/storefront/internal/config"
	"github.com/warungpati/storefront/internal/events"
	"github.com/warungpati/storefront/internal/kafkax"
	"github.com/warungpati/storefront/internal/logx"
	"github.com/warungpati/storefront/internal/postgres"
	"github.com/warungpati/storefront/internal/redisx"
	"github.com/warungpati/storefront/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logx.Init(cfg.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logx.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	// Redis untuk dedup event
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &archive.Service{
		Repo:        &archive.Repo{DB: db},
		Dedup:       store.NewRedisKV(rdb),
		ServiceName: cfg.ServiceName + "-fulfillment",
	}

	group := getenv("FULFILLMENT_GROUP", "fulfillment-svc")
	workers := mustAtoi(os.Getenv("FULFILLMENT_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, events.TopicOrderCheckout, workers)

	go func() {
		logx.Info().
			Str("group", group).
			Str("topic", events.TopicOrderCheckout).
			Int("workers", workers).
			Msg("fulfillment consumer started")
		if err := cons.Start(ctx, svc.HandleCheckoutSubmitted); err != nil {
			logx.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logx.Info().Msg("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
