package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warungpati/storefront/internal/cart"
	"github.com/warungpati/storefront/internal/catalog"
	"github.com/warungpati/storefront/internal/config"
	"github.com/warungpati/storefront/internal/events"
	"github.com/warungpati/storefront/internal/httpx"
	"github.com/warungpati/storefront/internal/kafkax"
	"github.com/warungpati/storefront/internal/logx"
	"github.com/warungpati/storefront/internal/notify"
	"github.com/warungpati/storefront/internal/redisx"
	"github.com/warungpati/storefront/internal/store"
	"github.com/warungpati/storefront/internal/webhook"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logx.Init(cfg.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis backs the session records and the catalog snapshot
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	kv := store.NewRedisKV(rdb)
	st := store.New(kv)

	// Toast center owns every notification timer; Close reaps them all
	toasts := notify.NewCenter()

	// Kafka producer for checkout events
	prod := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderCheckout, 1024)
	prod.Start(ctx)

	wh := webhook.NewClient()
	loader := catalog.NewLoader(cfg.FeedURL, kv)

	rec := &cart.Reconciler{
		Store:           st,
		Toasts:          toasts,
		Webhook:         wh,
		OrderWebhookURL: cfg.OrderWebhookURL,
		Producer:        prod,
		Service:         cfg.ServiceName,
	}

	router := httpx.NewRouter()
	h := &httpx.StorefrontHandler{
		Catalog:           loader,
		Cart:              rec,
		Store:             st,
		Toasts:            toasts,
		Webhook:           wh,
		ContactWebhookURL: cfg.ContactWebhookURL,
	}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logx.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logx.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	toasts.Close()    // cancel semua timer toast
	prod.Close()      // tutup inbox -> flush & close writer
	prod.WaitClosed() // drain
}
