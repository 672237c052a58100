package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "wildlens_tours/internal/adapters/http_server"
	"wildlens_tours/internal/adapters/notify"
	"wildlens_tours/internal/adapters/observability"
	"wildlens_tours/internal/adapters/razorpay"
	redisad "wildlens_tours/internal/adapters/redis"
	"wildlens_tours/internal/adapters/wildlens"
	"wildlens_tours/internal/app"
	"wildlens_tours/internal/catalog"
	"wildlens_tours/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// deps
	client, err := wildlens.New(cfg.WildLensBase, cfg.WildLensRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("wildlens client init failed")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	store := catalog.NewStore()
	loader := app.NewLoader(client, cache, store, cfg.CacheTTL, log.Logger)
	toaster := notify.New(log.Logger, cfg.ToastBufferSize)
	checkout := razorpay.New(cfg.RazorpayKey, log.Logger)
	reviews := app.NewReviewOrchestrator(client, store, toaster, log.Logger)
	booking := app.NewBookingWorkflow(client, checkout, toaster, log.Logger, cfg.OrderTimeout)

	if err := loader.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("initial catalog load failed")
	}
	log.Info().Int("tours", store.Len()).Msg("catalog ready")

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Store:    store,
		Reviews:  reviews,
		Booking:  booking,
		Checkout: checkout,
		API:      client,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.MetricsHandler(reg))
		msrv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listening")
		if err := msrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if cfg.CatalogRefresh <= 0 {
			return nil
		}
		t := time.NewTicker(cfg.CatalogRefresh)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-t.C:
				if err := loader.Refresh(gctx); err != nil {
					log.Warn().Err(err).Msg("catalog refresh failed")
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
