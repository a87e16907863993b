// Command api runs the mudancer backend: webhook intake, admin workflow,
// provider bidding, and the customer self-service endpoints.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mudancer_backend/internal/auth"
	"mudancer_backend/internal/customer"
	"mudancer_backend/internal/events"
	apphttp "mudancer_backend/internal/http"
	"mudancer_backend/internal/http/router"
	"mudancer_backend/internal/leads"
	"mudancer_backend/internal/providers"
	"mudancer_backend/internal/quotes"
	"mudancer_backend/internal/webhook"
	"mudancer_backend/platform/config"
	"mudancer_backend/platform/db"
	platformevents "mudancer_backend/platform/events"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Env)
	log.Info("starting", "env", cfg.Env, "addr", cfg.HTTPAddr)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := connectWithRetry(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations applied")

	bus := platformevents.NewInMemoryBus(log)
	subscribeDomainEvents(bus, log)

	v := validator.New()

	leadsModule := leads.NewModule(pool, v, cfg, bus, log)
	quotesModule := quotes.NewModule(pool, leadsModule.Repository(), v, cfg, bus, log)
	providersModule := providers.NewModule(pool, v, log)
	authModule := auth.NewModule(pool, v, cfg, log)
	customerModule := customer.NewModule(leadsModule.Repository(), quotesModule.Repository(), quotesModule.Service(), v, log)
	webhookModule := webhook.NewModule(leadsModule.Repository(), bus, log)

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: bus,
		Modules: []apphttp.Module{
			authModule,
			leadsModule,
			quotesModule,
			providersModule,
			customerModule,
			webhookModule,
		},
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("stopped")
	return nil
}

// connectWithRetry gives the database a short grace period, which covers the
// usual compose startup race.
func connectWithRetry(ctx context.Context, cfg *config.Config, log *logger.Logger) (*pgxpool.Pool, error) {
	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err := db.NewPool(ctx, cfg)
		if err == nil {
			return pool, nil
		}
		lastErr = err
		log.Warn("database not ready", "attempt", attempt, "error", err.Error())
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return nil, lastErr
}

// subscribeDomainEvents attaches the logging handlers. Notification fan-out
// would hang off the same subscriptions.
func subscribeDomainEvents(bus *platformevents.InMemoryBus, log *logger.Logger) {
	bus.Subscribe(events.LeadReceived{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		if ev, ok := e.(events.LeadReceived); ok {
			log.Info("lead received", "lead_id", ev.LeadID, "public_id", ev.PublicID)
		}
		return nil
	}))
	bus.Subscribe(events.LeadPublished{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		if ev, ok := e.(events.LeadPublished); ok {
			log.Info("lead published", "lead_id", ev.LeadID, "public_url", ev.PublicURL)
		}
		return nil
	}))
	bus.Subscribe(events.QuoteSubmitted{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		if ev, ok := e.(events.QuoteSubmitted); ok {
			log.Info("quote submitted", "quote_id", ev.QuoteID, "lead_id", ev.LeadID, "provider_id", ev.ProviderID)
		}
		return nil
	}))
	bus.Subscribe(events.QuoteAssigned{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		if ev, ok := e.(events.QuoteAssigned); ok {
			log.Info("quote assigned", "quote_id", ev.QuoteID, "lead_id", ev.LeadID, "assigned_by", ev.AssignedBy)
		}
		return nil
	}))
	bus.Subscribe(events.OrderConcluded{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		if ev, ok := e.(events.OrderConcluded); ok {
			log.Info("order concluded by provider", "quote_id", ev.QuoteID, "lead_id", ev.LeadID, "provider_id", ev.ProviderID)
		}
		return nil
	}))
}
