// Package leads wires the admin lead lifecycle module.
package leads

import (
	apphttp "mudancer_backend/internal/http"
	"mudancer_backend/internal/leads/handler"
	"mudancer_backend/internal/leads/repository"
	"mudancer_backend/internal/leads/service"
	"mudancer_backend/platform/config"
	"mudancer_backend/platform/events"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

func NewModule(pool *pgxpool.Pool, v *validator.Validator, cfg config.PublicURLConfig, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, v, cfg, bus, log)
	return &Module{
		handler:    handler.New(svc),
		service:    svc,
		repository: repo,
	}
}

func (m *Module) Name() string { return "leads" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.Register(ctx.Admin)
}

// Service exposes the lead service for modules that compose with it.
func (m *Module) Service() *service.Service { return m.service }

// Repository exposes the lead store for the webhook intake and quote engine.
func (m *Module) Repository() *repository.Repository { return m.repository }
