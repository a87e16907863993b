// Package quotes wires the bidding and assignment module.
package quotes

import (
	apphttp "mudancer_backend/internal/http"
	leadsrepo "mudancer_backend/internal/leads/repository"
	"mudancer_backend/internal/quotes/handler"
	"mudancer_backend/internal/quotes/repository"
	"mudancer_backend/internal/quotes/service"
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

func NewModule(pool *pgxpool.Pool, leads *leadsrepo.Repository, v *validator.Validator, cfg config.PublicURLConfig, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads, v, cfg, bus, log)
	return &Module{handler: handler.New(svc), service: svc, repository: repo}
}

func (m *Module) Name() string { return "quotes" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.Register(ctx.Admin, ctx.Provider)
}

// Service exposes the quote service so the customer module can reuse the
// assignment path.
func (m *Module) Service() *service.Service { return m.service }

// Repository exposes the quote store for the customer module's ownership
// checks.
func (m *Module) Repository() *repository.Repository { return m.repository }
