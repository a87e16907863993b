// Package providers wires the admin provider directory module.
package providers

import (
	apphttp "mudancer_backend/internal/http"
	"mudancer_backend/internal/providers/handler"
	"mudancer_backend/internal/providers/repository"
	"mudancer_backend/internal/providers/service"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, v *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, v, log)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string { return "providers" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.Register(ctx.Admin)
}
