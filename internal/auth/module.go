// Package auth wires the login module.
package auth

import (
	apphttp "mudancer_backend/internal/http"
	"mudancer_backend/internal/auth/handler"
	"mudancer_backend/internal/auth/repository"
	"mudancer_backend/internal/auth/service"
	"mudancer_backend/platform/config"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, v *validator.Validator, cfg config.AuthServiceConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, v, cfg, log)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string { return "auth" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.Register(ctx.API, ctx.AuthRateLimiter)
}
