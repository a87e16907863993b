// Package customer wires the phone-keyed self-service module.
package customer

import (
	"mudancer_backend/internal/customer/handler"
	"mudancer_backend/internal/customer/service"
	apphttp "mudancer_backend/internal/http"
	leadsrepo "mudancer_backend/internal/leads/repository"
	quotesrepo "mudancer_backend/internal/quotes/repository"
	quotesservice "mudancer_backend/internal/quotes/service"
	"mudancer_backend/platform/logger"
	"mudancer_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(leads *leadsrepo.Repository, quotes *quotesrepo.Repository, assigner *quotesservice.Service, v *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(leads, quotes, assigner, v, log)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string { return "customer" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.Register(ctx.API, ctx.AuthRateLimiter)
}
