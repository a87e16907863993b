// Package webhook wires the WPForms intake module.
package webhook

import (
	apphttp "mudancer_backend/internal/http"
	leadsrepo "mudancer_backend/internal/leads/repository"
	"mudancer_backend/internal/webhook/handler"
	"mudancer_backend/internal/webhook/service"
	"mudancer_backend/platform/events"
	"mudancer_backend/platform/logger"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(leads *leadsrepo.Repository, bus events.Bus, log *logger.Logger) *Module {
	svc := service.New(leads, bus, log)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string { return "webhook" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.Register(ctx.Engine)
}
