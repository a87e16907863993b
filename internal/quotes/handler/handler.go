// Package handler exposes the provider bidding endpoints and the admin
// assignment endpoint.
package handler

import (
	"net/http"
	"strconv"

	"mudancer_backend/internal/quotes/service"
	"mudancer_backend/internal/quotes/transport"
	"mudancer_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

func (h *Handler) Register(admin, provider *gin.RouterGroup) {
	admin.POST("/cotizaciones/:id/asignar", h.assign)

	provider.GET("/leads", h.listAvailable)
	provider.GET("/leads/:id", h.getLead)
	provider.POST("/leads/:id/cotizar", h.submit)
	provider.GET("/ordenes", h.listOrders)
	provider.POST("/ordenes/:id/concluir", h.concludeOrder)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) assign(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.service.Assign(c.Request.Context(), id, "admin")
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) listAvailable(c *gin.Context) {
	leads, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, leads)
}

func (h *Handler) getLead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	lead, err := h.service.GetLead(c.Request.Context(), identity.ProviderID(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) submit(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	quote, err := h.service.Submit(c.Request.Context(), identity.ProviderID(), id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, quote)
}

func (h *Handler) listOrders(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	orders, err := h.service.ListOrders(c.Request.Context(), identity.ProviderID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, orders)
}

func (h *Handler) concludeOrder(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	quote, err := h.service.ConcludeOrder(c.Request.Context(), identity.ProviderID(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, quote)
}
