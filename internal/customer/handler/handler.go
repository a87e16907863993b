// Package handler exposes the unauthenticated customer endpoints.
package handler

import (
	"net/http"

	"mudancer_backend/internal/customer/service"
	"mudancer_backend/internal/customer/transport"
	"mudancer_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// Register mounts the customer routes on the public group behind the strict
// rate limiter. Phone-as-credential is the product's accepted tradeoff; the
// limiter keeps enumeration expensive.
func (h *Handler) Register(api *gin.RouterGroup, limiter *httpkit.AuthRateLimiter) {
	cliente := api.Group("/cliente", limiter.RateLimit())
	cliente.GET("/leads/:telefono", h.lookup)
	cliente.POST("/cotizaciones/seleccionar", h.selectQuote)
	cliente.POST("/cotizaciones/interes", h.markInterest)
}

func (h *Handler) lookup(c *gin.Context) {
	result, err := h.service.Lookup(c.Request.Context(), c.Param("telefono"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) selectQuote(c *gin.Context) {
	var req transport.SelectQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	result, err := h.service.SelectQuote(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) markInterest(c *gin.Context) {
	var req transport.SelectQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.service.MarkInterest(c.Request.Context(), req); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.NoContent(c)
}
