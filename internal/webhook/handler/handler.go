// Package handler exposes the form intake endpoint.
package handler

import (
	"net/http"

	"mudancer_backend/internal/webhook/service"
	"mudancer_backend/internal/webhook/transport"
	"mudancer_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// Register mounts the intake outside /api; the form builder is configured
// with this exact path.
func (h *Handler) Register(engine *gin.Engine) {
	engine.POST("/webhook/wpforms", h.receive)
}

func (h *Handler) receive(c *gin.Context) {
	var req transport.WPFormsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid webhook payload", nil)
		return
	}
	resp, err := h.service.Receive(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, resp)
}
