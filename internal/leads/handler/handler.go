// Package handler exposes the admin lead endpoints.
package handler

import (
	"net/http"
	"strconv"

	"mudancer_backend/internal/leads/service"
	"mudancer_backend/internal/leads/transport"
	"mudancer_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

func (h *Handler) Register(admin *gin.RouterGroup) {
	admin.GET("/leads", h.list)
	admin.GET("/leads/nuevas", h.listNew)
	admin.GET("/leads/cotizadas", h.listQuoted)
	admin.GET("/leads/ordenes", h.listOrders)
	admin.GET("/leads/:id", h.get)
	admin.PUT("/leads/:id", h.update)
	admin.POST("/leads/:id/publicar", h.publish)
	admin.POST("/leads/:id/adjudicar", h.adjudicate)
	admin.POST("/leads/:id/concluir", h.conclude)
}

func leadID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) list(c *gin.Context) {
	leads, err := h.service.List(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, leads)
}

func (h *Handler) listNew(c *gin.Context) {
	leads, err := h.service.ListNew(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, leads)
}

func (h *Handler) listQuoted(c *gin.Context) {
	leads, err := h.service.ListQuoted(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, leads)
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, orders)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	lead, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	lead, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) publish(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	lead, err := h.service.Publish(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) adjudicate(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	lead, err := h.service.Adjudicate(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) conclude(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	lead, err := h.service.Conclude(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, lead)
}
