// Package handler exposes the admin provider directory endpoints.
package handler

import (
	"net/http"
	"strconv"

	"mudancer_backend/internal/providers/service"
	"mudancer_backend/internal/providers/transport"
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
	admin.GET("/proveedores", h.list)
	admin.POST("/proveedores", h.create)
	admin.GET("/proveedores/:id", h.get)
	admin.PUT("/proveedores/:id", h.update)
	admin.DELETE("/proveedores/:id", h.delete)
}

func providerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid provider id", nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	result, err := h.service.List(c.Request.Context(), c.Query("search"), page, perPage)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) create(c *gin.Context) {
	var req transport.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	provider, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, provider)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := providerID(c)
	if !ok {
		return
	}
	provider, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, provider)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := providerID(c)
	if !ok {
		return
	}
	var req transport.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	provider, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, provider)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := providerID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.NoContent(c)
}
