// Package handler exposes the login endpoints.
package handler

import (
	"net/http"

	"mudancer_backend/internal/auth/service"
	"mudancer_backend/internal/auth/transport"
	"mudancer_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// Register mounts the two role-scoped login endpoints on the public group,
// behind the stricter auth rate limiter.
func (h *Handler) Register(api *gin.RouterGroup, limiter *httpkit.AuthRateLimiter) {
	api.POST("/admin/login", limiter.RateLimit(), h.login(httpkit.RoleAdmin))
	api.POST("/proveedor/login", limiter.RateLimit(), h.login(httpkit.RoleProvider))
}

func (h *Handler) login(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transport.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
			return
		}
		resp, err := h.service.Login(c.Request.Context(), req, role)
		if err != nil {
			httpkit.HandleError(c, err)
			return
		}
		httpkit.OK(c, resp)
	}
}
