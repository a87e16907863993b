// Package http provides HTTP server infrastructure including the Module interface
// that all domain modules must implement for route registration.
package http

import (
	"mudancer_backend/platform/config"
	"mudancer_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
// Each domain module implements this interface to encapsulate its own
// route setup, keeping the main router decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router context.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
// This avoids passing many parameters to each module's RegisterRoutes method.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// API is the /api route group without authentication. Login, the webhook
	// and the customer self-service endpoints live here.
	API *gin.RouterGroup
	// Admin is the admin-only route group under /api/admin.
	Admin *gin.RouterGroup
	// Provider is the provider-only route group under /api/proveedor.
	Provider *gin.RouterGroup
	// Config is the JWT configuration for auth middleware (scoped access).
	Config config.JWTConfig
	// AuthRateLimiter is the stricter rate limiter for login and the
	// unauthenticated customer endpoints.
	AuthRateLimiter *httpkit.AuthRateLimiter
}
