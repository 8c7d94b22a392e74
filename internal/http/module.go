// Package http provides HTTP server infrastructure including the Module interface
// that all domain modules must implement for route registration.
package http

import (
	"vmr_backend/platform/config"
	"vmr_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
// Each domain module implements this interface to encapsulate its own
// route setup, keeping the main router decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router group.
	// The RouterContext provides access to shared middleware and configuration.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
// This avoids passing many parameters to each module's RegisterRoutes method.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// Public is the unauthenticated route group (lead capture form posts here).
	Public *gin.RouterGroup
	// Admin is the shared-secret protected group for back-office routes.
	Admin *gin.RouterGroup
	// Broker is the JWT-protected group for the broker portal.
	Broker *gin.RouterGroup
	// Client is the JWT-protected group for the client portal.
	Client *gin.RouterGroup
	// Config is the JWT configuration for auth middleware (scoped access).
	Config config.JWTConfig
	// AuthMiddleware provides the JWT authentication middleware.
	AuthMiddleware gin.HandlerFunc
	// IntakeRateLimiter throttles the public lead capture endpoint by IP.
	IntakeRateLimiter *httpkit.IPRateLimiter
}
