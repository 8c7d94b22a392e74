// Package auth provides the portal authentication bounded context.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"vmr_backend/internal/auth/handler"
	"vmr_backend/internal/auth/repository"
	"vmr_backend/internal/auth/service"
	apphttp "vmr_backend/internal/http"
	"vmr_backend/platform/config"
	"vmr_backend/platform/logger"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, cfg *config.Config, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "auth"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.Public)
	m.handler.RegisterAdminRoutes(ctx.Admin)
	m.handler.RegisterBrokerRoutes(ctx.Broker)
}

// Service exposes the auth service so the brokers module can provision
// accounts and the portal modules can resolve account links.
func (m *Module) Service() *service.Service {
	return m.service
}
