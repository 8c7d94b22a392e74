// Package clients provides the investor client bounded context.
package clients

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"vmr_backend/internal/clients/handler"
	"vmr_backend/internal/clients/repository"
	"vmr_backend/internal/clients/service"
	apphttp "vmr_backend/internal/http"
	"vmr_backend/platform/logger"
)

// Module is the clients bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, leads service.LeadSource, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads, log)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string {
	return "clients"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAdminRoutes(ctx.Admin)
	m.handler.RegisterClientRoutes(ctx.Client)
}
