// Package brokers provides the broker roster bounded context.
package brokers

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"vmr_backend/internal/brokers/handler"
	"vmr_backend/internal/brokers/repository"
	"vmr_backend/internal/brokers/service"
	apphttp "vmr_backend/internal/http"
	"vmr_backend/platform/logger"
)

// Module is the brokers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, accounts service.AccountProvisioner, leads service.LeadBook, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, accounts, leads, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "brokers"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// Service exposes the broker service so other modules can resolve broker
// identities.
func (m *Module) Service() *service.Service {
	return m.service
}
