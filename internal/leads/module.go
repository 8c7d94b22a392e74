// Package leads provides the lead capture and triage bounded context.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"vmr_backend/internal/email"
	"vmr_backend/internal/events"
	apphttp "vmr_backend/internal/http"
	"vmr_backend/internal/leads/finalize"
	"vmr_backend/internal/leads/handler"
	"vmr_backend/internal/leads/intake"
	"vmr_backend/internal/leads/maintenance"
	"vmr_backend/internal/leads/management"
	"vmr_backend/internal/leads/portal"
	"vmr_backend/internal/leads/repository"
	"vmr_backend/platform/config"
	"vmr_backend/platform/logger"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	brokerHandler *handler.BrokerHandler
	management    *management.Service
	maintenance   *maintenance.Service
}

// NewModule wires the leads services. The broker directory is provided by
// the brokers module so assignment events carry the broker identity, and the
// account resolver by the auth module so portal sessions map to brokers.
func NewModule(pool *pgxpool.Pool, bus events.Bus, sender email.Sender, brokers management.BrokerDirectory, accounts portal.AccountResolver, scheduler handler.RegenerationScheduler, cfg *config.Config, log *logger.Logger) *Module {
	repo := repository.New(pool)

	intakeSvc := intake.New(repo, sender, bus, cfg, log)
	finalizeSvc := finalize.New(repo, sender, bus, cfg, log)
	managementSvc := management.New(repo, brokers, sender, bus, cfg, log)
	maintenanceSvc := maintenance.New(repo, sender, cfg, log)
	portalSvc := portal.New(repo, accounts, log)

	return &Module{
		handler:       handler.New(managementSvc, maintenanceSvc, scheduler),
		publicHandler: handler.NewPublicHandler(intakeSvc, finalizeSvc),
		brokerHandler: handler.NewBrokerHandler(portalSvc),
		management:    managementSvc,
		maintenance:   maintenanceSvc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes mounts the public, admin and broker portal lead routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.publicHandler.RegisterPublicRoutes(ctx.Public, ctx.IntakeRateLimiter.RateLimit())
	m.handler.RegisterAdminRoutes(ctx.Admin)
	m.brokerHandler.RegisterBrokerRoutes(ctx.Broker)
}

// Management exposes the lead management service so the clients module can
// resolve shared leads.
func (m *Module) Management() *management.Service {
	return m.management
}

// Maintenance exposes the token maintenance service for the background worker.
func (m *Module) Maintenance() *maintenance.Service {
	return m.maintenance
}
