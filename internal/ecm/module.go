// Package ecm provides the comparative market report bounded context.
package ecm

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"vmr_backend/internal/ecm/handler"
	"vmr_backend/internal/ecm/repository"
	"vmr_backend/internal/ecm/service"
	apphttp "vmr_backend/internal/http"
	"vmr_backend/platform/logger"
	"vmr_backend/platform/validator"
)

// Module is the ECM bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, store service.ObjectStore, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "ecm"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAdminRoutes(ctx.Admin)
}
