// Package handler exposes the clients context over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vmr_backend/internal/clients/service"
	"vmr_backend/internal/clients/transport"
	"vmr_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterAdminRoutes mounts the client roster and sharing routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients", h.List)
	rg.POST("/clients", h.Create)
	rg.POST("/assign-to-client", h.AssignLead)
}

// RegisterClientRoutes mounts the client portal feed.
func (h *Handler) RegisterClientRoutes(rg *gin.RouterGroup) {
	rg.GET("/leads", h.PortalLeads)
}

func (h *Handler) List(c *gin.Context) {
	clients, err := h.svc.List(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"ok": true, "clients": clients})
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Email et nom requis", nil)
		return
	}

	client, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"ok": true, "client": client})
}

func (h *Handler) AssignLead(c *gin.Context) {
	var req transport.AssignToClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Lead ID et Client ID requis", nil)
		return
	}

	assignment, err := h.svc.AssignLead(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"ok": true, "assignment": assignment})
}

func (h *Handler) PortalLeads(c *gin.Context) {
	email, ok := c.Get(httpkit.ContextEmailKey)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "Non autorisé", nil)
		return
	}

	leads, err := h.svc.PortalLeads(c.Request.Context(), email.(string))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"ok": true, "leads": leads})
}
