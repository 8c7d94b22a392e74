// Package handler exposes the leads context over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vmr_backend/internal/leads/maintenance"
	"vmr_backend/internal/leads/management"
	"vmr_backend/internal/leads/transport"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/httpkit"
)

// RegenerationScheduler enqueues the token regeneration batch on the
// background worker. Nil when Redis is not configured.
type RegenerationScheduler interface {
	ScheduleTokenRegeneration(ctx context.Context, requestedBy string) error
}

// Handler carries the leads services behind the admin endpoints.
type Handler struct {
	management  *management.Service
	maintenance *maintenance.Service
	scheduler   RegenerationScheduler
}

func New(managementSvc *management.Service, maintenanceSvc *maintenance.Service, scheduler RegenerationScheduler) *Handler {
	return &Handler{management: managementSvc, maintenance: maintenanceSvc, scheduler: scheduler}
}

// RegisterAdminRoutes mounts the back-office lead routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/leads", h.ListLeads)
	rg.GET("/leads/:id", h.GetLead)
	rg.PATCH("/leads/:id", h.ReassignLead)
	rg.GET("/leads/:id/notes", h.ListNotes)
	rg.POST("/leads/:id/notes", h.AddNote)
	rg.POST("/assign-lead", h.AssignLead)
	rg.POST("/disqualify-lead", h.DisqualifyLead)
	rg.POST("/regenerate-token", h.RegenerateToken)
	rg.POST("/regenerate-all-tokens", h.RegenerateAll)
}

func (h *Handler) ListLeads(c *gin.Context) {
	leads, err := h.management.List(c.Request.Context())
	if err != nil {
		failOK(c, err)
		return
	}
	httpkit.OK(c, gin.H{"ok": true, "leads": leads})
}

func (h *Handler) GetLead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusNotFound, "Lead not found", nil)
		return
	}

	lead, err := h.management.Get(c.Request.Context(), id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			httpkit.Error(c, http.StatusNotFound, "Lead not found", nil)
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) ReassignLead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		failOK(c, apperr.NotFound("Lead not found"))
		return
	}

	var req transport.ReassignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failOK(c, apperr.Validation(err.Error()))
		return
	}

	if err := h.management.Reassign(c.Request.Context(), id, req.BrokerID); err != nil {
		failOK(c, err)
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}

func (h *Handler) AssignLead(c *gin.Context) {
	var req transport.AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	lead, err := h.management.Assign(c.Request.Context(), req.LeadID, req.BrokerID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) ListNotes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		failOK(c, apperr.NotFound("Lead not found"))
		return
	}
	notes, err := h.management.Notes(c.Request.Context(), id)
	if err != nil {
		failOK(c, err)
		return
	}
	httpkit.OK(c, gin.H{"ok": true, "notes": notes})
}

func (h *Handler) AddNote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		failOK(c, apperr.NotFound("Lead not found"))
		return
	}

	var req struct {
		Note      string `json:"note"`
		CreatedBy string `json:"created_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failOK(c, apperr.Validation(err.Error()))
		return
	}
	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = "admin"
	}

	if err := h.management.AddNote(c.Request.Context(), id, req.Note, createdBy); err != nil {
		failOK(c, err)
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}

func (h *Handler) DisqualifyLead(c *gin.Context) {
	var req transport.DisqualifyLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.management.Disqualify(c.Request.Context(), req); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"success": true})
}

func (h *Handler) RegenerateToken(c *gin.Context) {
	var req transport.RegenerateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failOK(c, apperr.Validation("Lead ID manquant"))
		return
	}

	resp, err := h.maintenance.RegenerateToken(c.Request.Context(), req.LeadID)
	if err != nil {
		failOK(c, err)
		return
	}
	httpkit.OK(c, resp)
}

// RegenerateAll runs the batch inline and returns the per-lead outcome.
// With ?async=true and a configured scheduler the batch is handed to the
// worker instead.
func (h *Handler) RegenerateAll(c *gin.Context) {
	if c.Query("async") == "true" && h.scheduler != nil {
		if err := h.scheduler.ScheduleTokenRegeneration(c.Request.Context(), "admin"); err != nil {
			httpkit.Error(c, http.StatusInternalServerError, "Erreur récupération leads", nil)
			return
		}
		httpkit.OK(c, gin.H{"ok": true, "queued": true})
		return
	}

	result, err := h.maintenance.RegenerateAll(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, result)
}

// failOK writes the legacy {ok:false, error} envelope the dashboards expect.
func failOK(c *gin.Context, err error) {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.HTTPStatus(), gin.H{"ok": false, "error": domainErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}
