package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vmr_backend/internal/leads/finalize"
	"vmr_backend/internal/leads/intake"
	"vmr_backend/internal/leads/transport"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/httpkit"
	"vmr_backend/platform/sanitize"
)

// PublicHandler serves the endpoints reachable without the admin secret:
// the landing page capture and the token-gated finalization form. The
// finalization routes keep their historical /admin/... paths, the access
// token is the only credential they need.
type PublicHandler struct {
	intake   *intake.Service
	finalize *finalize.Service
}

func NewPublicHandler(intakeSvc *intake.Service, finalizeSvc *finalize.Service) *PublicHandler {
	return &PublicHandler{intake: intakeSvc, finalize: finalizeSvc}
}

// RegisterPublicRoutes mounts the public routes. The capture endpoint is
// rate limited by IP.
func (h *PublicHandler) RegisterPublicRoutes(rg *gin.RouterGroup, rateLimit gin.HandlerFunc) {
	rg.POST("/lead", rateLimit, h.CaptureLead)
	rg.GET("/admin/lead-by-token", h.LeadByToken)
	rg.POST("/admin/complete-lead", h.CompleteLead)
}

func (h *PublicHandler) CaptureLead(c *gin.Context) {
	var req transport.CaptureLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failOK(c, apperr.Validation(err.Error()))
		return
	}

	req.FullName = sanitize.Text(req.FullName)
	req.Address = sanitize.Text(req.Address)

	if err := h.intake.Capture(c.Request.Context(), req); err != nil {
		failOK(c, err)
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}

func (h *PublicHandler) LeadByToken(c *gin.Context) {
	lead, token, err := h.finalize.LeadByToken(c.Request.Context(), c.Query("token"))
	if err != nil {
		failOK(c, err)
		return
	}
	httpkit.OK(c, gin.H{"ok": true, "lead": lead, "token": token})
}

func (h *PublicHandler) CompleteLead(c *gin.Context) {
	var req transport.CompleteLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Token manquant"})
		return
	}

	if err := h.finalize.Complete(c.Request.Context(), req); err != nil {
		failOK(c, err)
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}
