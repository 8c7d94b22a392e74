package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vmr_backend/internal/leads/portal"
	"vmr_backend/platform/apperr"
	"vmr_backend/platform/httpkit"
)

// BrokerHandler exposes the broker portal lead routes.
type BrokerHandler struct {
	portal *portal.Service
}

func NewBrokerHandler(svc *portal.Service) *BrokerHandler {
	return &BrokerHandler{portal: svc}
}

// RegisterBrokerRoutes mounts the portal lead views.
func (h *BrokerHandler) RegisterBrokerRoutes(rg *gin.RouterGroup) {
	rg.GET("/leads", h.Leads)
	rg.GET("/leads/export", h.ExportCSV)
	rg.GET("/leads/:id", h.LeadDetail)
}

func (h *BrokerHandler) Leads(c *gin.Context) {
	userID, ok := c.Get(httpkit.ContextUserIDKey)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	leads, err := h.portal.Leads(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"ok": true, "leads": leads})
}

func (h *BrokerHandler) LeadDetail(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Lead non trouvé"})
		return
	}

	lead, notes, err := h.portal.LeadDetail(c.Request.Context(), leadID)
	if err != nil {
		if dom, ok := err.(*apperr.Error); ok {
			c.JSON(dom.HTTPStatus(), gin.H{"ok": false, "error": dom.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "lead": lead, "notes": notes})
}

func (h *BrokerHandler) ExportCSV(c *gin.Context) {
	userID, ok := c.Get(httpkit.ContextUserIDKey)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	csv, err := h.portal.ExportCSV(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="leads.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(csv))
}
