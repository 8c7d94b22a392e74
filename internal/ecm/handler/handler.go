// Package handler exposes the ECM context over HTTP.
package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vmr_backend/internal/ecm/service"
	"vmr_backend/internal/ecm/transport"
	"vmr_backend/platform/httpkit"
	"vmr_backend/platform/validator"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterAdminRoutes mounts the ECM builder routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/leads/:id/ecm", h.CreateOrFetch)
	rg.PATCH("/ecm/:ecmId", h.Update)
	rg.POST("/ecm/:ecmId/set-subject", h.SetSubject)
	rg.POST("/ecm/:ecmId/generate", h.Generate)
	rg.POST("/ecm/import-pdfs", h.ImportPDFs)
}

func (h *Handler) CreateOrFetch(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Lead data not provided", nil)
		return
	}

	var req transport.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Lead data not provided", nil)
		return
	}

	ecm, err := h.svc.CreateOrFetch(c.Request.Context(), leadID, req.LeadData)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"lead": req.LeadData, "ecm": ecm})
}

func (h *Handler) Update(c *gin.Context) {
	ecmID, err := uuid.Parse(c.Param("ecmId"))
	if err != nil {
		httpkit.Error(c, http.StatusNotFound, "ECM not found", nil)
		return
	}

	var req transport.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ecm, err := h.svc.Update(c.Request.Context(), ecmID, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"ecm": ecm})
}

func (h *Handler) SetSubject(c *gin.Context) {
	ecmID, err := uuid.Parse(c.Param("ecmId"))
	if err != nil {
		httpkit.Error(c, http.StatusNotFound, "ECM not found", nil)
		return
	}

	var req transport.SetSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Missing comparableId", nil)
		return
	}

	ecm, err := h.svc.SetSubject(c.Request.Context(), ecmID, req.ComparableID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"success": true, "ecm": ecm})
}

func (h *Handler) Generate(c *gin.Context) {
	ecmID, err := uuid.Parse(c.Param("ecmId"))
	if err != nil {
		httpkit.Error(c, http.StatusNotFound, "ECM not found", nil)
		return
	}

	text, err := h.svc.Generate(c.Request.Context(), ecmID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"generated_text": text})
}

func (h *Handler) ImportPDFs(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Missing leadId, ecmReportId, or files", nil)
		return
	}

	leadID, leadErr := uuid.Parse(c.PostForm("leadId"))
	reportID, reportErr := uuid.Parse(c.PostForm("ecmReportId"))
	fileHeaders := form.File["files"]
	if leadErr != nil || reportErr != nil || len(fileHeaders) == 0 {
		httpkit.Error(c, http.StatusBadRequest, "Missing leadId, ecmReportId, or files", nil)
		return
	}

	files := make([]service.ImportFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		files = append(files, service.ImportFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	result, err := h.svc.ImportPDFs(c.Request.Context(), leadID, reportID, files)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, result)
}
