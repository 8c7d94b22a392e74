// Package handler exposes the auth context over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vmr_backend/internal/auth/service"
	"vmr_backend/internal/auth/transport"
	"vmr_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes mounts the login endpoint.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// RegisterAdminRoutes mounts the account administration endpoints.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListAccounts)
	rg.DELETE("/users/:id", h.DeleteAccount)
	rg.POST("/reset-password", h.AdminResetPassword)
	rg.POST("/brokers/create-auth", h.CreateAccount)
}

// RegisterBrokerRoutes mounts the self-service password endpoint.
func (h *Handler) RegisterBrokerRoutes(rg *gin.RouterGroup) {
	rg.POST("/reset-password", h.SelfResetPassword)
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Email ou mot de passe incorrect", nil)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.svc.ListAccounts(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"users": accounts})
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "User ID missing", nil)
		return
	}

	if err := h.svc.DeleteAccount(c.Request.Context(), id); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"success": true})
}

func (h *Handler) AdminResetPassword(c *gin.Context) {
	var req transport.AdminResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "User ID requis", nil)
		return
	}

	if err := h.svc.AdminResetPassword(c.Request.Context(), req.UserID, req.NewPassword); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"success": true, "message": "Mot de passe réinitialisé avec succès"})
}

func (h *Handler) CreateAccount(c *gin.Context) {
	var req transport.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Email and password are required", nil)
		return
	}
	if req.Email == "" || req.Password == "" {
		httpkit.Error(c, http.StatusBadRequest, "Email and password are required", nil)
		return
	}
	if len(req.Password) < 6 {
		httpkit.Error(c, http.StatusBadRequest, "Password must be at least 6 characters", nil)
		return
	}

	resp, err := h.svc.CreateAccount(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) SelfResetPassword(c *gin.Context) {
	userID, ok := c.Get(httpkit.ContextUserIDKey)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "Non autorisé", nil)
		return
	}

	var req transport.BrokerResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Le mot de passe doit contenir au moins 6 caractères", nil)
		return
	}

	if err := h.svc.SelfResetPassword(c.Request.Context(), userID.(uuid.UUID), req.NewPassword); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"success": true})
}
