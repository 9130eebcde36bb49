package auth

import (
	"github.com/gin-gonic/gin"

	"tour-backoffice/internal/app/http/middleware"
	"tour-backoffice/internal/app/http/respond"
	"tour-backoffice/internal/domain/apperr"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	RegisterValidators()
	return &Handler{service: service}
}

// ------------------------------
// POST /auth/login
// ------------------------------
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validationf("invalid request body: %s", err.Error()))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Login successful", res)
}

// ------------------------------
// POST /auth/register
// ------------------------------
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validationf("invalid request body: %s", err.Error()))
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, "User registered successfully", u)
}

// ------------------------------
// GET /auth/me
// ------------------------------
func (h *Handler) Me(c *gin.Context) {
	actor, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respond.Fail(c, apperr.Unauthorized, "Unauthorized")
		return
	}

	u, err := h.service.Me(c.Request.Context(), actor.UserID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "User retrieved successfully", u)
}

// ------------------------------
// POST /auth/change-password
// ------------------------------
func (h *Handler) ChangePassword(c *gin.Context) {
	actor, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respond.Fail(c, apperr.Unauthorized, "Unauthorized")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validationf("invalid request body: %s", err.Error()))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), actor.UserID, req); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Password changed successfully", nil)
}
