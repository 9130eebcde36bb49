package members

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tour-backoffice/internal/app/http/middleware"
	"tour-backoffice/internal/app/http/params"
	"tour-backoffice/internal/app/http/respond"
	"tour-backoffice/internal/domain/apperr"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ------------------------------
// GET /members
// ------------------------------
func (h *Handler) List(c *gin.Context) {
	page, err := params.Paging(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	q := ListQuery{
		Page:     page.Page,
		Limit:    page.Limit,
		Name:     strings.TrimSpace(c.Query("name")),
		MobileNo: strings.TrimSpace(c.Query("mobileNo")),
	}
	if raw := c.Query("userId"); raw != "" {
		if q.UserID, err = params.ParseID("userId", raw); err != nil {
			respond.Error(c, err)
			return
		}
	}
	if raw := c.Query("createdById"); raw != "" {
		if q.CreatedByID, err = params.ParseID("createdById", raw); err != nil {
			respond.Error(c, err)
			return
		}
	}

	views, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Page(c, "Members retrieved successfully", views, respond.NewPagination(q.Page, q.Limit, total))
}

// ------------------------------
// GET /members/:id
// ------------------------------
func (h *Handler) Get(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)
	id, err := params.ID(c, "id")
	if err != nil {
		respond.Error(c, err)
		return
	}

	v, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Member retrieved successfully", v)
}

// ------------------------------
// GET /members/user/:userId
// ------------------------------
func (h *Handler) ByUser(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)
	userID, err := params.ID(c, "userId")
	if err != nil {
		respond.Error(c, err)
		return
	}

	views, err := h.service.ByUser(c.Request.Context(), actor, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Members retrieved successfully", views)
}

// ------------------------------
// POST /members
// ------------------------------
func (h *Handler) Create(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validationf("invalid request body: %s", err.Error()))
		return
	}

	v, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, "Member created successfully", v)
}

// ------------------------------
// PUT /members/:id
// ------------------------------
func (h *Handler) Update(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		respond.Error(c, err)
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validationf("invalid request body: %s", err.Error()))
		return
	}

	v, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Member updated successfully", v)
}

// ------------------------------
// DELETE /members/:id
// ------------------------------
func (h *Handler) Delete(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		respond.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Member deleted successfully", nil)
}
