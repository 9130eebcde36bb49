package users

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tour-backoffice/internal/app/http/params"
	"tour-backoffice/internal/app/http/respond"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ------------------------------
// GET /users
// ------------------------------
func (h *Handler) List(c *gin.Context) {
	page, err := params.Paging(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	role, err := parseRole(c.Query("role"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	q := ListQuery{Page: page.Page, Limit: page.Limit, Role: role, Search: strings.TrimSpace(c.Query("search"))}

	list, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Page(c, "Users retrieved successfully", list, respond.NewPagination(q.Page, q.Limit, total))
}

// ------------------------------
// GET /users/:id
// ------------------------------
func (h *Handler) Get(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		respond.Error(c, err)
		return
	}

	u, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "User retrieved successfully", u)
}
