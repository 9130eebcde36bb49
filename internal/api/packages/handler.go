package packages

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

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

func decimalQuery(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, apperr.Validationf("%s must be a non-negative number", key)
	}
	return &d, nil
}

func seatQuery(c *gin.Context, key string) (*int, error) {
	if c.Query(key) == "" {
		return nil, nil
	}
	n, err := params.IntQuery(c, key, 0, 0, 1<<30)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ------------------------------
// GET /tour-packages
// ------------------------------
func (h *Handler) List(c *gin.Context) {
	page, err := params.Paging(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	q := ListQuery{
		Page:        page.Page,
		Limit:       page.Limit,
		PackageName: strings.TrimSpace(c.Query("packageName")),
		SortBy:      c.Query("sortBy"),
		SortOrder:   c.Query("sortOrder"),
	}
	if q.MinPrice, err = decimalQuery(c, "minPrice"); err != nil {
		respond.Error(c, err)
		return
	}
	if q.MaxPrice, err = decimalQuery(c, "maxPrice"); err != nil {
		respond.Error(c, err)
		return
	}
	if q.MinSeats, err = seatQuery(c, "minSeats"); err != nil {
		respond.Error(c, err)
		return
	}
	if q.MaxSeats, err = seatQuery(c, "maxSeats"); err != nil {
		respond.Error(c, err)
		return
	}

	views, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Page(c, "Tour packages retrieved successfully", views, respond.NewPagination(q.Page, q.Limit, total))
}

// ------------------------------
// GET /tour-packages/:id
// ------------------------------
func (h *Handler) Get(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		respond.Error(c, err)
		return
	}

	v, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Tour package retrieved successfully", v)
}

// ------------------------------
// POST /tour-packages
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
	respond.Created(c, "Tour package created successfully", v)
}

// ------------------------------
// PUT /tour-packages/:id
// ------------------------------
func (h *Handler) Update(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)
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

	v, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Tour package updated successfully", v)
}

// ------------------------------
// DELETE /tour-packages/:id
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
	respond.OK(c, "Tour package deleted successfully", nil)
}

// ------------------------------
// POST /tour-packages/bulk-delete
// ------------------------------
func (h *Handler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validationf("invalid request body: %s", err.Error()))
		return
	}

	res, err := h.service.BulkDelete(c.Request.Context(), req.PackageIDs)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Tour packages deleted successfully", res)
}

// ------------------------------
// GET /tour-packages/stats
// ------------------------------
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Tour package statistics retrieved successfully", stats)
}
