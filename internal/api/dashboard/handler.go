package dashboard

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tour-backoffice/internal/app/http/params"
	"tour-backoffice/internal/app/http/respond"
	"tour-backoffice/internal/domain/apperr"
	"tour-backoffice/internal/domain/dashboard"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GET /dashboard/overview
func (h *Handler) Overview(c *gin.Context) {
	o, err := h.service.Overview(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Dashboard overview retrieved successfully", o)
}

// GET /dashboard/summary
func (h *Handler) Summary(c *gin.Context) {
	o, err := h.service.Overview(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Dashboard summary retrieved successfully", o.Summary())
}

// GET /dashboard/recent-bookings?limit=
func (h *Handler) RecentBookings(c *gin.Context) {
	limit, err := params.IntQuery(c, "limit", dashboard.DefaultRecentLimit, 1, dashboard.MaxRecentLimit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	out, err := h.service.RecentBookings(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Recent bookings retrieved successfully", out)
}

// GET /dashboard/revenue-trends?months=
func (h *Handler) RevenueTrends(c *gin.Context) {
	months, err := params.IntQuery(c, "months", dashboard.DefaultTrendMonths, 1, dashboard.MaxTrendMonths)
	if err != nil {
		respond.Error(c, err)
		return
	}
	out, err := h.service.RevenueTrends(c.Request.Context(), months)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Revenue trends retrieved successfully", out)
}

// GET /dashboard/popular-packages?limit=
func (h *Handler) PopularPackages(c *gin.Context) {
	limit, err := params.IntQuery(c, "limit", dashboard.DefaultPopularLimit, 1, dashboard.MaxPopularLimit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	out, err := h.service.PopularPackages(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Popular packages retrieved successfully", out)
}

// GET /dashboard/realtime?lastUpdated=RFC3339
func (h *Handler) Realtime(c *gin.Context) {
	var since *time.Time
	if raw := strings.TrimSpace(c.Query("lastUpdated")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respond.Error(c, apperr.Validationf("lastUpdated must be an RFC 3339 timestamp"))
			return
		}
		since = &t
	}

	out, err := h.service.Realtime(c.Request.Context(), since)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Realtime updates retrieved successfully", out)
}
