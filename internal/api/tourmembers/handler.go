package tourmembers

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"tour-backoffice/internal/app/http/middleware"
	"tour-backoffice/internal/app/http/params"
	"tour-backoffice/internal/app/http/respond"
	"tour-backoffice/internal/domain/apperr"
	"tour-backoffice/internal/domain/ledger"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// bind decodes a JSON body. An empty body is accepted when optional.
func bind(c *gin.Context, req any, optional bool) error {
	if err := c.ShouldBindJSON(req); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Validationf("invalid request body: %s", err.Error())
	}
	return nil
}

// ------------------------------
// GET /tour-members
// ------------------------------
func (h *Handler) List(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)

	page, err := params.Paging(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	q := ListQuery{
		Page:          page.Page,
		Limit:         page.Limit,
		PaymentStatus: ledger.Status(strings.ToUpper(strings.TrimSpace(c.Query("paymentStatus")))),
		Search:        strings.TrimSpace(c.Query("search")),
	}
	if raw := c.Query("packageId"); raw != "" {
		if q.PackageID, err = params.ParseID("packageId", raw); err != nil {
			respond.Error(c, err)
			return
		}
	}
	if raw := c.Query("memberId"); raw != "" {
		if q.MemberID, err = params.ParseID("memberId", raw); err != nil {
			respond.Error(c, err)
			return
		}
	}

	views, total, err := h.service.List(c.Request.Context(), actor, q)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Page(c, "Tour members retrieved successfully", views, respond.NewPagination(q.Page, q.Limit, total))
}

// ------------------------------
// GET /tour-members/:id
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
	respond.OK(c, "Tour member retrieved successfully", v)
}

// ------------------------------
// POST /tour-members
// ------------------------------
func (h *Handler) Create(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)

	var req CreateRequest
	if err := bind(c, &req, false); err != nil {
		respond.Error(c, err)
		return
	}

	v, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, "Tour member created successfully", v)
}

// ------------------------------
// PUT /tour-members/:id
// ------------------------------
func (h *Handler) Update(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)
	id, err := params.ID(c, "id")
	if err != nil {
		respond.Error(c, err)
		return
	}

	var req UpdateRequest
	if err := bind(c, &req, false); err != nil {
		respond.Error(c, err)
		return
	}

	v, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Tour member updated successfully", v)
}

// ------------------------------
// DELETE /tour-members/:id
// ------------------------------
func (h *Handler) Delete(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)
	id, err := params.ID(c, "id")
	if err != nil {
		respond.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Tour member deleted successfully", nil)
}

// ------------------------------
// POST /tour-members/:id/payments
// ------------------------------
func (h *Handler) AddPayment(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)
	id, err := params.ID(c, "id")
	if err != nil {
		respond.Error(c, err)
		return
	}

	var req PaymentRequest
	if err := bind(c, &req, false); err != nil {
		respond.Error(c, err)
		return
	}

	v, err := h.service.AddPayment(c.Request.Context(), actor, id, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, "Payment added successfully", v)
}

// ------------------------------
// PUT /tour-members/:id/payments/:paymentId
// ------------------------------
func (h *Handler) UpdatePayment(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)
	id, err := params.ID(c, "id")
	if err != nil {
		respond.Error(c, err)
		return
	}
	paymentID, err := params.ID(c, "paymentId")
	if err != nil {
		respond.Error(c, err)
		return
	}

	var req PaymentRequest
	if err := bind(c, &req, false); err != nil {
		respond.Error(c, err)
		return
	}

	v, err := h.service.UpdatePayment(c.Request.Context(), actor, id, paymentID, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Payment updated successfully", v)
}

// ------------------------------
// DELETE /tour-members/:id/payments/:paymentId
// ------------------------------
func (h *Handler) DeletePayment(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)
	id, err := params.ID(c, "id")
	if err != nil {
		respond.Error(c, err)
		return
	}
	paymentID, err := params.ID(c, "paymentId")
	if err != nil {
		respond.Error(c, err)
		return
	}

	var req DeletePaymentRequest
	if err := bind(c, &req, true); err != nil {
		respond.Error(c, err)
		return
	}
	if req.ExpectedVersion == nil {
		if raw := c.Query("expectedVersion"); raw != "" {
			v, err := params.IntQuery(c, "expectedVersion", 0, 1, 1<<30)
			if err != nil {
				respond.Error(c, err)
				return
			}
			req.ExpectedVersion = &v
		}
	}

	v, err := h.service.DeletePayment(c.Request.Context(), actor, id, paymentID, req.ExpectedVersion)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Payment deleted successfully", v)
}

// ------------------------------
// GET /tour-members/stats
// ------------------------------
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Statistics retrieved successfully", stats)
}

// ------------------------------
// GET /tour-members/stats/:tourId
// ------------------------------
func (h *Handler) StatsByTour(c *gin.Context) {
	tourID, err := params.ID(c, "tourId")
	if err != nil {
		respond.Error(c, err)
		return
	}

	stats, err := h.service.StatsByTour(c.Request.Context(), tourID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, "Statistics retrieved successfully", stats)
}
