// Package respond writes the JSON envelope every endpoint answers with:
// {success, message, data?, code?}.
package respond

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tour-backoffice/internal/domain/apperr"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Code    string `json:"code,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type PageData struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func Page(c *gin.Context, message string, items any, p Pagination) {
	OK(c, message, PageData{Data: items, Pagination: p})
}

// Status maps an error kind to its HTTP status.
func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.CapacityExceeded, apperr.Conflict:
		return http.StatusConflict
	case apperr.Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is the single place errors become responses. Causes of store and
// internal failures are logged, never sent.
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	msg := "internal server error"

	switch kind {
	case apperr.Internal:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	case apperr.Upstream:
		log.Printf("⚠️ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		msg = messageOf(err)
	default:
		msg = messageOf(err)
	}

	c.AbortWithStatusJSON(Status(kind), Envelope{Success: false, Message: msg, Code: string(kind)})
}

// Fail answers with a kind and message that did not come from an error
// value, e.g. from middleware.
func Fail(c *gin.Context, kind apperr.Kind, message string) {
	c.AbortWithStatusJSON(Status(kind), Envelope{Success: false, Message: message, Code: string(kind)})
}

// FailStatus answers outside the error taxonomy, e.g. rate limiting.
func FailStatus(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message, Code: code})
}

func messageOf(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "internal server error"
}
