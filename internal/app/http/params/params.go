// Package params reads path and query parameters shared by the handlers.
package params

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tour-backoffice/internal/domain/apperr"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// Paging reads ?page= and ?limit=. Page starts at 1; limit is 1..100.
func Paging(c *gin.Context) (Page, error) {
	page, err := IntQuery(c, "page", 1, 1, 1<<30)
	if err != nil {
		return Page{}, err
	}
	limit, err := IntQuery(c, "limit", DefaultLimit, 1, MaxLimit)
	if err != nil {
		return Page{}, err
	}
	return Page{Page: page, Limit: limit}, nil
}

// IntQuery reads an integer query value within [min, max], using def when
// the value is absent.
func IntQuery(c *gin.Context, key string, def, min, max int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validationf("%s must be an integer", key)
	}
	if n < min || n > max {
		return 0, apperr.Validationf("%s must be between %d and %d", key, min, max)
	}
	return n, nil
}

// ID reads a uuid path parameter and returns it in canonical form.
func ID(c *gin.Context, key string) (string, error) {
	return ParseID(key, c.Param(key))
}

func ParseID(name, raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", apperr.Validationf("%s must be a valid uuid", name)
	}
	return id.String(), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains builds an ILIKE pattern matching s anywhere, with wildcards in
// s taken literally.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}
