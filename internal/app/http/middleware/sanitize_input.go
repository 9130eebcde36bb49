package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"tour-backoffice/internal/app/http/respond"
	"tour-backoffice/internal/domain/apperr"
)

// MaxBodyBytes bounds request bodies read by the sanitizer.
const MaxBodyBytes = 10 << 20

// Credential fields are forwarded untouched.
var rawFields = map[string]bool{
	"password":    true,
	"oldPassword": true,
	"newPassword": true,
}

// SanitizeAndCleanInputMiddleware strips markup from every string in a
// JSON body, nested objects and arrays included. Plain text such as
// "O'Brien" or "a=1&b=2" is left byte-for-byte intact.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}
		if c.Request.Body == nil || !strings.Contains(c.ContentType(), "json") {
			c.Next()
			return
		}

		buf, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxBodyBytes+1))
		if err != nil {
			respond.Fail(c, apperr.Validation, "Invalid body")
			return
		}
		if len(buf) > MaxBodyBytes {
			respond.Fail(c, apperr.Validation, "Request body too large")
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.UseNumber()
		var body any
		if err := dec.Decode(&body); err != nil {
			respond.Fail(c, apperr.Validation, "Malformed JSON")
			return
		}

		newBody, err := json.Marshal(sanitize(policy, body))
		if err != nil {
			respond.Fail(c, apperr.Validation, "Malformed JSON")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(newBody))
		c.Request.ContentLength = int64(len(newBody))

		c.Next()
	}
}

func sanitize(policy *bluemonday.Policy, v any) any {
	switch t := v.(type) {
	case string:
		return clean(policy, t)
	case map[string]any:
		for k, inner := range t {
			if _, ok := inner.(string); ok && rawFields[k] {
				continue
			}
			t[k] = sanitize(policy, inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = sanitize(policy, inner)
		}
		return t
	default:
		return v
	}
}

// clean removes markup without leaving entities behind. It repeats until
// stable so escaped markup such as "&lt;b&gt;" cannot survive decoding.
func clean(policy *bluemonday.Policy, s string) string {
	for i := 0; i < 4; i++ {
		next := html.UnescapeString(policy.Sanitize(s))
		if next == s {
			break
		}
		s = next
	}
	return s
}
