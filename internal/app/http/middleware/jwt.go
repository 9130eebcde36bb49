package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tour-backoffice/internal/app/http/respond"
	"tour-backoffice/internal/domain/access"
	"tour-backoffice/internal/domain/apperr"
)

const principalKey = "principal"

// AuthMiddleware requires a valid bearer token and attaches the caller's
// principal to the request.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(secret) == 0 {
			respond.Fail(c, apperr.Internal, "JWT secret not configured")
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respond.Fail(c, apperr.Unauthorized, "Authorization header missing")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			respond.Fail(c, apperr.Unauthorized, "Bearer token malformed")
			return
		}

		p, err := access.ParseToken(secret, strings.TrimSpace(tokenString))
		if err != nil {
			respond.Fail(c, apperr.Unauthorized, "Invalid or expired token")
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireRoles lets the request through only when the caller's role is in
// allowed. It must run after AuthMiddleware.
func RequireRoles(allowed ...access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			respond.Fail(c, apperr.Unauthorized, "Authentication required")
			return
		}
		if !access.Allows(p.Role, allowed...) {
			respond.Fail(c, apperr.Forbidden, "Access denied")
			return
		}
		c.Next()
	}
}

func CurrentPrincipal(c *gin.Context) (access.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return access.Principal{}, false
	}
	p, ok := v.(access.Principal)
	return p, ok
}

// SetPrincipal attaches p to the request. Used by tests that bypass the
// token check.
func SetPrincipal(c *gin.Context, p access.Principal) {
	c.Set(principalKey, p)
}
