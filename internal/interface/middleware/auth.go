package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/pkg/helpers"
	"github.com/oksasatya/go-ddd-user-terms/pkg/response"
)

const (
	CtxIdentityKey = "identity"
	CtxUserIDKey   = "userID"
)

// BearerAuth verifies the Authorization: Bearer token and stores the caller identity
// in the Gin context. userID is set as well for the rate limiter keys.
func BearerAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Message(c, http.StatusUnauthorized, "Unauthorized: No token provided or invalid format")
			return
		}
		claims, err := jwt.ParseAccessToken(strings.TrimSpace(token))
		if err != nil {
			response.Message(c, http.StatusUnauthorized, "Unauthorized: Invalid or expired token")
			return
		}
		c.Set(CtxIdentityKey, claims.Identity())
		c.Set(CtxUserIDKey, claims.ID)
		c.Next()
	}
}

// IdentityFrom returns the identity set by BearerAuth.
func IdentityFrom(c *gin.Context) (entity.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return entity.Identity{}, false
	}
	id, ok := v.(entity.Identity)
	return id, ok
}

// RequireRole must run after BearerAuth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.Message(c, http.StatusUnauthorized, "Unauthorized: No token provided or invalid format")
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		response.Message(c, http.StatusForbidden, "Forbidden: Admin access required")
	}
}
