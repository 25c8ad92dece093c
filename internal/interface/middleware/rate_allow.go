package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP bypasses the limiter for loopback and private-range clients.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// AllowAdmin bypasses the limiter for authenticated admins.
func AllowAdmin() AllowFunc {
	return func(c *gin.Context) bool {
		id, ok := IdentityFrom(c)
		return ok && id.IsAdmin()
	}
}
