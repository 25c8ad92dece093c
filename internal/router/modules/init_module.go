package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	handlers "github.com/oksasatya/go-ddd-user-terms/internal/interface/http"
	"github.com/oksasatya/go-ddd-user-terms/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-user-terms/pkg/helpers"
)

// SeedLimit caps seed runs per admin per minute.
const SeedLimit = 5

// InitModule exposes admin-only bootstrap endpoints under /api/init.
type InitModule struct {
	Handler *handlers.InitHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client
}

func NewInitModule(h *handlers.InitHandler, jwt *helpers.JWTManager, rdb *redis.Client) *InitModule {
	return &InitModule{Handler: h, JWT: jwt, RDB: rdb}
}

func (m *InitModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/api/init")
	admin.Use(middleware.BearerAuth(m.JWT), middleware.RequireRole(entity.RoleAdmin))
	{
		admin.POST("/seed-users",
			middleware.RateLimit(m.RDB, SeedLimit, time.Minute, middleware.KeyByUserID(),
				middleware.WithLimitMessage("Too many seed requests, please try again later.")),
			m.Handler.SeedUsers)
	}
}
