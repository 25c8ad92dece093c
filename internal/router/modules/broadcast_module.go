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

// BroadcastLimit caps broadcast requests (stream reconnects included) per user per minute.
const BroadcastLimit = 60

type BroadcastModule struct {
	Handler *handlers.BroadcastHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client
}

func NewBroadcastModule(h *handlers.BroadcastHandler, jwt *helpers.JWTManager, rdb *redis.Client) *BroadcastModule {
	return &BroadcastModule{Handler: h, JWT: jwt, RDB: rdb}
}

func (m *BroadcastModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/broadcast")
	auth.Use(
		middleware.BearerAuth(m.JWT),
		middleware.RateLimit(m.RDB, BroadcastLimit, time.Minute, middleware.KeyByUserID(),
			middleware.WithAllow(middleware.AllowAdmin())),
	)
	{
		auth.POST("", middleware.RequireRole(entity.RoleAdmin), m.Handler.Send)
		auth.GET("/stream", m.Handler.Stream)
	}
}
