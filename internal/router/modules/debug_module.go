package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-user-terms/internal/interface/middleware"
)

type DebugModule struct {
	RDB *redis.Client
}

func NewDebugModule(rdb *redis.Client) *DebugModule { return &DebugModule{RDB: rdb} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar counters, rate-limited per IP; internal scrapers are exempt
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(),
		middleware.WithAllow(middleware.AllowPrivateIP()))
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
