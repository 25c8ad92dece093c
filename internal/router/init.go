package router

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-user-terms/internal/container"
	handlers "github.com/oksasatya/go-ddd-user-terms/internal/interface/http"
	"github.com/oksasatya/go-ddd-user-terms/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-user-terms/internal/router/modules"
)

// InitModules builds the handlers from c and registers every module.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(c.Pinger, c.Logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.UserService), c.JWT, c.Redis, cfg.LoginRateLimit, c.Logger))
	r.Add(modules.NewTermsModule(handlers.NewTermsHandler(c.TermsService), c.JWT))
	r.Add(modules.NewBroadcastModule(handlers.NewBroadcastHandler(c.BroadcastService, c.Hub, cfg.BroadcastHeartbeat), c.JWT, c.Redis))
	r.Add(modules.NewInitModule(handlers.NewInitHandler(c.UserService), c.JWT, c.Redis))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}

// NewEngine returns the gin engine with global middleware and all routes registered.
func NewEngine(c *container.Container) *gin.Engine {
	cfg := c.Config
	r := gin.New()
	r.Use(middleware.Recovery(c.Logger))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP(cfg.Env != "development"))
	r.Use(middleware.RequestLogger(c.Logger, cfg.HTTPLogEnabled))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins())))

	reg := NewRegistry(r, "")
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// corsConfig treats an empty list or "*" as allow-all.
func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	return cc
}
