package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	handlers "github.com/oksasatya/go-ddd-user-terms/internal/interface/http"
	"github.com/oksasatya/go-ddd-user-terms/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-user-terms/pkg/helpers"
)

// UserModule wires the user routes.
// Public: POST /users, POST /users/login
// Protected: GET /users, GET /users/search, PATCH /users/:email
// Admin: DELETE /users
type UserModule struct {
	Handler    *handlers.UserHandler
	JWT        *helpers.JWTManager
	RDB        *redis.Client
	LoginLimit int
	Logger     logrus.FieldLogger
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, rdb *redis.Client, loginLimit int, logger logrus.FieldLogger) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, RDB: rdb, LoginLimit: loginLimit, Logger: logger}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(m.RDB, m.LoginLimit, time.Minute, middleware.KeyByIPAndPath(),
		middleware.WithLimitMessage("Too many login attempts, please try again later."),
		middleware.WithLimitLogger(m.Logger),
	)
	rg.POST("/users", m.Handler.Create)
	rg.POST("/users/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/users")
	auth.Use(middleware.BearerAuth(m.JWT))
	{
		auth.GET("", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.PATCH("/:email", m.Handler.Update)
		auth.DELETE("", middleware.RequireRole(entity.RoleAdmin), m.Handler.Delete)
	}
}
