package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-user-terms/internal/interface/http"
	"github.com/oksasatya/go-ddd-user-terms/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-user-terms/pkg/helpers"
)

type TermsModule struct {
	Handler *handlers.TermsHandler
	JWT     *helpers.JWTManager
}

func NewTermsModule(h *handlers.TermsHandler, jwt *helpers.JWTManager) *TermsModule {
	return &TermsModule{Handler: h, JWT: jwt}
}

func (m *TermsModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/terms")
	auth.Use(middleware.BearerAuth(m.JWT))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("", m.Handler.List)
	}
}
