package router

import "github.com/gin-gonic/gin"

// Module registers one feature's routes. Modules own their auth and rate-limit middleware.
type Module interface {
	Register(rg *gin.RouterGroup)
}
