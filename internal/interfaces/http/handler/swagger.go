package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rentaldocs/backend/internal/interfaces/http/router"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rentaldocs/backend/docs"
)

// SwaggerRoutes serves the API documentation UI under /swagger
func SwaggerRoutes(protect ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("swagger", "/swagger")
	group.Use(protect...)
	group.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return group
}
