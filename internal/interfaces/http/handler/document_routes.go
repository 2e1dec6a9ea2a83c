package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rentaldocs/backend/internal/interfaces/http/router"
)

// DocumentRoutes creates the route group for quotes, invoices and purchase
// orders. exportMiddleware guards the rendering endpoints only.
func DocumentRoutes(handler *DocumentHandler, exportMiddleware ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("documents", "/documents")

	// Validation without saving
	group.POST("/validate", handler.ValidateForExport)
	group.POST("/:type/validate", handler.ValidateForSave)

	// Saved documents
	group.GET("/:type", handler.List)
	group.POST("/:type", handler.Create)
	group.GET("/:type/next-number", handler.NextNumber)
	group.GET("/:type/:id", handler.Get)
	group.PUT("/:type/:id", handler.Update)
	group.DELETE("/:type/:id", handler.Delete)
	group.POST("/:type/:id/convert", handler.Convert)
	group.POST("/:type/:id/payments", handler.RecordPayment)

	// Downloads
	group.GET("/:type/:id/export/:format", withMiddleware(exportMiddleware, handler.Export)...)
	group.POST("/:type/export/:format", withMiddleware(exportMiddleware, handler.ExportNew)...)

	return group
}

func withMiddleware(middleware []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(middleware)+1)
	chain = append(chain, middleware...)
	return append(chain, handler)
}
