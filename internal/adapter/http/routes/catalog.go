package routes

import (
	"garage_billing/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathParts    = "/parts"
	PathServices = "/services"
)

func addCatalogRoutes(rg *gin.RouterGroup, partHandler *handlers.PartHandler, serviceHandler *handlers.ServiceCatalogHandler) {
	parts := rg.Group(PathParts)
	{
		parts.POST("", partHandler.CreatePart)
		parts.GET("", partHandler.ListParts)
		parts.GET("/:id", partHandler.GetPart)
		parts.PUT("/:id", partHandler.UpdatePart)
		parts.PATCH("/:id/stock", partHandler.UpdateStock)
		parts.DELETE("/:id", partHandler.DeletePart)
	}

	services := rg.Group(PathServices)
	{
		services.POST("", serviceHandler.CreateService)
		services.GET("", serviceHandler.ListServices)
		services.GET("/:id", serviceHandler.GetService)
		services.PUT("/:id", serviceHandler.UpdateService)
		services.DELETE("/:id", serviceHandler.DeleteService)
	}
}
