package routes

import (
	"example.com/furnish/services/serial/api/handlers"
	"example.com/furnish/services/serial/internal/repository"
	"example.com/furnish/services/serial/internal/serialgen"
	"example.com/furnish/services/serial/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRoutes sets up all the routes for the server
func SetupRoutes(
	r *gin.Engine,
	svc service.SerialService,
	generator *serialgen.Generator,
	store repository.SerialUnitStore,
	refs repository.ReferenceDirectory,
	log *logrus.Logger,
) {
	// Health check
	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", handlers.Metrics)

	// API routes
	api := r.Group("/api/v1")

	// Serial unit routes
	serialHandler := handlers.NewSerialHandler(svc, generator, store, log)
	serials := api.Group("/serials")
	{
		serials.POST("", serialHandler.CreateBatch)
		serials.GET("", serialHandler.ListUnits)
		serials.GET("/search", serialHandler.Search)
		serials.GET("/stats", serialHandler.GetStatistics)
		serials.GET("/export", serialHandler.ExportCSV)
		serials.POST("/generate", serialHandler.GenerateSerials)
		serials.POST("/transfer", serialHandler.Transfer)
		serials.PATCH("/bulk", serialHandler.BulkUpdate)
		serials.GET("/:id", serialHandler.GetUnit)
		serials.PATCH("/:id/status", serialHandler.UpdateStatus)
		serials.GET("/:id/history", serialHandler.GetHistory)
	}

	// Warehouse routes
	warehouseHandler := handlers.NewWarehouseHandler(refs, log)
	warehouses := api.Group("/warehouses")
	{
		warehouses.GET("", warehouseHandler.ListWarehouses)
		warehouses.GET("/:id/zones", warehouseHandler.ListZones)
	}
	api.GET("/zones/:id/shelves", warehouseHandler.ListShelves)
}
