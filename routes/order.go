package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/config"
	orderControllers "github.com/vendora/marketplace-api/controllers/order"
	"github.com/vendora/marketplace-api/middleware"
	"github.com/vendora/marketplace-api/models"
)

func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB, cfg config.Config) {
	orders := api.Group("/orders")
	orders.Use(middleware.Authenticate(db, cfg))
	{
		orders.POST("", orderControllers.PlaceOrder(db))
		orders.GET("", orderControllers.GetOrders(db))
		orders.GET("/:id", orderControllers.GetOrderByID(db))
		orders.POST("/:id/cancel", orderControllers.CancelOrder(db))
		orders.PUT("/:id/status",
			middleware.RequireRoles(models.RoleAdmin),
			orderControllers.UpdateOrderStatus(db),
		)
	}
}
