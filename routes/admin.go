package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/cache"
	"github.com/vendora/marketplace-api/config"
	adminControllers "github.com/vendora/marketplace-api/controllers/admin"
	orderControllers "github.com/vendora/marketplace-api/controllers/order"
	productControllers "github.com/vendora/marketplace-api/controllers/product"
	userControllers "github.com/vendora/marketplace-api/controllers/user"
	"github.com/vendora/marketplace-api/middleware"
	"github.com/vendora/marketplace-api/models"
)

// SetupAdminRoutes registers the /api/admin group, all admin-role gated.
func SetupAdminRoutes(api *gin.RouterGroup, db *gorm.DB, cfg config.Config, pc *cache.ProductCache) {
	admin := api.Group("/admin")
	admin.Use(
		middleware.Authenticate(db, cfg),
		middleware.RequireRoles(models.RoleAdmin),
	)
	{
		admin.GET("/users", userControllers.GetAllUsers(db))

		vendors := admin.Group("/vendors")
		{
			vendors.GET("/pending", adminControllers.ListPendingVendors(db))
			vendors.POST("/:id/approve", adminControllers.ApproveVendor(db))
			vendors.POST("/:id/reject", adminControllers.RejectVendor(db))
		}

		products := admin.Group("/products")
		{
			products.GET("/pending", adminControllers.ListPendingProducts(db))
			products.POST("/:id/approve", adminControllers.ApproveProduct(db, pc))
			products.POST("/:id/reject", adminControllers.RejectProduct(db, pc))
			products.GET("/export-excel", productControllers.ExportProductsToExcel(db))
			products.POST("/import-excel", productControllers.ImportProductsFromExcel(db))
		}

		categories := admin.Group("/categories")
		{
			categories.POST("", productControllers.CreateCategory(db))
			categories.PUT("/:id", productControllers.UpdateCategory(db))
			categories.DELETE("/:id", productControllers.DeleteCategory(db))
		}

		admin.GET("/orders/ws", orderControllers.OrderEventsHandler)
	}
}
