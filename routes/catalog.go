package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/cache"
	"github.com/vendora/marketplace-api/config"
	productControllers "github.com/vendora/marketplace-api/controllers/product"
	"github.com/vendora/marketplace-api/middleware"
	"github.com/vendora/marketplace-api/models"
)

func SetupCatalogRoutes(api *gin.RouterGroup, db *gorm.DB, cfg config.Config, pc *cache.ProductCache) {
	products := api.Group("/products")
	{
		products.GET("", productControllers.GetProducts(db))
		products.GET("/:id", productControllers.GetProductByID(db, pc))
		products.GET("/slug/:slug", productControllers.GetProductBySlug(db, pc))

		protected := products.Group("")
		protected.Use(
			middleware.Authenticate(db, cfg),
			middleware.RequireRoles(models.RoleVendor, models.RoleAdmin),
		)
		{
			protected.POST("", productControllers.CreateProduct(db, cfg))
			protected.PUT("/:id", productControllers.UpdateProduct(db, cfg, pc))
			protected.DELETE("/:id", productControllers.DeleteProduct(db, pc))
		}
	}

	categories := api.Group("/categories")
	{
		categories.GET("", productControllers.GetAllCategories(db))
		categories.GET("/:slug", productControllers.GetCategoryBySlug(db))
	}

	vendor := api.Group("/vendor")
	vendor.Use(
		middleware.Authenticate(db, cfg),
		middleware.RequireRoles(models.RoleVendor, models.RoleAdmin),
	)
	{
		vendor.GET("/products", productControllers.GetVendorProducts(db))
	}
}
