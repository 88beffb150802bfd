package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/config"
	cartControllers "github.com/vendora/marketplace-api/controllers/cart"
	"github.com/vendora/marketplace-api/middleware"
)

func SetupCartRoutes(api *gin.RouterGroup, db *gorm.DB, cfg config.Config) {
	cart := api.Group("/cart")
	cart.Use(middleware.Authenticate(db, cfg))
	{
		cart.GET("", cartControllers.GetCart(db))
		cart.POST("", cartControllers.AddToCart(db))
		cart.PUT("/:productId", cartControllers.UpdateCartItem(db))
		cart.DELETE("/:productId", cartControllers.RemoveFromCart(db))
		cart.DELETE("", cartControllers.ClearCart(db))
	}
}
