package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/config"
	authControllers "github.com/vendora/marketplace-api/controllers/auth"
	userControllers "github.com/vendora/marketplace-api/controllers/user"
	"github.com/vendora/marketplace-api/middleware"
)

func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB, cfg config.Config) {
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(rate.Limit(5), 10))
	{
		authGroup.POST("/register", authControllers.Register(db, cfg))
		authGroup.POST("/login", authControllers.Login(db, cfg))
		authGroup.POST("/refresh", authControllers.Refresh(db, cfg))

		authed := authGroup.Group("")
		authed.Use(middleware.Authenticate(db, cfg))
		{
			authed.POST("/logout", authControllers.Logout(db))
			authed.GET("/profile", authControllers.Profile(db))
		}
	}

	users := api.Group("/users")
	users.Use(middleware.Authenticate(db, cfg))
	{
		users.PUT("/profile", userControllers.UpdateProfile(db))
	}
}
