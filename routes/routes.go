package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/cache"
	"github.com/vendora/marketplace-api/config"
)

// SetupRoutes wires every route group under /api.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, pc *cache.ProductCache) {
	api := r.Group("/api")

	SetupAuthRoutes(api, db, cfg)
	SetupCatalogRoutes(api, db, cfg, pc)
	SetupCartRoutes(api, db, cfg)
	SetupOrderRoutes(api, db, cfg)
	SetupAdminRoutes(api, db, cfg, pc)
}
