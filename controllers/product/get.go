package productControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/cache"
	"github.com/vendora/marketplace-api/models"
	"github.com/vendora/marketplace-api/response"
)

// GET /api/products/:id
func GetProductByID(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if cached, ok := pc.Get(c.Request.Context(), cache.IDKey(parseID(id))); ok {
			response.OK(c, "", cached)
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}

		pc.Set(c.Request.Context(), &product)
		response.OK(c, "", product)
	}
}

// GET /api/products/slug/:slug
func GetProductBySlug(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		slugParam := c.Param("slug")

		if cached, ok := pc.Get(c.Request.Context(), cache.SlugKey(slugParam)); ok {
			response.OK(c, "", cached)
			return
		}

		var product models.Product
		if err := db.Where("slug = ?", slugParam).First(&product).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}

		// Views are advisory; a lost increment is acceptable.
		db.Model(&product).Update("views", gorm.Expr("views + 1"))
		product.Views++

		pc.Set(c.Request.Context(), &product)
		response.OK(c, "", product)
	}
}

func parseID(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 64)
	return uint(id)
}
