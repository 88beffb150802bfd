package productControllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/cache"
	"github.com/vendora/marketplace-api/middleware"
	"github.com/vendora/marketplace-api/models"
	"github.com/vendora/marketplace-api/response"
)

// DELETE /api/products/:id (owning vendor or admin, soft delete)
// Existing order snapshots are unaffected.
func DeleteProduct(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}

		if user.Role != models.RoleAdmin && product.VendorID != user.ID {
			response.Error(c, http.StatusForbidden, "Insufficient permissions")
			return
		}

		if err := db.Delete(&product).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to delete product")
			return
		}

		pc.Invalidate(context.Background(), &product)
		response.OK(c, "Product deleted successfully", nil)
	}
}
