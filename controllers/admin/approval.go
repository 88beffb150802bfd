package adminControllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/cache"
	"github.com/vendora/marketplace-api/models"
	"github.com/vendora/marketplace-api/response"
)

// GET /api/admin/vendors/pending
func ListPendingVendors(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pending []models.User
		if err := db.Where("role = ? AND is_approved = ?", models.RoleVendor, false).
			Order("created_at ASC").
			Find(&pending).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch pending vendors")
			return
		}
		response.OK(c, "", pending)
	}
}

// POST /api/admin/vendors/:id/approve
// Approval is what unlocks a vendor's login.
func ApproveVendor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vendor models.User
		if err := db.Where("id = ? AND role = ?", c.Param("id"), models.RoleVendor).
			First(&vendor).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Vendor not found")
			return
		}

		if err := db.Model(&vendor).Update("is_approved", true).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to approve vendor")
			return
		}

		response.OK(c, "Vendor approved", vendor)
	}
}

// POST /api/admin/vendors/:id/reject
func RejectVendor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Where("id = ? AND role = ? AND is_approved = ?",
			c.Param("id"), models.RoleVendor, false).
			Delete(&models.User{})
		if result.Error != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to reject vendor")
			return
		}
		if result.RowsAffected == 0 {
			response.Error(c, http.StatusNotFound, "Vendor not found")
			return
		}

		response.OK(c, "Vendor rejected", nil)
	}
}

// GET /api/admin/products/pending
func ListPendingProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pending []models.Product
		if err := db.Where("is_approved = ?", false).
			Order("created_at ASC").
			Find(&pending).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch pending products")
			return
		}
		response.OK(c, "", pending)
	}
}

// POST /api/admin/products/:id/approve
func ApproveProduct(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}

		if err := db.Model(&product).Update("is_approved", true).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to approve product")
			return
		}

		pc.Invalidate(context.Background(), &product)
		response.OK(c, "Product approved", product)
	}
}

// POST /api/admin/products/:id/reject
// Rejection deactivates the listing rather than deleting it, so the vendor
// can revise and resubmit.
func RejectProduct(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}

		if err := db.Model(&product).Updates(map[string]interface{}{
			"is_approved": false,
			"is_active":   false,
		}).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to reject product")
			return
		}

		pc.Invalidate(context.Background(), &product)
		response.OK(c, "Product rejected", product)
	}
}
