package productControllers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/middleware"
	"github.com/vendora/marketplace-api/models"
	"github.com/vendora/marketplace-api/response"
)

var sortColumns = map[string]bool{
	"created_at": true,
	"price":      true,
	"name":       true,
	"views":      true,
}

// GET /api/products
// Public catalog listing. Only active, approved products are visible here;
// vendors see their full inventory via GET /api/vendor/products.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 12
		}

		sortBy := c.DefaultQuery("sort_by", "created_at")
		if !sortColumns[sortBy] {
			sortBy = "created_at"
		}
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}

		query := db.Model(&models.Product{}).
			Where("is_active = ? AND is_approved = ?", true, true)

		if search := c.Query("search"); search != "" {
			likePattern := "%" + search + "%"
			query = query.Where(
				"name ILIKE ? OR description ILIKE ? OR tags ILIKE ?",
				likePattern, likePattern, likePattern,
			)
		}
		if categoryID := c.Query("category_id"); categoryID != "" {
			if cid, err := strconv.ParseUint(categoryID, 10, 64); err == nil {
				query = query.Where("category_id = ?", cid)
			} else {
				response.Error(c, http.StatusBadRequest, "Invalid category_id")
				return
			}
		}
		if vendorID := c.Query("vendor_id"); vendorID != "" {
			if vid, err := strconv.ParseUint(vendorID, 10, 64); err == nil {
				query = query.Where("vendor_id = ?", vid)
			}
		}
		if minPrice := c.Query("min_price"); minPrice != "" {
			if mp, err := strconv.ParseFloat(minPrice, 64); err == nil {
				query = query.Where("price >= ?", mp)
			} else {
				response.Error(c, http.StatusBadRequest, "Invalid min_price")
				return
			}
		}
		if maxPrice := c.Query("max_price"); maxPrice != "" {
			if mp, err := strconv.ParseFloat(maxPrice, 64); err == nil {
				query = query.Where("price <= ?", mp)
			} else {
				response.Error(c, http.StatusBadRequest, "Invalid max_price")
				return
			}
		}

		var totalItems int64
		if err := query.Count(&totalItems).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch products")
			return
		}

		var products []models.Product
		if err := query.
			Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
			Limit(limit).
			Offset((page - 1) * limit).
			Find(&products).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch products")
			return
		}

		response.OK(c, "", gin.H{
			"products": products,
			"pagination": gin.H{
				"currentPage":  page,
				"totalPages":   int(math.Ceil(float64(totalItems) / float64(limit))),
				"totalItems":   totalItems,
				"itemsPerPage": limit,
			},
		})
	}
}

// GET /api/vendor/products
// The owning vendor's inventory, including unapproved and inactive listings.
func GetVendorProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var products []models.Product
		if err := db.Where("vendor_id = ?", user.ID).
			Order("created_at DESC").
			Find(&products).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch products")
			return
		}

		response.OK(c, "", products)
	}
}
