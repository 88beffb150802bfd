package productControllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/cache"
	"github.com/vendora/marketplace-api/config"
	"github.com/vendora/marketplace-api/middleware"
	"github.com/vendora/marketplace-api/models"
	"github.com/vendora/marketplace-api/response"
)

// PUT /api/products/:id (owning vendor or admin, multipart form)
// A vendor changing name, description or price sends the product back to
// review: is_approved resets to false.
func UpdateProduct(db *gorm.DB, cfg config.Config, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid product ID")
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}

		if user.Role != models.RoleAdmin && product.VendorID != user.ID {
			response.Error(c, http.StatusForbidden, "Insufficient permissions")
			return
		}

		parseFloat := func(val string) *float64 {
			if val == "" {
				return nil
			}
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				return &f
			}
			return nil
		}
		parseInt := func(val string) *int {
			if val == "" {
				return nil
			}
			if i, err := strconv.Atoi(val); err == nil {
				return &i
			}
			return nil
		}

		reviewReset := false

		if v := c.PostForm("name"); v != "" && v != product.Name {
			product.Name = v
			product.Slug = uniqueSlug(db, v)
			reviewReset = true
		}
		if v := c.PostForm("description"); v != "" && v != product.Description {
			product.Description = v
			reviewReset = true
		}
		if v := parseFloat(c.PostForm("price")); v != nil && *v != product.Price {
			product.Price = *v
			reviewReset = true
		}
		if v := parseFloat(c.PostForm("compare_at_price")); v != nil {
			product.CompareAtPrice = *v
		}
		if v := parseFloat(c.PostForm("weight")); v != nil {
			product.Weight = *v
		}
		if v := parseInt(c.PostForm("stock")); v != nil {
			product.Stock = *v
		}
		if v := c.PostForm("brand"); v != "" {
			product.Brand = v
		}
		if v := c.PostForm("tags"); v != "" {
			product.Tags = strings.ToLower(v)
		}
		if v := c.PostForm("track_quantity"); v != "" {
			b, _ := strconv.ParseBool(v)
			product.TrackQuantity = b
		}
		if v := c.PostForm("allow_backorder"); v != "" {
			b, _ := strconv.ParseBool(v)
			product.AllowBackorder = b
		}
		if v := c.PostForm("is_active"); v != "" {
			b, _ := strconv.ParseBool(v)
			product.IsActive = b
		}
		if v := c.PostForm("category_id"); v != "" {
			if cid, err := strconv.ParseUint(v, 10, 64); err == nil {
				var category models.Category
				if err := db.First(&category, cid).Error; err != nil {
					response.Error(c, http.StatusBadRequest, "Category does not exist")
					return
				}
				product.CategoryID = uint(cid)
			}
		}

		if images, err := saveImages(c, cfg.UploadDir); err == nil && len(images) > 0 {
			product.Images = images
			product.FeaturedImage = images[0]
		}

		if reviewReset && user.Role != models.RoleAdmin {
			product.IsApproved = false
		}

		if err := db.Save(&product).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to update product")
			return
		}

		pc.Invalidate(context.Background(), &product)
		response.OK(c, "Product updated successfully", product)
	}
}
