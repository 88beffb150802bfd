package productControllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/config"
	"github.com/vendora/marketplace-api/middleware"
	"github.com/vendora/marketplace-api/models"
	"github.com/vendora/marketplace-api/response"
)

const maxProductImages = 10

// uniqueSlug derives a slug from the name, suffixing it when taken.
func uniqueSlug(db *gorm.DB, name string) string {
	base := slug.Make(name)
	candidate := base
	for i := 0; ; i++ {
		var existing models.Product
		err := db.Unscoped().Where("slug = ?", candidate).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%s", base, uuid.NewString()[:6])
		if i > 3 {
			return candidate
		}
	}
}

// saveImages stores the uploaded files and returns their public URLs.
func saveImages(c *gin.Context, uploadDir string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	files := form.File["images"]
	if len(files) > maxProductImages {
		return nil, fmt.Errorf("at most %d images allowed", maxProductImages)
	}

	saveDir := filepath.Join(uploadDir, "products")
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return nil, err
	}

	var urls []string
	for _, file := range files {
		ext := filepath.Ext(file.Filename)
		filename := uuid.NewString() + ext
		if err := c.SaveUploadedFile(file, filepath.Join(saveDir, filename)); err != nil {
			return nil, err
		}
		urls = append(urls, "/uploads/products/"+filename)
	}
	return urls, nil
}

// POST /api/products (vendor or admin, multipart form)
func CreateProduct(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		name := c.PostForm("name")
		description := c.PostForm("description")
		priceStr := c.PostForm("price")
		categoryIDStr := c.PostForm("category_id")
		if name == "" || priceStr == "" || categoryIDStr == "" {
			response.Error(c, http.StatusBadRequest, "name, price and category_id are required")
			return
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			response.Error(c, http.StatusBadRequest, "Invalid price")
			return
		}
		categoryID, err := strconv.ParseUint(categoryIDStr, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid category_id")
			return
		}
		var category models.Category
		if err := db.First(&category, categoryID).Error; err != nil {
			response.Error(c, http.StatusBadRequest, "Category does not exist")
			return
		}

		compareAt, _ := strconv.ParseFloat(c.PostForm("compare_at_price"), 64)
		weight, _ := strconv.ParseFloat(c.PostForm("weight"), 64)
		stock, _ := strconv.Atoi(c.PostForm("stock"))

		trackQuantity := true
		if v := c.PostForm("track_quantity"); v != "" {
			trackQuantity, _ = strconv.ParseBool(v)
		}
		allowBackorder, _ := strconv.ParseBool(c.PostForm("allow_backorder"))

		sku := strings.TrimSpace(c.PostForm("sku"))
		if sku == "" {
			sku = "SKU-" + strings.ToUpper(uuid.NewString()[:8])
		}

		images, err := saveImages(c, cfg.UploadDir)
		if err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		featured := ""
		if len(images) > 0 {
			featured = images[0]
		}

		product := models.Product{
			Name:           name,
			Slug:           uniqueSlug(db, name),
			Description:    description,
			Price:          price,
			CompareAtPrice: compareAt,
			SKU:            sku,
			Brand:          c.PostForm("brand"),
			Weight:         weight,
			Tags:           strings.ToLower(c.PostForm("tags")),
			Images:         images,
			FeaturedImage:  featured,
			TrackQuantity:  trackQuantity,
			Stock:          stock,
			AllowBackorder: allowBackorder,
			CategoryID:     uint(categoryID),
			VendorID:       user.ID,
			IsActive:       true,
			// Vendor listings wait for admin review; admin uploads go live.
			IsApproved: user.Role == models.RoleAdmin,
		}

		if err := db.Create(&product).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to create product")
			return
		}

		response.Created(c, "Product created successfully", product)
	}
}
