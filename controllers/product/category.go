package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/models"
	"github.com/vendora/marketplace-api/response"
)

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ParentID    *uint  `json:"parent_id"`
	IsActive    *bool  `json:"is_active"`
}

// GET /api/categories
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch categories")
			return
		}
		response.OK(c, "", categories)
	}
}

// GET /api/categories/:slug
func GetCategoryBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Category not found")
			return
		}
		response.OK(c, "", category)
	}
}

// POST /api/admin/categories
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err)
			return
		}

		category := models.Category{
			Name:        req.Name,
			Slug:        slug.Make(req.Name),
			Description: req.Description,
			Image:       req.Image,
			ParentID:    req.ParentID,
			IsActive:    true,
		}
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}

		if err := db.Create(&category).Error; err != nil {
			response.Error(c, http.StatusBadRequest, "Category already exists")
			return
		}

		response.Created(c, "Category created successfully", category)
	}
}

// PUT /api/admin/categories/:id
func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Category not found")
			return
		}

		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err)
			return
		}

		category.Name = req.Name
		category.Slug = slug.Make(req.Name)
		category.Description = req.Description
		if req.Image != "" {
			category.Image = req.Image
		}
		category.ParentID = req.ParentID
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}

		if err := db.Save(&category).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to update category")
			return
		}

		response.OK(c, "Category updated successfully", category)
	}
}

// DELETE /api/admin/categories/:id
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var count int64
		if err := db.Model(&models.Product{}).Where("category_id = ?", c.Param("id")).Count(&count).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to delete category")
			return
		}
		if count > 0 {
			response.Error(c, http.StatusBadRequest, "Category has products and cannot be deleted")
			return
		}

		result := db.Delete(&models.Category{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to delete category")
			return
		}
		if result.RowsAffected == 0 {
			response.Error(c, http.StatusNotFound, "Category not found")
			return
		}

		response.OK(c, "Category deleted successfully", nil)
	}
}
