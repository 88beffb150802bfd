package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/middleware"
	"github.com/vendora/marketplace-api/models"
	"github.com/vendora/marketplace-api/response"
)

type UpdateProfileRequest struct {
	FirstName *string         `json:"firstName"`
	LastName  *string         `json:"lastName"`
	Phone     *string         `json:"phone"`
	Avatar    *string         `json:"avatar"`
	Address   *models.Address `json:"address"`
}

// PUT /api/users/profile
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err)
			return
		}

		updates := make(map[string]interface{})
		if req.FirstName != nil {
			updates["first_name"] = *req.FirstName
		}
		if req.LastName != nil {
			updates["last_name"] = *req.LastName
		}
		if req.Phone != nil {
			updates["phone"] = *req.Phone
		}
		if req.Avatar != nil {
			updates["avatar"] = *req.Avatar
		}
		if req.Address != nil {
			updates["street"] = req.Address.Street
			updates["city"] = req.Address.City
			updates["state"] = req.Address.State
			updates["country"] = req.Address.Country
			updates["postal_code"] = req.Address.PostalCode
		}

		if len(updates) > 0 {
			if err := db.Model(user).Updates(updates).Error; err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to update profile")
				return
			}
		}

		var fresh models.User
		db.First(&fresh, user.ID)
		response.OK(c, "Profile updated", fresh)
	}
}

// GET /api/admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.User{}).Order("created_at DESC")
		if role := c.Query("role"); role != "" {
			query = query.Where("role = ?", role)
		}

		var users []models.User
		if err := query.Find(&users).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch users")
			return
		}

		response.OK(c, "", users)
	}
}
