package authControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/auth"
	"github.com/vendora/marketplace-api/config"
	"github.com/vendora/marketplace-api/middleware"
	"github.com/vendora/marketplace-api/models"
	"github.com/vendora/marketplace-api/response"
)

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
	Role      string `json:"role" binding:"omitempty,oneof=buyer vendor"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// issueTokens generates a fresh access/refresh pair and overwrites the stored
// refresh token, revoking any previously issued one.
func issueTokens(db *gorm.DB, cfg config.Config, user *models.User) (auth.TokenPair, error) {
	accessToken, err := auth.GenerateAccessToken(user, cfg.JWTSecret, cfg.AccessTTL)
	if err != nil {
		return auth.TokenPair{}, err
	}
	refreshToken, err := auth.GenerateRefreshToken(user.ID, cfg.JWTRefreshSecret, cfg.RefreshTTL)
	if err != nil {
		return auth.TokenPair{}, err
	}

	if err := db.Model(user).Update("refresh_token", refreshToken).Error; err != nil {
		return auth.TokenPair{}, err
	}

	return auth.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// POST /api/auth/register
func Register(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err)
			return
		}

		var existing models.User
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			response.Error(c, http.StatusBadRequest, "User already exists")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusInternalServerError, "Failed to check existing user")
			return
		}

		role := models.Role(req.Role)
		if role == "" {
			role = models.RoleBuyer
		}

		user := models.User{
			Email:      req.Email,
			Role:       role,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Phone:      req.Phone,
			IsApproved: role == models.RoleBuyer, // vendors wait for admin approval
			Cart:       models.Cart{},
		}
		if err := user.SetPassword(req.Password); err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		if err := db.Create(&user).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to create user")
			return
		}

		tokens, err := issueTokens(db, cfg, &user)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to issue tokens")
			return
		}

		response.Created(c, "User registered successfully", gin.H{
			"user":   user,
			"tokens": tokens,
		})
	}
}

// POST /api/auth/login
func Login(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err)
			return
		}

		// Same message for unknown email and bad password, so accounts
		// cannot be enumerated.
		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if !user.CheckPassword(req.Password) {
			response.Error(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		if user.Role == models.RoleVendor && !user.IsApproved {
			response.Error(c, http.StatusForbidden, "Your vendor account is pending approval")
			return
		}

		tokens, err := issueTokens(db, cfg, &user)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to issue tokens")
			return
		}

		response.OK(c, "Login successful", gin.H{
			"user":   user,
			"tokens": tokens,
		})
	}
}

// POST /api/auth/refresh
func Refresh(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
			response.Error(c, http.StatusBadRequest, "Refresh token required")
			return
		}

		claims, err := auth.ParseRefreshToken(req.RefreshToken, cfg.JWTRefreshSecret)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid refresh token")
			return
		}

		// The presented token must be the one currently stored on the
		// account. Anything older has been rotated away and is rejected.
		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil || user.RefreshToken != req.RefreshToken {
			response.Error(c, http.StatusUnauthorized, "Invalid refresh token")
			return
		}

		tokens, err := issueTokens(db, cfg, &user)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to issue tokens")
			return
		}

		response.OK(c, "", tokens)
	}
}

// POST /api/auth/logout
func Logout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		if err := db.Model(user).Update("refresh_token", "").Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to log out")
			return
		}

		response.OK(c, "Logged out successfully", nil)
	}
}

// GET /api/auth/profile
func Profile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var fresh models.User
		if err := db.First(&fresh, user.ID).Error; err != nil {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}

		response.OK(c, "", fresh)
	}
}
