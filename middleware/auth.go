package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/auth"
	"github.com/vendora/marketplace-api/config"
	"github.com/vendora/marketplace-api/models"
	"github.com/vendora/marketplace-api/response"
)

const userKey = "current_user"

// Authenticate validates the bearer access token and loads the account it
// references. The request is rejected if the account no longer exists.
func Authenticate(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			response.Error(c, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := auth.ParseAccessToken(tokenString, cfg.JWTSecret)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			response.Error(c, http.StatusUnauthorized, "User not found")
			return
		}

		c.Set(userKey, &user)
		c.Next()
	}
}

// RequireRoles rejects authenticated users whose role is not in the allowed set.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Error(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// CurrentUser returns the account attached by Authenticate, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SetCurrentUser attaches an account to the context. Used by tests to bypass
// token verification.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
}
