package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/middleware"
	"github.com/vendora/marketplace-api/models"
	"github.com/vendora/marketplace-api/response"
)

type AddItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// loadOrCreateCart returns the user's cart, creating it lazily.
func loadOrCreateCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GET /api/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		cart, err := loadOrCreateCart(db, user.ID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch cart")
			return
		}

		response.OK(c, "", cart)
	}
}

// POST /api/cart
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err)
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		var product models.Product
		if err := db.First(&product, req.ProductID).Error; err != nil || !product.Purchasable() {
			response.Error(c, http.StatusBadRequest, "Product not available")
			return
		}
		if !product.HasStock(req.Quantity) {
			response.Error(c, http.StatusBadRequest, "Insufficient stock")
			return
		}

		cart, err := loadOrCreateCart(db, user.ID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch cart")
			return
		}

		// One line per product: merge quantities and refresh the price
		// snapshot if the product is already in the cart.
		var item models.CartItem
		err = db.Where("cart_id = ? AND product_id = ?", cart.CartID, product.ID).First(&item).Error
		switch {
		case err == nil:
			item.Quantity += req.Quantity
			item.Price = product.Price
			item.AddedAt = time.Now()
			if !product.HasStock(item.Quantity) {
				response.Error(c, http.StatusBadRequest, "Insufficient stock")
				return
			}
			if err := db.Save(&item).Error; err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to update cart item")
				return
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{
				CartID:    cart.CartID,
				ProductID: product.ID,
				Quantity:  req.Quantity,
				Price:     product.Price,
				AddedAt:   time.Now(),
			}
			if err := db.Create(&item).Error; err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to add item to cart")
				return
			}
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to fetch cart item")
			return
		}

		db.Preload("Items").First(cart, cart.CartID)
		response.OK(c, "Product added to cart", cart)
	}
}

// PUT /api/cart/:productId
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		productID := c.Param("productId")

		var req UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err)
			return
		}

		var cart models.Cart
		if err := db.Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Cart not found")
			return
		}

		if *req.Quantity == 0 {
			result := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).Delete(&models.CartItem{})
			if result.Error != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to remove item")
				return
			}
			if result.RowsAffected == 0 {
				response.Error(c, http.StatusNotFound, "Product not in cart")
				return
			}
		} else {
			var item models.CartItem
			if err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error; err != nil {
				response.Error(c, http.StatusNotFound, "Product not in cart")
				return
			}

			var product models.Product
			if err := db.First(&product, item.ProductID).Error; err != nil {
				response.Error(c, http.StatusBadRequest, "Product not available")
				return
			}
			if !product.HasStock(*req.Quantity) {
				response.Error(c, http.StatusBadRequest, "Insufficient stock")
				return
			}

			item.Quantity = *req.Quantity
			item.AddedAt = time.Now()
			if err := db.Save(&item).Error; err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to update cart item")
				return
			}
		}

		db.Preload("Items").First(&cart, cart.CartID)
		response.OK(c, "Cart updated", cart)
	}
}

// DELETE /api/cart/:productId
func RemoveFromCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		productID := c.Param("productId")

		var cart models.Cart
		if err := db.Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Cart not found")
			return
		}

		result := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).Delete(&models.CartItem{})
		if result.Error != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to remove item")
			return
		}
		if result.RowsAffected == 0 {
			response.Error(c, http.StatusNotFound, "Product not in cart")
			return
		}

		db.Preload("Items").First(&cart, cart.CartID)
		response.OK(c, "Item removed from cart", cart)
	}
}

// DELETE /api/cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var cart models.Cart
		if err := db.Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Cart not found")
			return
		}

		// The cart row is retained; only its items are dropped.
		if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to clear cart")
			return
		}

		response.OK(c, "Cart cleared", nil)
	}
}
