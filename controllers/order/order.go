package orderControllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vendora/marketplace-api/middleware"
	"github.com/vendora/marketplace-api/models"
	"github.com/vendora/marketplace-api/response"
)

const (
	taxRate               = 0.10
	freeShippingThreshold = 50.0
	flatShippingFee       = 10.0
)

type PlaceOrderRequest struct {
	ShippingAddress models.Address  `json:"shippingAddress" binding:"required"`
	BillingAddress  *models.Address `json:"billingAddress"`
	PaymentMethod   string          `json:"paymentMethod" binding:"required,oneof=card paypal cod"`
	Notes           string          `json:"notes"`
}

var errCartEmpty = errors.New("cart is empty")

type orderError struct {
	status  int
	message string
}

func (e *orderError) Error() string { return e.message }

// generateOrderNumber builds a human-readable, collision-resistant label.
// A timestamp keeps it monotonically informative; the uuid suffix makes it
// unique without a counter query.
func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// lockForUpdate takes a row lock on backends that support it. SQLite (used in
// tests) serializes writers on its own and rejects FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// placeOrder converts the buyer's cart into an order. The whole sequence —
// stock checks, stock decrements, order insert, cart drain — runs in one
// transaction with the product rows locked, so concurrent checkouts cannot
// oversell and a failure on any line item rolls back every decrement.
func placeOrder(db *gorm.DB, buyer *models.User, req PlaceOrderRequest) (*models.Order, error) {
	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", buyer.ID).First(&cart).Error; err != nil {
		return nil, errCartEmpty
	}
	if len(cart.Items) == 0 {
		return nil, errCartEmpty
	}

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		var orderItems []models.OrderItem

		for _, item := range cart.Items {
			// Re-fetch under lock; the cart's snapshot may be stale.
			var product models.Product
			if err := lockForUpdate(tx).First(&product, item.ProductID).Error; err != nil {
				return &orderError{http.StatusBadRequest, fmt.Sprintf("Product %d is not available", item.ProductID)}
			}

			if !product.Purchasable() {
				return &orderError{http.StatusBadRequest, fmt.Sprintf("Product %s is not available", product.Name)}
			}
			if !product.HasStock(item.Quantity) {
				return &orderError{http.StatusBadRequest, fmt.Sprintf("Insufficient stock for %s", product.Name)}
			}

			image := product.FeaturedImage
			if image == "" && len(product.Images) > 0 {
				image = product.Images[0]
			}

			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				VendorID:  product.VendorID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  item.Quantity,
				Image:     image,
			})
			subtotal += product.Price * float64(item.Quantity)

			if product.TrackQuantity {
				if err := tx.Model(&product).
					Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
					return err
				}
			}
		}

		tax := roundMoney(subtotal * taxRate)
		shipping := flatShippingFee
		if subtotal > freeShippingThreshold {
			shipping = 0
		}

		order = models.Order{
			OrderNumber:     generateOrderNumber(),
			BuyerID:         buyer.ID,
			Items:           orderItems,
			Subtotal:        subtotal,
			Tax:             tax,
			Shipping:        shipping,
			TotalAmount:     roundMoney(subtotal + tax + shipping),
			Status:          models.OrderStatusPending,
			PaymentMethod:   req.PaymentMethod,
			PaymentStatus:   models.PaymentStatusPending,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  billing,
			Notes:           req.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Drain the cart but keep the cart row.
		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// POST /api/orders
func PlaceOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err)
			return
		}

		order, err := placeOrder(db, user, req)
		if err != nil {
			var oe *orderError
			switch {
			case errors.Is(err, errCartEmpty):
				response.Error(c, http.StatusBadRequest, "Cart is empty")
			case errors.As(err, &oe):
				response.Error(c, oe.status, oe.message)
			default:
				response.Error(c, http.StatusInternalServerError, "Failed to create order")
			}
			return
		}

		broadcastOrderEvent("order.created", order)
		response.Created(c, "Order created successfully", order)
	}
}

// GET /api/orders
// Buyers see their own orders, vendors see orders containing their products,
// admins see everything.
func GetOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 10
		}

		query := db.Model(&models.Order{})
		switch user.Role {
		case models.RoleBuyer:
			query = query.Where("buyer_id = ?", user.ID)
		case models.RoleVendor:
			query = query.Where("id IN (?)",
				db.Model(&models.OrderItem{}).Select("order_id").Where("vendor_id = ?", user.ID))
		}

		if status := c.Query("status"); status != "" {
			parsed, err := models.ParseOrderStatus(status)
			if err != nil {
				response.Error(c, http.StatusBadRequest, "Invalid order status")
				return
			}
			query = query.Where("status = ?", parsed)
		}

		var totalItems int64
		if err := query.Count(&totalItems).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch orders")
			return
		}

		var orders []models.Order
		if err := query.
			Preload("Items").
			Order("created_at DESC").
			Limit(limit).
			Offset((page - 1) * limit).
			Find(&orders).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch orders")
			return
		}

		response.OK(c, "", gin.H{
			"orders": orders,
			"pagination": gin.H{
				"currentPage":  page,
				"totalPages":   int(math.Ceil(float64(totalItems) / float64(limit))),
				"totalItems":   totalItems,
				"itemsPerPage": limit,
			},
		})
	}
}

// GET /api/orders/:id
func GetOrderByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var order models.Order
		if err := db.Preload("Items").First(&order, "id = ?", c.Param("id")).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Order not found")
			return
		}

		switch user.Role {
		case models.RoleBuyer:
			if order.BuyerID != user.ID {
				response.Error(c, http.StatusForbidden, "Insufficient permissions")
				return
			}
		case models.RoleVendor:
			hasItem := false
			for _, item := range order.Items {
				if item.VendorID == user.ID {
					hasItem = true
					break
				}
			}
			if !hasItem {
				response.Error(c, http.StatusForbidden, "Insufficient permissions")
				return
			}
		}

		response.OK(c, "", order)
	}
}
