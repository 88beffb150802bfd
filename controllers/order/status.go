package orderControllers

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

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// restoreStock puts every tracked item's quantity back, with the product rows
// locked inside the caller's transaction.
func restoreStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		var product models.Product
		err := lockForUpdate(tx).First(&product, item.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue // product deleted since purchase; nothing to restore
		}
		if err != nil {
			return err
		}
		if !product.TrackQuantity {
			continue
		}
		if err := tx.Model(&product).
			Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
			return err
		}
	}
	return nil
}

// POST /api/orders/:id/cancel
// Permitted for the owning buyer or an admin. The status check and the stock
// restoration run in one transaction with the order row locked, so a second
// cancel of the same order fails without touching stock again.
func CancelOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var req CancelOrderRequest
		_ = c.ShouldBindJSON(&req)

		var order models.Order
		if err := db.Preload("Items").First(&order, "id = ?", c.Param("id")).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Order not found")
			return
		}

		if order.BuyerID != user.ID && user.Role != models.RoleAdmin {
			response.Error(c, http.StatusForbidden, "Insufficient permissions")
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var current models.Order
			if err := lockForUpdate(tx).Preload("Items").First(&current, order.ID).Error; err != nil {
				return err
			}
			if !current.Status.Cancellable() {
				return &orderError{http.StatusBadRequest, "Order cannot be cancelled"}
			}

			now := time.Now()
			if err := tx.Model(&current).Updates(map[string]interface{}{
				"status":        models.OrderStatusCancelled,
				"cancelled_at":  &now,
				"cancel_reason": req.Reason,
			}).Error; err != nil {
				return err
			}

			return restoreStock(tx, current.Items)
		})
		if err != nil {
			var oe *orderError
			if errors.As(err, &oe) {
				response.Error(c, oe.status, oe.message)
			} else {
				response.Error(c, http.StatusInternalServerError, "Failed to cancel order")
			}
			return
		}

		db.Preload("Items").First(&order, order.ID)
		broadcastOrderEvent("order.cancelled", &order)
		response.OK(c, "Order cancelled successfully", order)
	}
}

// PUT /api/orders/:id/status (admin only)
// Transitions are restricted to the lifecycle table; skipping states or
// resurrecting a terminal order is rejected.
func UpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, err)
			return
		}

		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid order status")
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", c.Param("id")).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Order not found")
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var current models.Order
			if err := lockForUpdate(tx).Preload("Items").First(&current, order.ID).Error; err != nil {
				return err
			}

			if !current.Status.CanTransitionTo(newStatus) {
				return &orderError{http.StatusBadRequest, "Illegal status transition"}
			}

			updates := map[string]interface{}{"status": newStatus}
			now := time.Now()

			switch newStatus {
			case models.OrderStatusDelivered:
				updates["delivered_at"] = &now
				updates["payment_status"] = models.PaymentStatusPaid
			case models.OrderStatusCancelled:
				updates["cancelled_at"] = &now
			}

			if err := tx.Model(&current).Updates(updates).Error; err != nil {
				return err
			}

			if newStatus == models.OrderStatusCancelled {
				return restoreStock(tx, current.Items)
			}
			return nil
		})
		if err != nil {
			var oe *orderError
			if errors.As(err, &oe) {
				response.Error(c, oe.status, oe.message)
			} else {
				response.Error(c, http.StatusInternalServerError, "Failed to update order status")
			}
			return
		}

		db.Preload("Items").First(&order, order.ID)
		broadcastOrderEvent("order.status_changed", &order)
		response.OK(c, "Order status updated", order)
	}
}
