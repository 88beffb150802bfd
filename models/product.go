package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID             uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string   `gorm:"not null" json:"name"`
	Slug           string   `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string   `json:"description"`
	Price          float64  `gorm:"not null" json:"price"`
	CompareAtPrice float64  `json:"compare_at_price"`
	SKU            string   `gorm:"uniqueIndex;not null" json:"sku"`
	Brand          string   `json:"brand"`
	Weight         float64  `json:"weight"`
	Tags           string   `json:"tags"`
	Images         []string `gorm:"serializer:json" json:"images"`
	FeaturedImage  string   `json:"featured_image"`

	// Stock is authoritative only when TrackQuantity is set. AllowBackorder
	// permits selling below zero tracked stock.
	TrackQuantity  bool `gorm:"default:true" json:"track_quantity"`
	Stock          int  `json:"stock"`
	AllowBackorder bool `json:"allow_backorder"`

	CategoryID uint     `gorm:"index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"-"`
	VendorID   uint     `gorm:"index" json:"vendor_id"`
	Vendor     User     `gorm:"foreignKey:VendorID" json:"-"`

	IsActive   bool `gorm:"default:true" json:"is_active"`
	IsApproved bool `json:"is_approved"`
	Views      int  `json:"views"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Purchasable reports whether the product may appear in carts and orders.
func (p *Product) Purchasable() bool {
	return p.IsActive && p.IsApproved
}

// HasStock reports whether qty units can be sold right now.
func (p *Product) HasStock(qty int) bool {
	if !p.TrackQuantity || p.AllowBackorder {
		return true
	}
	return p.Stock >= qty
}
