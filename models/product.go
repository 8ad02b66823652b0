package models

import (
	"time"

	"github.com/google/uuid"
)

// CatalogPlatform identifies the e-commerce platform a product was synced from
type CatalogPlatform string

const (
	PlatformShopify     CatalogPlatform = "shopify"
	PlatformWooCommerce CatalogPlatform = "woocommerce"
)

// Product is one synced catalog row. Rows are upserted by (seller, platform,
// external id) so a re-sync never duplicates and never loses rows on failure.
type Product struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UUID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_products_uuid" json:"uuid"`
	SellerID uint      `gorm:"not null;index:idx_products_seller_id;uniqueIndex:uk_products_external,priority:1" json:"seller_id"`
	Seller   *Seller   `gorm:"foreignKey:SellerID;references:ID" json:"seller,omitempty"`

	Platform   CatalogPlatform `gorm:"size:20;not null;uniqueIndex:uk_products_external,priority:2" json:"platform"`
	ExternalID string          `gorm:"size:64;not null;uniqueIndex:uk_products_external,priority:3" json:"external_id"`
	StoreURL   string          `gorm:"size:255;not null" json:"store_url"`

	Title    string  `gorm:"size:255;not null" json:"title"`
	Price    float64 `gorm:"type:numeric(12,2);not null" json:"price"`
	Currency string  `gorm:"size:3;not null;default:'USD'" json:"currency"`
	ImageURL *string `gorm:"size:512" json:"image_url,omitempty"`
	Vendor   *string `gorm:"size:120" json:"vendor,omitempty"`

	SyncedAt  time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_products_synced_at" json:"synced_at"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// ProductFilter represents filter criteria for product queries
type ProductFilter struct {
	ID         *uint
	UUID       *uuid.UUID
	SellerID   *uint
	Platform   *CatalogPlatform
	ExternalID *string
	Title      *string
	Limit      *int
	Offset     *int
}
