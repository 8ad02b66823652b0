package models

import (
	"time"

	"github.com/copromote/henry-help/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BundleStatus represents the proposal state of a promotional bundle
type BundleStatus string

const (
	BundleStatusProposed  BundleStatus = "proposed"
	BundleStatusAccepted  BundleStatus = "accepted"
	BundleStatusDeclined  BundleStatus = "declined"
	BundleStatusPublished BundleStatus = "published"
)

// Valid checks if the status is valid
func (s BundleStatus) Valid() bool {
	switch s {
	case BundleStatusProposed, BundleStatusAccepted, BundleStatusDeclined, BundleStatusPublished:
		return true
	default:
		return false
	}
}

// Bundle is a cross-catalog promotional bundle proposed between sellers.
// The proposing seller picks products from its own catalog and a partner's;
// the partner accepts or declines.
type Bundle struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	UUID            uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uk_bundles_uuid" json:"uuid"`
	SellerID        uint         `gorm:"not null;index:idx_bundles_seller_id" json:"seller_id"`
	Seller          *Seller      `gorm:"foreignKey:SellerID;references:ID" json:"seller,omitempty"`
	PartnerSellerID *uint        `gorm:"index:idx_bundles_partner_seller_id" json:"partner_seller_id,omitempty"`
	PartnerSeller   *Seller      `gorm:"foreignKey:PartnerSellerID;references:ID" json:"partner_seller,omitempty"`
	Status          BundleStatus `gorm:"size:20;not null;default:'proposed';index:idx_bundles_status" json:"status"`

	Title           string   `gorm:"size:255;not null" json:"title"`
	Description     *string  `gorm:"type:text" json:"description,omitempty"`
	DiscountPercent *float64 `gorm:"type:numeric(5,2)" json:"discount_percent,omitempty"`

	Items []BundleItem `gorm:"foreignKey:BundleID" json:"items,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_bundles_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (Bundle) TableName() string {
	return "bundles"
}

// BeforeCreate is called before creating a new record
func (b *Bundle) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == uuid.Nil {
		b.UUID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BundleStatusProposed
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BundleItem ties one product into a bundle.
type BundleItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	BundleID  uint     `gorm:"not null;index:idx_bundle_items_bundle_id" json:"bundle_id"`
	ProductID uint     `gorm:"not null;index:idx_bundle_items_product_id" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
	Position  int      `gorm:"not null;default:0" json:"position"`
}

func (BundleItem) TableName() string {
	return "bundle_items"
}

// BundleFilter represents filter criteria for bundle queries
type BundleFilter struct {
	ID              *uint
	UUID            *uuid.UUID
	SellerID        *uint
	PartnerSellerID *uint
	Status          *BundleStatus
	Limit           *int
	Offset          *int
}
