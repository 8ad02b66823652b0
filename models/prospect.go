package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportedPrices holds per-duration plan prices read from an uploaded sheet
// at ingestion time, used by the individual pricing model. Keys are duration
// labels ("2YR", "3YR").
type ImportedPrices map[string]float64

// Value implements the driver.Valuer interface for ImportedPrices
func (p ImportedPrices) Value() (driver.Value, error) {
	if p == nil {
		return json.Marshal(ImportedPrices{})
	}
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface for ImportedPrices
func (p *ImportedPrices) Scan(value any) error {
	if value == nil {
		*p = ImportedPrices{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ImportedPrices", value)
	}

	return json.Unmarshal(bytes, p)
}

// Prospect is a customer record targeted for an outbound warranty-sales call.
type Prospect struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UUID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_prospects_uuid" json:"uuid"`
	SellerID uint      `gorm:"not null;index:idx_prospects_seller_id" json:"seller_id"`
	Seller   *Seller   `gorm:"foreignKey:SellerID;references:ID" json:"seller,omitempty"`

	FirstName string  `gorm:"size:255;not null" json:"first_name"`
	LastName  *string `gorm:"size:255" json:"last_name,omitempty"`
	Phone     string  `gorm:"size:20;not null;index:idx_prospects_phone" json:"phone"`
	Email     *string `gorm:"size:255" json:"email,omitempty"`

	// Purchase context for price resolution
	ProductName    *string        `gorm:"size:255" json:"product_name,omitempty"`
	PurchaseAmount float64        `gorm:"type:numeric(12,2);not null;default:0" json:"purchase_amount"`
	PurchasedAt    *time.Time     `json:"purchased_at,omitempty"`
	ImportedPrices ImportedPrices `gorm:"type:jsonb;default:'{}'" json:"imported_prices"`

	DoNotCall *bool `gorm:"default:false;index:idx_prospects_do_not_call" json:"do_not_call"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_prospects_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Prospect) TableName() string {
	return "prospects"
}

// BeforeCreate is called before creating a new record
func (p *Prospect) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// FullName joins the prospect's name parts for script substitution.
func (p *Prospect) FullName() string {
	if p.LastName == nil || *p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + *p.LastName
}

// ProspectFilter represents filter criteria for prospect queries
type ProspectFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	SellerID      *uint
	Phone         *string
	DoNotCall     *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         *int
	Offset        *int
}
