// Package models contains domain entities and business models for the warranty-campaign platform
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seller is a tenant: one company selling protection plans through the platform.
type Seller struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_sellers_uuid;index:idx_sellers_uuid" json:"uuid"`

	// Company/branding fields
	CompanyName    string  `gorm:"size:120;not null" json:"company_name"`
	BrandVoiceName *string `gorm:"size:60" json:"brand_voice_name,omitempty"` // name the voice agent introduces itself as
	WebsiteURL     *string `gorm:"size:255" json:"website_url,omitempty"`
	LogoURL        *string `gorm:"size:512" json:"logo_url,omitempty"`

	// Contact
	ContactFirstName string `gorm:"size:255;not null" json:"contact_first_name"`
	ContactLastName  string `gorm:"size:255;not null" json:"contact_last_name"`
	ContactPhone     string `gorm:"size:20;not null" json:"contact_phone"`
	Email            string `gorm:"size:255;not null;uniqueIndex:idx_sellers_email" json:"email"`
	PasswordHash     string `gorm:"size:255;not null" json:"-"` // Never serialize password hash

	// Status
	IsActive *bool `gorm:"default:true;index:idx_sellers_is_active" json:"is_active"`

	// Timestamps
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_sellers_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_sellers_last_login_at" json:"last_login_at,omitempty"`

	// Relations
	Sessions  []SellerSession `gorm:"foreignKey:SellerID" json:"-"`
	AuditLogs []AuditLog      `gorm:"foreignKey:SellerID" json:"-"`
	Campaigns []Campaign      `gorm:"foreignKey:SellerID" json:"-"`
	Products  []Product       `gorm:"foreignKey:SellerID" json:"-"`
}

func (Seller) TableName() string {
	return "sellers"
}

// SetPassword hashes and stores the given password.
func (s *Seller) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a plaintext password against the stored hash.
func (s *Seller) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(plain)) == nil
}

// SellerFilter represents filter criteria for seller queries
type SellerFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Email         *string
	CompanyName   *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
