package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/copromote/henry-help/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignStatus represents the lifecycle state of a calling campaign
type CampaignStatus string

const (
	CampaignStatusDraft    CampaignStatus = "draft"
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusPaused   CampaignStatus = "paused"
	CampaignStatusArchived CampaignStatus = "archived"
)

// String returns the string representation of the status
func (s CampaignStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused, CampaignStatusArchived:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CampaignStatus
func (s *CampaignStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = CampaignStatus(v)
	case []byte:
		*s = CampaignStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CampaignStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CampaignStatus
func (s CampaignStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CampaignStatus: %s", s)
	}
	return string(s), nil
}

// Campaign is a seller's outbound warranty-calling campaign. Pricing lives on
// the seller's ProgramProfile; the campaign carries the script template and
// voice settings.
type Campaign struct {
	ID       uint           `gorm:"primaryKey" json:"id"`
	UUID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	SellerID uint           `gorm:"not null;index:idx_campaigns_seller_id" json:"seller_id"`
	Seller   *Seller        `gorm:"foreignKey:SellerID;references:ID" json:"seller,omitempty"`
	Status   CampaignStatus `gorm:"type:varchar(20);not null;default:'draft';index:idx_campaigns_status" json:"status"`

	Title          string  `gorm:"size:255;not null" json:"title"`
	ScriptTemplate *string `gorm:"type:text" json:"script_template,omitempty"`
	VoiceID        *string `gorm:"size:60" json:"voice_id,omitempty"`
	CallbackURL    *string `gorm:"size:512" json:"callback_url,omitempty"`

	// Calling window in the prospect's local time, 24h clock
	CallWindowStart *int `json:"call_window_start,omitempty"`
	CallWindowEnd   *int `json:"call_window_end,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"index:idx_campaigns_updated_at" json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CampaignStatusDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Campaign) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// IsEditable checks if the campaign configuration can still be edited
func (c *Campaign) IsEditable() bool {
	return c.Status != CampaignStatusArchived
}

// CanDispatch checks if calls may be placed for this campaign
func (c *Campaign) CanDispatch() bool {
	return c.Status == CampaignStatusActive
}

// CanTransitionTo checks if the campaign can transition to the given status
func (c *Campaign) CanTransitionTo(newStatus CampaignStatus) bool {
	switch c.Status {
	case CampaignStatusDraft:
		return newStatus == CampaignStatusActive || newStatus == CampaignStatusArchived
	case CampaignStatusActive:
		return newStatus == CampaignStatusPaused || newStatus == CampaignStatusArchived
	case CampaignStatusPaused:
		return newStatus == CampaignStatusActive || newStatus == CampaignStatusArchived
	default:
		return false
	}
}

// CampaignFilter represents filter criteria for campaign queries
type CampaignFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	SellerID      *uint
	Status        *CampaignStatus
	Title         *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	OrderBy       *string
	Limit         *int
	Offset        *int
}
