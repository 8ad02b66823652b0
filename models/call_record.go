package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/copromote/henry-help/pricing"
	"github.com/copromote/henry-help/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CallStatus tracks an outbound call through the provider's lifecycle
type CallStatus string

const (
	CallStatusQueued     CallStatus = "queued"
	CallStatusRinging    CallStatus = "ringing"
	CallStatusInProgress CallStatus = "in-progress"
	CallStatusCompleted  CallStatus = "completed"
	CallStatusFailed     CallStatus = "failed"
	CallStatusNoAnswer   CallStatus = "no-answer"
)

// Valid checks if the status is valid
func (s CallStatus) Valid() bool {
	switch s {
	case CallStatusQueued, CallStatusRinging, CallStatusInProgress,
		CallStatusCompleted, CallStatusFailed, CallStatusNoAnswer:
		return true
	default:
		return false
	}
}

// CallOutcome is the sales result reported after a completed call
type CallOutcome string

const (
	OutcomeSale      CallOutcome = "sale"
	OutcomeDeclined  CallOutcome = "declined"
	OutcomeCallback  CallOutcome = "callback"
	OutcomeVoicemail CallOutcome = "voicemail"
	OutcomeUnknown   CallOutcome = "unknown"
)

// PricesSnapshot freezes the prices quoted on one call, so later profile
// edits never change what the record says was offered.
type PricesSnapshot pricing.CallPricingContext

// Value implements the driver.Valuer interface for PricesSnapshot
func (p PricesSnapshot) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface for PricesSnapshot
func (p *PricesSnapshot) Scan(value any) error {
	if value == nil {
		*p = PricesSnapshot{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PricesSnapshot", value)
	}

	return json.Unmarshal(bytes, p)
}

// CallRecord is one outbound voice call. ProviderCallID is the idempotency
// key for webhook upserts: the provider may deliver status callbacks more
// than once.
type CallRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_call_records_uuid" json:"uuid"`
	SellerID   uint      `gorm:"not null;index:idx_call_records_seller_id" json:"seller_id"`
	CampaignID *uint     `gorm:"index:idx_call_records_campaign_id" json:"campaign_id,omitempty"`
	Campaign   *Campaign `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	ProspectID *uint     `gorm:"index:idx_call_records_prospect_id" json:"prospect_id,omitempty"`
	Prospect   *Prospect `gorm:"foreignKey:ProspectID;references:ID" json:"prospect,omitempty"`

	ProviderCallID string     `gorm:"size:64;not null;uniqueIndex:uk_call_records_provider_call_id" json:"provider_call_id"`
	Status         CallStatus `gorm:"size:20;not null;default:'queued';index:idx_call_records_status" json:"status"`
	Outcome        *CallOutcome `gorm:"size:20" json:"outcome,omitempty"`
	Transcript     *string    `gorm:"type:text" json:"transcript,omitempty"`
	DurationSecs   *int       `json:"duration_secs,omitempty"`

	Prices         PricesSnapshot `gorm:"type:jsonb;default:'{}'" json:"prices"`
	RenderedScript *string        `gorm:"type:text" json:"-"` // verbatim script handed to the provider

	DispatchedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_call_records_dispatched_at" json:"dispatched_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	UpdatedAt    time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (CallRecord) TableName() string {
	return "call_records"
}

// BeforeCreate is called before creating a new record
func (c *CallRecord) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CallStatusQueued
	}
	if c.DispatchedAt.IsZero() {
		c.DispatchedAt = utils.UTCNow()
	}
	return nil
}

// IsTerminal reports whether the call has reached a final status.
func (c *CallRecord) IsTerminal() bool {
	switch c.Status {
	case CallStatusCompleted, CallStatusFailed, CallStatusNoAnswer:
		return true
	default:
		return false
	}
}

// CallRecordFilter represents filter criteria for call record queries
type CallRecordFilter struct {
	ID             *uint
	UUID           *uuid.UUID
	SellerID       *uint
	CampaignID     *uint
	ProspectID     *uint
	ProviderCallID *string
	Status         *CallStatus
	Outcome        *CallOutcome
	After          *time.Time
	Before         *time.Time
	Limit          *int
	Offset         *int
}
