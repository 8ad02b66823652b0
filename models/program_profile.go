package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/copromote/henry-help/pricing"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RetentionType selects how the retention discount is applied during save offers.
type RetentionType string

const (
	RetentionTypeFixed      RetentionType = "fixed"
	RetentionTypePercentage RetentionType = "percentage"
)

// RulesPayload persists the model-specific pricing rules as JSONB.
type RulesPayload pricing.Rules

// Value implements the driver.Valuer interface for RulesPayload
func (r RulesPayload) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements the sql.Scanner interface for RulesPayload
func (r *RulesPayload) Scan(value any) error {
	if value == nil {
		*r = RulesPayload{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RulesPayload", value)
	}

	return json.Unmarshal(bytes, r)
}

// ProgramProfile is a tenant's persisted warranty-pricing configuration plus
// the agent persona settings consumed by the script generator and call
// dispatcher. At most one row exists per seller (upsert semantics).
type ProgramProfile struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UUID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_program_profiles_uuid" json:"uuid"`
	SellerID uint      `gorm:"not null;uniqueIndex:uk_program_profiles_seller_id" json:"seller_id"`
	Seller   Seller    `gorm:"foreignKey:SellerID;references:ID" json:"seller,omitempty"`

	// Pricing model. Exactly one model is active; switching models replaces
	// Rules wholesale rather than merging.
	Model                 string         `gorm:"size:20;not null;default:''" json:"model"`
	Durations             pq.StringArray `gorm:"type:text[]" json:"durations"`
	Rules                 RulesPayload   `gorm:"type:jsonb;default:'{}'" json:"rules"`
	HiddenDiscountEnabled *bool          `gorm:"default:false" json:"hidden_discount_enabled"`

	// Retention offer, independent of the pricing model
	RetentionDiscount float64       `gorm:"type:numeric(10,2);default:0" json:"retention_discount"`
	RetentionType     RetentionType `gorm:"size:20;default:'fixed'" json:"retention_type"`

	// Agent persona and guardrails
	AgentName      *string        `gorm:"size:60" json:"agent_name,omitempty"`
	PersonaPrompt  *string        `gorm:"type:text" json:"persona_prompt,omitempty"`
	Guardrails     pq.StringArray `gorm:"type:text[]" json:"guardrails,omitempty"`
	KnowledgeRefs  pq.StringArray `gorm:"type:text[]" json:"knowledge_refs,omitempty"`
	ScriptTemplate *string        `gorm:"type:text" json:"script_template,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (ProgramProfile) TableName() string {
	return "program_profiles"
}

// PricingProfile projects the persisted row onto the pricing package's shape.
func (p *ProgramProfile) PricingProfile() pricing.Profile {
	return pricing.Profile{
		Model:                 pricing.ModelKind(p.Model),
		Durations:             append([]string(nil), p.Durations...),
		Rules:                 pricing.Rules(p.Rules),
		HiddenDiscountEnabled: p.HiddenDiscountEnabled != nil && *p.HiddenDiscountEnabled,
		RetentionDiscount:     p.RetentionDiscount,
		RetentionType:         string(p.RetentionType),
	}
}

// ApplyPricingProfile writes a pricing.Profile back onto the row, replacing
// the model-specific fields and leaving persona/guardrail fields untouched.
func (p *ProgramProfile) ApplyPricingProfile(src pricing.Profile) {
	p.Model = string(src.Model)
	p.Durations = pq.StringArray(src.Durations)
	p.Rules = RulesPayload(src.Rules)
	hidden := src.HiddenDiscountEnabled
	p.HiddenDiscountEnabled = &hidden
	p.RetentionDiscount = src.RetentionDiscount
	if src.RetentionType != "" {
		p.RetentionType = RetentionType(src.RetentionType)
	}
}

// ProgramProfileFilter represents filter criteria for profile queries
type ProgramProfileFilter struct {
	ID       *uint
	UUID     *uuid.UUID
	SellerID *uint
	Model    *string
}
