package dto

// DiscoveryResponse summarizes one classification run for the configuring
// seller. It mirrors the classifier's result so the UI can explain what was
// detected before the seller confirms.
type DiscoveryResponse struct {
	DetectedModel   string             `json:"detected_model" example:"individual"`
	Confidence      float64            `json:"confidence" example:"1.0"`
	Explanation     string             `json:"explanation"`
	ReferenceColumn string             `json:"reference_column" example:"Purchase Price"`
	Durations       []string           `json:"durations,omitempty"`
	Mapping         []ColumnMappingDTO `json:"mapping,omitempty"`
	Brackets        []BracketDTO       `json:"brackets,omitempty"`
	HiddenDiscount  bool               `json:"hidden_discount"`
	ObservedMin     float64            `json:"observed_min,omitempty"`
	ObservedMax     float64            `json:"observed_max,omitempty"`
}

// ColumnMappingDTO associates a duration label with its source column
type ColumnMappingDTO struct {
	Duration     string `json:"duration" example:"3YR"`
	SourceColumn string `json:"source_column" example:"3 Yr Warranty"`
}

// BracketDTO maps a purchase-amount range to a plan price
type BracketDTO struct {
	Min    float64            `json:"min" example:"0"`
	Max    float64            `json:"max" example:"500"`
	Price  float64            `json:"price" example:"49"`
	Prices map[string]float64 `json:"prices,omitempty"`
}

// ManualPricingRequest sets flat plan prices by hand, bypassing discovery
type ManualPricingRequest struct {
	SellerID uint    `json:"-"`
	Price1Yr float64 `json:"price_1yr" validate:"required,gt=0" example:"99"`
	Price2Yr float64 `json:"price_2yr" validate:"required,gt=0" example:"149"`
	Price3Yr float64 `json:"price_3yr" validate:"required,gt=0" example:"199"`
}

// RetentionSettingsRequest updates the save-offer discount
type RetentionSettingsRequest struct {
	SellerID          uint    `json:"-"`
	RetentionDiscount float64 `json:"retention_discount" validate:"min=0" example:"0.1"`
	RetentionType     string  `json:"retention_type" validate:"required,oneof=fixed percentage" example:"percentage"`
}

// UpdatePersonaRequest updates the voice agent's persona and guardrails
type UpdatePersonaRequest struct {
	SellerID       uint     `json:"-"`
	AgentName      *string  `json:"agent_name,omitempty" validate:"omitempty,min=2,max=60" example:"Henry"`
	PersonaPrompt  *string  `json:"persona_prompt,omitempty" validate:"omitempty,max=20000"`
	Guardrails     []string `json:"guardrails,omitempty" validate:"omitempty,dive,max=500"`
	KnowledgeRefs  []string `json:"knowledge_refs,omitempty" validate:"omitempty,dive,url"`
	ScriptTemplate *string  `json:"script_template,omitempty" validate:"omitempty,max=20000"`
}

// ProfileResponse is the seller's persisted pricing and persona configuration
type ProfileResponse struct {
	Model                 string             `json:"model"`
	Durations             []string           `json:"durations"`
	HiddenDiscountEnabled bool               `json:"hidden_discount_enabled"`
	RetentionDiscount     float64            `json:"retention_discount"`
	RetentionType         string             `json:"retention_type"`
	Mapping               []ColumnMappingDTO `json:"mapping,omitempty"`
	Brackets              []BracketDTO       `json:"brackets,omitempty"`
	AgentName             *string            `json:"agent_name,omitempty"`
	PersonaPrompt         *string            `json:"persona_prompt,omitempty"`
	Guardrails            []string           `json:"guardrails,omitempty"`
	KnowledgeRefs         []string           `json:"knowledge_refs,omitempty"`
	ScriptTemplate        *string            `json:"script_template,omitempty"`
	UpdatedAt             string             `json:"updated_at"`
}

// Common error codes for discovery operations
const (
	ErrorUploadEmpty       = "UPLOAD_EMPTY"
	ErrorNotClassifiable   = "NOT_CLASSIFIABLE"
	ErrorProfileNotFound   = "PROFILE_NOT_FOUND"
	ErrorManualPriceNeeded = "MANUAL_PRICE_INVALID"
)
