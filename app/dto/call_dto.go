package dto

// TriggerCallRequest dispatches one outbound warranty call. Either a stored
// prospect is referenced by UUID or ad-hoc test data is supplied inline.
type TriggerCallRequest struct {
	SellerID      uint     `json:"-"`
	CampaignUUID  string   `json:"campaign_uuid" validate:"required,uuid4"`
	ProspectUUID  *string  `json:"prospect_uuid,omitempty" validate:"omitempty,uuid4"`
	TestPhone     *string  `json:"test_phone,omitempty" validate:"omitempty,min=7,max=20" example:"+14155550123"`
	TestFirstName *string  `json:"test_first_name,omitempty" validate:"omitempty,max=255" example:"Dana"`
	TestAmount    *float64 `json:"test_amount,omitempty" validate:"omitempty,gt=0" example:"1000"`
	TestProduct   *string  `json:"test_product,omitempty" validate:"omitempty,max=255" example:"4K OLED TV"`
}

// TriggerCallResponse reports the dispatch result. The endpoint answers HTTP
// 200 even on failure; Success and Error carry the real outcome.
type TriggerCallResponse struct {
	Success        bool           `json:"success"`
	Message        string         `json:"message"`
	ProviderCallID string         `json:"provider_call_id,omitempty"`
	CallUUID       string         `json:"call_uuid,omitempty"`
	Prices         *CallPricesDTO `json:"prices,omitempty"`
	Error          string         `json:"error,omitempty"`
	Code           string         `json:"code,omitempty"`
}

// CallPricesDTO is the price set quoted on one call
type CallPricesDTO struct {
	Price1Yr      float64 `json:"price_1yr" example:"105"`
	Price2Yr      float64 `json:"price_2yr" example:"150"`
	Price3Yr      float64 `json:"price_3yr" example:"210"`
	DiscountPrice float64 `json:"discount_price" example:"128"`
}

// CallWebhookRequest is the provider's status callback payload
type CallWebhookRequest struct {
	ProviderCallID string  `json:"call_id" validate:"required,max=64"`
	Status         string  `json:"status" validate:"required,oneof=queued ringing in-progress completed failed no-answer"`
	Outcome        *string `json:"outcome,omitempty" validate:"omitempty,oneof=sale declined callback voicemail unknown"`
	Transcript     *string `json:"transcript,omitempty"`
	DurationSecs   *int    `json:"duration_secs,omitempty" validate:"omitempty,min=0"`
}

// CallWebhookResponse acknowledges a provider callback
type CallWebhookResponse struct {
	Received bool `json:"received"`
}

// GetCallRecordResponse represents one call record in listings
type GetCallRecordResponse struct {
	UUID           string        `json:"uuid"`
	ProviderCallID string        `json:"provider_call_id"`
	Status         string        `json:"status"`
	Outcome        *string       `json:"outcome,omitempty"`
	DurationSecs   *int          `json:"duration_secs,omitempty"`
	Prices         CallPricesDTO `json:"prices"`
	DispatchedAt   string        `json:"dispatched_at"`
	CompletedAt    *string       `json:"completed_at,omitempty"`
}

// ProspectImportResponse summarizes a lead-sheet upload. Skipped counts rows
// dropped for having no phone number.
type ProspectImportResponse struct {
	Message  string `json:"message" example:"Prospects imported"`
	Imported int    `json:"imported" example:"42"`
	Skipped  int    `json:"skipped" example:"3"`
}

// ListCallRecordsResponse is a paginated call history
type ListCallRecordsResponse struct {
	Items      []GetCallRecordResponse `json:"items"`
	Pagination PaginationDTO           `json:"pagination"`
}

// Common error codes for call operations
const (
	ErrorProspectNotFound  = "PROSPECT_NOT_FOUND"
	ErrorProspectDoNotCall = "PROSPECT_DO_NOT_CALL"
	ErrorDispatchFailed    = "DISPATCH_FAILED"
	ErrorCampaignInactive  = "CAMPAIGN_INACTIVE"
	ErrorCampaignNotFound  = "CAMPAIGN_NOT_FOUND"

	ErrorProspectSheetInvalid = "PROSPECT_SHEET_INVALID"
)
