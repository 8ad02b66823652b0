package dto

import (
	"time"
)

// CreateCampaignRequest represents the request to create a new calling campaign
type CreateCampaignRequest struct {
	SellerID        uint    `json:"-"`
	Title           string  `json:"title" validate:"required,min=2,max=255" example:"Spring warranty push"`
	ScriptTemplate  *string `json:"script_template,omitempty" validate:"omitempty,max=20000"`
	VoiceID         *string `json:"voice_id,omitempty" validate:"omitempty,max=60" example:"nova"`
	CallbackURL     *string `json:"callback_url,omitempty" validate:"omitempty,url,max=512"`
	CallWindowStart *int    `json:"call_window_start,omitempty" validate:"omitempty,min=0,max=23" example:"9"`
	CallWindowEnd   *int    `json:"call_window_end,omitempty" validate:"omitempty,min=0,max=23" example:"18"`
}

// CreateCampaignResponse represents the response to create a new campaign
type CreateCampaignResponse struct {
	Message   string `json:"message"`
	UUID      string `json:"uuid"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// UpdateCampaignRequest represents the request to update an existing campaign.
// All fields optional; at least one must be present.
type UpdateCampaignRequest struct {
	UUID            string  `json:"-"`
	SellerID        uint    `json:"-"`
	Title           *string `json:"title,omitempty" validate:"omitempty,min=2,max=255"`
	ScriptTemplate  *string `json:"script_template,omitempty" validate:"omitempty,max=20000"`
	VoiceID         *string `json:"voice_id,omitempty" validate:"omitempty,max=60"`
	CallbackURL     *string `json:"callback_url,omitempty" validate:"omitempty,url,max=512"`
	CallWindowStart *int    `json:"call_window_start,omitempty" validate:"omitempty,min=0,max=23"`
	CallWindowEnd   *int    `json:"call_window_end,omitempty" validate:"omitempty,min=0,max=23"`
}

// UpdateCampaignResponse represents the response to update an existing campaign
type UpdateCampaignResponse struct {
	Message string `json:"message"`
}

// CampaignStatusRequest represents a lifecycle transition request
type CampaignStatusRequest struct {
	UUID     string `json:"-"`
	SellerID uint   `json:"-"`
	Status   string `json:"status" validate:"required,oneof=draft active paused archived" example:"active"`
}

// GetCampaignResponse represents the campaign configuration in responses
type GetCampaignResponse struct {
	UUID            string     `json:"uuid"`
	Status          string     `json:"status"`
	Title           string     `json:"title"`
	ScriptTemplate  *string    `json:"script_template,omitempty"`
	VoiceID         *string    `json:"voice_id,omitempty"`
	CallbackURL     *string    `json:"callback_url,omitempty"`
	CallWindowStart *int       `json:"call_window_start,omitempty"`
	CallWindowEnd   *int       `json:"call_window_end,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// ListCampaignsRequest represents the request to list campaigns with filtering and pagination
type ListCampaignsRequest struct {
	SellerID uint    `json:"-"`
	Page     int     `json:"page" validate:"min=1" example:"1"`
	Limit    int     `json:"limit" validate:"min=1,max=100" example:"10"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=draft active paused archived"`
	Title    *string `json:"title,omitempty" validate:"omitempty,max=255"`
}

// ListCampaignsResponse represents a paginated campaign listing
type ListCampaignsResponse struct {
	Items      []GetCampaignResponse `json:"items"`
	Pagination PaginationDTO         `json:"pagination"`
}

// PaginationDTO describes the page window of a list response
type PaginationDTO struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// AutosaveCampaignRequest carries a debounced configuration edit. The payload
// mirrors UpdateCampaignRequest but is applied after a quiet period.
type AutosaveCampaignRequest struct {
	UUID           string  `json:"-"`
	SellerID       uint    `json:"-"`
	ScriptTemplate *string `json:"script_template,omitempty" validate:"omitempty,max=20000"`
	VoiceID        *string `json:"voice_id,omitempty" validate:"omitempty,max=60"`
}
