package dto

// CreateBundleRequest proposes a cross-catalog bundle to a partner seller
type CreateBundleRequest struct {
	SellerID        uint     `json:"-"`
	PartnerUUID     *string  `json:"partner_uuid,omitempty" validate:"omitempty,uuid4"`
	Title           string   `json:"title" validate:"required,min=2,max=255" example:"TV + soundbar bundle"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	DiscountPercent *float64 `json:"discount_percent,omitempty" validate:"omitempty,min=0,max=100" example:"10"`
	ProductUUIDs    []string `json:"product_uuids" validate:"required,min=1,dive,uuid4"`
}

// CreateBundleResponse represents the response to propose a bundle
type CreateBundleResponse struct {
	Message   string `json:"message"`
	UUID      string `json:"uuid"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// BundleDecisionRequest accepts or declines a proposed bundle
type BundleDecisionRequest struct {
	UUID     string `json:"-"`
	SellerID uint   `json:"-"`
	Decision string `json:"decision" validate:"required,oneof=accepted declined" example:"accepted"`
}

// GetBundleResponse represents one bundle in responses
type GetBundleResponse struct {
	UUID            string               `json:"uuid"`
	Status          string               `json:"status"`
	Title           string               `json:"title"`
	Description     *string              `json:"description,omitempty"`
	DiscountPercent *float64             `json:"discount_percent,omitempty"`
	PartnerUUID     *string              `json:"partner_uuid,omitempty"`
	Items           []GetProductResponse `json:"items,omitempty"`
	CreatedAt       string               `json:"created_at"`
}

// ListBundlesResponse is a paginated bundle listing
type ListBundlesResponse struct {
	Items      []GetBundleResponse `json:"items"`
	Pagination PaginationDTO       `json:"pagination"`
}

// Common error codes for bundle operations
const (
	ErrorBundleNotFound      = "BUNDLE_NOT_FOUND"
	ErrorBundleNotActionable = "BUNDLE_NOT_ACTIONABLE"
	ErrorPartnerNotFound     = "PARTNER_NOT_FOUND"
)
