package dto

// CatalogSyncRequest starts a store sync for the seller
type CatalogSyncRequest struct {
	SellerID uint   `json:"-"`
	Platform string `json:"platform" validate:"required,oneof=shopify woocommerce" example:"shopify"`
	StoreURL string `json:"store_url" validate:"required,url,max=255" example:"https://acme.myshopify.com"`
	APIKey   string `json:"api_key" validate:"required,max=255"`
}

// CatalogSyncResponse reports how a sync run ended
type CatalogSyncResponse struct {
	Message      string `json:"message"`
	RowsSynced   int    `json:"rows_synced" example:"240"`
	PagesFetched int    `json:"pages_fetched" example:"3"`
}

// GetProductResponse represents one synced product in listings
type GetProductResponse struct {
	UUID       string  `json:"uuid"`
	Platform   string  `json:"platform"`
	ExternalID string  `json:"external_id"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	ImageURL   *string `json:"image_url,omitempty"`
	Vendor     *string `json:"vendor,omitempty"`
	SyncedAt   string  `json:"synced_at"`
}

// ListProductsRequest represents the request to list synced products
type ListProductsRequest struct {
	SellerID uint `json:"-"`
	Page     int  `json:"page" validate:"min=1" example:"1"`
	Limit    int  `json:"limit" validate:"min=1,max=100" example:"20"`
}

// ListProductsResponse is a paginated product listing
type ListProductsResponse struct {
	Items      []GetProductResponse `json:"items"`
	Pagination PaginationDTO        `json:"pagination"`
}

// Common error codes for catalog operations
const (
	ErrorSyncFailed          = "SYNC_FAILED"
	ErrorUnsupportedPlatform = "UNSUPPORTED_PLATFORM"
)
