package dto

import (
	"time"
)

// LoginRequest represents the request payload for seller login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"owner@acme-electronics.com"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// SignupRequest represents the request payload for seller registration
type SignupRequest struct {
	CompanyName      string  `json:"company_name" validate:"required,min=2,max=120" example:"Acme Electronics"`
	ContactFirstName string  `json:"contact_first_name" validate:"required,min=2,max=255" example:"Dana"`
	ContactLastName  string  `json:"contact_last_name" validate:"required,min=2,max=255" example:"Reyes"`
	ContactPhone     string  `json:"contact_phone" validate:"required,min=7,max=20" example:"+14155550123"`
	Email            string  `json:"email" validate:"required,email,max=255" example:"owner@acme-electronics.com"`
	Password         string  `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	ConfirmPassword  string  `json:"confirm_password" validate:"required,eqfield=Password" example:"SecurePass123!"`
	WebsiteURL       *string `json:"website_url,omitempty" validate:"omitempty,url,max=255" example:"https://acme-electronics.com"`
}

// RefreshTokenRequest represents the request to exchange a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// AuthSellerDTO represents seller information returned in auth responses
type AuthSellerDTO struct {
	ID               uint    `json:"id" example:"123"`
	UUID             string  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	CompanyName      string  `json:"company_name" example:"Acme Electronics"`
	ContactFirstName string  `json:"contact_first_name" example:"Dana"`
	ContactLastName  string  `json:"contact_last_name" example:"Reyes"`
	Email            string  `json:"email" example:"owner@acme-electronics.com"`
	BrandVoiceName   *string `json:"brand_voice_name,omitempty" example:"Henry"`
	IsActive         *bool   `json:"is_active" example:"true"`
	CreatedAt        string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// SellerSessionDTO represents the token pair for an authenticated session
type SellerSessionDTO struct {
	SessionToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string `json:"token_type" example:"Bearer"`
	ExpiresIn    int    `json:"expires_in" example:"3600"`
	CreatedAt    string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// LoginResponse represents the successful login response payload
type LoginResponse struct {
	Seller  AuthSellerDTO    `json:"seller"`
	Session SellerSessionDTO `json:"session"`
}

// UpdateBrandingRequest updates the seller's voice-agent branding
type UpdateBrandingRequest struct {
	BrandVoiceName *string `json:"brand_voice_name,omitempty" validate:"omitempty,min=2,max=60" example:"Henry"`
	WebsiteURL     *string `json:"website_url,omitempty" validate:"omitempty,url,max=255" example:"https://acme-electronics.com"`
	LogoURL        *string `json:"logo_url,omitempty" validate:"omitempty,url,max=512" example:"https://cdn.acme.com/logo.png"`
}

// Common error codes for auth operations
const (
	ErrorSellerNotFound    = "SELLER_NOT_FOUND"
	ErrorIncorrectPassword = "INCORRECT_PASSWORD"
	ErrorAccountInactive   = "ACCOUNT_INACTIVE"
	ErrorEmailExists       = "EMAIL_ALREADY_EXISTS"
	ErrorInvalidToken      = "INVALID_TOKEN"
)

// FormatTime renders a timestamp the way all API responses do
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
