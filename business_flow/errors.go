// Package businessflow contains the core business logic and use cases for the warranty-campaign workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Seller-related errors
	ErrSellerNotFound     = errors.New("seller not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Pricing profile errors
	ErrProfileNotFound       = errors.New("pricing profile not found")
	ErrProfileNotDiscovered  = errors.New("pricing profile has not been discovered yet")
	ErrUploadEmpty           = errors.New("uploaded sheet is empty")
	ErrUploadNotClassifiable = errors.New("uploaded sheet has no usable price columns")
	ErrManualPriceInvalid    = errors.New("manual plan prices must be positive and increase with term length")
	ErrRetentionOutOfRange   = errors.New("retention discount must be between 0 and 1")

	// Campaign-related errors
	ErrCampaignNotFound         = errors.New("campaign not found")
	ErrCampaignAccessDenied     = errors.New("campaign access denied")
	ErrCampaignUpdateNotAllowed = errors.New("campaign update not allowed")
	ErrCampaignNotDispatchable  = errors.New("campaign is not active")
	ErrCampaignTitleRequired    = errors.New("campaign title is required")
	ErrCampaignScriptRequired   = errors.New("campaign script template is required")
	ErrCampaignUUIDRequired     = errors.New("campaign UUID is required")
	ErrInvalidStatusTransition  = errors.New("invalid campaign status transition")
	ErrCampaignUpdateRequired   = errors.New("at least one field must be provided for update")

	// Call-related errors
	ErrProspectNotFound     = errors.New("prospect not found")
	ErrProspectSheetInvalid = errors.New("lead sheet is missing a phone column")
	ErrProspectDoNotCall    = errors.New("prospect is on the do-not-call list")
	ErrProviderCallIDEmpty  = errors.New("provider call ID is required")

	// Catalog-related errors
	ErrCatalogSyncFailed   = errors.New("catalog sync failed")
	ErrUnsupportedPlatform = errors.New("unsupported e-commerce platform")

	// Bundle-related errors
	ErrBundleNotFound        = errors.New("bundle not found")
	ErrBundleAccessDenied    = errors.New("bundle access denied")
	ErrBundleNotActionable   = errors.New("bundle is not awaiting a decision")
	ErrBundleItemsRequired   = errors.New("bundle needs at least one product")
	ErrPartnerSellerNotFound = errors.New("partner seller not found")
	ErrBundleSelfPartnership = errors.New("bundle partner must be a different seller")

	// Filter errors
	ErrInvalidPage = errors.New("page must be at least 1")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsSellerNotFound(err error) bool {
	return errors.Is(err, ErrSellerNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsProfileNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound)
}

func IsProfileNotDiscovered(err error) bool {
	return errors.Is(err, ErrProfileNotDiscovered)
}

func IsUploadEmpty(err error) bool {
	return errors.Is(err, ErrUploadEmpty)
}

func IsUploadNotClassifiable(err error) bool {
	return errors.Is(err, ErrUploadNotClassifiable)
}

func IsManualPriceInvalid(err error) bool {
	return errors.Is(err, ErrManualPriceInvalid)
}

func IsRetentionOutOfRange(err error) bool {
	return errors.Is(err, ErrRetentionOutOfRange)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignAccessDenied(err error) bool {
	return errors.Is(err, ErrCampaignAccessDenied)
}

func IsCampaignUpdateNotAllowed(err error) bool {
	return errors.Is(err, ErrCampaignUpdateNotAllowed)
}

func IsCampaignScriptRequired(err error) bool {
	return errors.Is(err, ErrCampaignScriptRequired)
}

func IsCampaignNotDispatchable(err error) bool {
	return errors.Is(err, ErrCampaignNotDispatchable)
}

func IsInvalidStatusTransition(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition)
}

func IsProspectNotFound(err error) bool {
	return errors.Is(err, ErrProspectNotFound)
}

func IsProspectDoNotCall(err error) bool {
	return errors.Is(err, ErrProspectDoNotCall)
}

func IsProspectSheetInvalid(err error) bool {
	return errors.Is(err, ErrProspectSheetInvalid)
}

func IsCatalogSyncFailed(err error) bool {
	return errors.Is(err, ErrCatalogSyncFailed)
}

func IsUnsupportedPlatform(err error) bool {
	return errors.Is(err, ErrUnsupportedPlatform)
}

func IsBundleNotFound(err error) bool {
	return errors.Is(err, ErrBundleNotFound)
}

func IsBundleAccessDenied(err error) bool {
	return errors.Is(err, ErrBundleAccessDenied)
}

func IsBundleNotActionable(err error) bool {
	return errors.Is(err, ErrBundleNotActionable)
}

func IsPartnerSellerNotFound(err error) bool {
	return errors.Is(err, ErrPartnerSellerNotFound)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}
