package businessflow

import (
	"context"

	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/repository"
	"github.com/copromote/henry-help/utils"
)

// writeAudit persists one audit row. Failures are the caller's to ignore:
// audit logging never blocks a business operation.
func writeAudit(ctx context.Context, auditRepo repository.AuditLogRepository, seller *models.Seller, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	var sellerID *uint
	if seller != nil {
		sellerID = &seller.ID
	}

	ipAddress := ""
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		SellerID:     sellerID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errorMsg,
	}

	requestID := ctx.Value(utils.RequestIDKey)
	if requestID != nil {
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}

	return auditRepo.Save(ctx, audit)
}

// getSeller loads an active seller by ID or returns a typed error.
func getSeller(ctx context.Context, sellerRepo repository.SellerRepository, sellerID uint) (models.Seller, error) {
	seller, err := sellerRepo.ByID(ctx, sellerID)
	if err != nil {
		return models.Seller{}, err
	}
	if seller == nil {
		return models.Seller{}, ErrSellerNotFound
	}
	if !utils.IsTrue(seller.IsActive) {
		return models.Seller{}, ErrAccountInactive
	}
	return *seller, nil
}

// getSellerCampaign loads a campaign by UUID and enforces tenant ownership.
func getSellerCampaign(ctx context.Context, campaignRepo repository.CampaignRepository, uuidStr string, sellerID uint) (*models.Campaign, error) {
	if uuidStr == "" {
		return nil, ErrCampaignUUIDRequired
	}
	campaign, err := campaignRepo.ByUUID(ctx, uuidStr)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	if campaign.SellerID != sellerID {
		return nil, ErrCampaignAccessDenied
	}
	return campaign, nil
}
