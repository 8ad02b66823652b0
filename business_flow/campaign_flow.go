// Package businessflow contains the core business logic and use cases for campaign workflows
package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/copromote/henry-help/app/dto"
	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/repository"
	"github.com/copromote/henry-help/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CampaignFlow handles the campaign business logic
type CampaignFlow interface {
	CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error)
	UpdateCampaign(ctx context.Context, req *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.UpdateCampaignResponse, error)
	GetCampaign(ctx context.Context, uuid string, sellerID uint) (*dto.GetCampaignResponse, error)
	ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest, metadata *ClientMetadata) (*dto.ListCampaignsResponse, error)
	ChangeStatus(ctx context.Context, req *dto.CampaignStatusRequest, metadata *ClientMetadata) (*dto.UpdateCampaignResponse, error)
	AutosaveConfig(ctx context.Context, req *dto.AutosaveCampaignRequest, metadata *ClientMetadata) error
	Shutdown()
}

// CampaignFlowImpl implements the campaign business flow
type CampaignFlowImpl struct {
	campaignRepo repository.CampaignRepository
	sellerRepo   repository.SellerRepository
	profileRepo  repository.ProgramProfileRepository
	auditRepo    repository.AuditLogRepository
	debouncer    *Debouncer
	rc           *redis.Client
	db           *gorm.DB
}

// NewCampaignFlow creates a new campaign flow instance
func NewCampaignFlow(
	campaignRepo repository.CampaignRepository,
	sellerRepo repository.SellerRepository,
	profileRepo repository.ProgramProfileRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
	rc *redis.Client,
) CampaignFlow {
	s := &CampaignFlowImpl{
		campaignRepo: campaignRepo,
		sellerRepo:   sellerRepo,
		profileRepo:  profileRepo,
		auditRepo:    auditRepo,
		rc:           rc,
		db:           db,
	}
	s.debouncer = NewDebouncer(utils.AutoSaveDebounce, rc, s.flushAutosave)
	return s
}

// CreateCampaign handles the complete campaign creation process
func (s *CampaignFlowImpl) CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error) {
	if req.Title == "" {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", ErrCampaignTitleRequired)
	}

	seller, err := getSeller(ctx, s.sellerRepo, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	// A campaign is useless without a price table to quote from.
	profile, err := s.profileRepo.BySellerID(ctx, seller.ID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Failed to lookup pricing profile", err)
	}
	if profile == nil || profile.Model == "" {
		return nil, NewBusinessError("PROFILE_NOT_DISCOVERED", "Run pricing discovery before creating campaigns", ErrProfileNotDiscovered)
	}

	campaign := &models.Campaign{
		SellerID:        seller.ID,
		Status:          models.CampaignStatusDraft,
		Title:           req.Title,
		ScriptTemplate:  req.ScriptTemplate,
		VoiceID:         req.VoiceID,
		CallbackURL:     req.CallbackURL,
		CallWindowStart: req.CallWindowStart,
		CallWindowEnd:   req.CallWindowEnd,
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.campaignRepo.Save(txCtx, campaign)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Campaign creation failed: %s", err.Error())
		_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionCampaignCreationFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("CAMPAIGN_CREATION_FAILED", "Campaign creation failed", err)
	}

	msg := fmt.Sprintf("Campaign created successfully: %s", campaign.UUID.String())
	_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionCampaignCreated, msg, true, nil, metadata)

	return &dto.CreateCampaignResponse{
		Message:   "Campaign created successfully",
		UUID:      campaign.UUID.String(),
		Status:    string(campaign.Status),
		CreatedAt: campaign.CreatedAt.Format(time.RFC3339),
	}, nil
}

// UpdateCampaign handles the campaign update process
func (s *CampaignFlowImpl) UpdateCampaign(ctx context.Context, req *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.UpdateCampaignResponse, error) {
	if req.Title == nil && req.ScriptTemplate == nil && req.VoiceID == nil &&
		req.CallbackURL == nil && req.CallWindowStart == nil && req.CallWindowEnd == nil {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_VALIDATION_FAILED", "Campaign update validation failed", ErrCampaignUpdateRequired)
	}

	seller, err := getSeller(ctx, s.sellerRepo, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	campaign, err := getSellerCampaign(ctx, s.campaignRepo, req.UUID, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}

	if !campaign.IsEditable() {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_NOT_ALLOWED", "Campaign cannot be updated in current status", ErrCampaignUpdateNotAllowed)
	}

	if req.Title != nil {
		campaign.Title = *req.Title
	}
	if req.ScriptTemplate != nil {
		campaign.ScriptTemplate = req.ScriptTemplate
	}
	if req.VoiceID != nil {
		campaign.VoiceID = req.VoiceID
	}
	if req.CallbackURL != nil {
		campaign.CallbackURL = req.CallbackURL
	}
	if req.CallWindowStart != nil {
		campaign.CallWindowStart = req.CallWindowStart
	}
	if req.CallWindowEnd != nil {
		campaign.CallWindowEnd = req.CallWindowEnd
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.campaignRepo.Update(txCtx, campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Campaign update failed", err)
	}

	msg := fmt.Sprintf("Campaign updated: %s", campaign.UUID.String())
	_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionCampaignUpdated, msg, true, nil, metadata)

	return &dto.UpdateCampaignResponse{Message: "Campaign updated successfully"}, nil
}

// GetCampaign retrieves one campaign scoped to the seller
func (s *CampaignFlowImpl) GetCampaign(ctx context.Context, uuid string, sellerID uint) (*dto.GetCampaignResponse, error) {
	campaign, err := getSellerCampaign(ctx, s.campaignRepo, uuid, sellerID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	return toCampaignResponse(campaign), nil
}

// ListCampaigns returns the seller's campaigns with filtering and pagination
func (s *CampaignFlowImpl) ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest, metadata *ClientMetadata) (*dto.ListCampaignsResponse, error) {
	if req.Page < 1 {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination", ErrInvalidPage)
	}
	offset, limit := paginate(req.Page, req.Limit)

	filter := models.CampaignFilter{SellerID: &req.SellerID}
	if req.Status != nil {
		status := models.CampaignStatus(*req.Status)
		filter.Status = &status
	}
	if req.Title != nil {
		filter.Title = req.Title
	}

	campaigns, err := s.campaignRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}
	total, err := s.campaignRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to count campaigns", err)
	}

	resp := &dto.ListCampaignsResponse{
		Items:      make([]dto.GetCampaignResponse, 0, len(campaigns)),
		Pagination: buildPagination(req.Page, limit, total),
	}
	for _, c := range campaigns {
		resp.Items = append(resp.Items, *toCampaignResponse(c))
	}
	return resp, nil
}

// ChangeStatus moves a campaign through its lifecycle
func (s *CampaignFlowImpl) ChangeStatus(ctx context.Context, req *dto.CampaignStatusRequest, metadata *ClientMetadata) (*dto.UpdateCampaignResponse, error) {
	seller, err := getSeller(ctx, s.sellerRepo, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	campaign, err := getSellerCampaign(ctx, s.campaignRepo, req.UUID, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}

	target := models.CampaignStatus(req.Status)
	if !campaign.CanTransitionTo(target) {
		return nil, NewBusinessErrorf("INVALID_STATUS_TRANSITION", "Cannot move campaign from %s to %s", ErrInvalidStatusTransition, campaign.Status, target)
	}
	if target == models.CampaignStatusActive && (campaign.ScriptTemplate == nil || *campaign.ScriptTemplate == "") {
		return nil, NewBusinessError("CAMPAIGN_SCRIPT_REQUIRED", "Campaign needs a script before activation", ErrCampaignScriptRequired)
	}

	previous := campaign.Status
	campaign.Status = target

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.campaignRepo.Update(txCtx, campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Campaign status change failed", err)
	}

	msg := fmt.Sprintf("Campaign %s status changed: %s -> %s", campaign.UUID.String(), previous, target)
	_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionCampaignStatusChanged, msg, true, nil, metadata)

	return &dto.UpdateCampaignResponse{Message: "Campaign status updated"}, nil
}

// AutosaveConfig records a debounced configuration edit. The write lands
// after the quiet period; ownership is checked up front so a bad request
// fails fast rather than at flush time.
func (s *CampaignFlowImpl) AutosaveConfig(ctx context.Context, req *dto.AutosaveCampaignRequest, metadata *ClientMetadata) error {
	campaign, err := getSellerCampaign(ctx, s.campaignRepo, req.UUID, req.SellerID)
	if err != nil {
		return NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if !campaign.IsEditable() {
		return NewBusinessError("CAMPAIGN_UPDATE_NOT_ALLOWED", "Campaign cannot be updated in current status", ErrCampaignUpdateNotAllowed)
	}

	s.debouncer.Submit(ctx, PendingWrite{
		CampaignUUID:   req.UUID,
		SellerID:       req.SellerID,
		ScriptTemplate: req.ScriptTemplate,
		VoiceID:        req.VoiceID,
	})
	return nil
}

// Shutdown drains any pending autosave edits.
func (s *CampaignFlowImpl) Shutdown() {
	s.debouncer.FlushAll()
}

func (s *CampaignFlowImpl) flushAutosave(ctx context.Context, w PendingWrite) error {
	campaign, err := getSellerCampaign(ctx, s.campaignRepo, w.CampaignUUID, w.SellerID)
	if err != nil {
		return err
	}
	if w.ScriptTemplate != nil {
		campaign.ScriptTemplate = w.ScriptTemplate
	}
	if w.VoiceID != nil {
		campaign.VoiceID = w.VoiceID
	}
	return repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.campaignRepo.Update(txCtx, campaign)
	})
}

func toCampaignResponse(c *models.Campaign) *dto.GetCampaignResponse {
	return &dto.GetCampaignResponse{
		UUID:            c.UUID.String(),
		Status:          string(c.Status),
		Title:           c.Title,
		ScriptTemplate:  c.ScriptTemplate,
		VoiceID:         c.VoiceID,
		CallbackURL:     c.CallbackURL,
		CallWindowStart: c.CallWindowStart,
		CallWindowEnd:   c.CallWindowEnd,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
