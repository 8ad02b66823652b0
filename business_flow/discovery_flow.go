// Package businessflow contains the core business logic and use cases for pricing discovery workflows
package businessflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/copromote/henry-help/app/dto"
	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/pricing"
	"github.com/copromote/henry-help/repository"
	"github.com/copromote/henry-help/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var classificationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pricing_classification_runs_total",
	Help: "Classification runs by detected model (or failure)",
}, []string{"result"})

// DiscoveryFlow handles pricing-model discovery and profile configuration
type DiscoveryFlow interface {
	RunDiscovery(ctx context.Context, sellerID uint, filename string, data []byte, metadata *ClientMetadata) (*dto.DiscoveryResponse, error)
	SetManualPricing(ctx context.Context, req *dto.ManualPricingRequest, metadata *ClientMetadata) (*dto.ProfileResponse, error)
	UpdateRetentionSettings(ctx context.Context, req *dto.RetentionSettingsRequest, metadata *ClientMetadata) (*dto.ProfileResponse, error)
	UpdatePersona(ctx context.Context, req *dto.UpdatePersonaRequest, metadata *ClientMetadata) (*dto.ProfileResponse, error)
	GetProfile(ctx context.Context, sellerID uint) (*dto.ProfileResponse, error)
}

// DiscoveryFlowImpl implements the discovery business flow
type DiscoveryFlowImpl struct {
	profileRepo repository.ProgramProfileRepository
	sellerRepo  repository.SellerRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

// NewDiscoveryFlow creates a new discovery flow instance
func NewDiscoveryFlow(
	profileRepo repository.ProgramProfileRepository,
	sellerRepo repository.SellerRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) DiscoveryFlow {
	return &DiscoveryFlowImpl{
		profileRepo: profileRepo,
		sellerRepo:  sellerRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

// RunDiscovery parses an uploaded sheet, classifies it and persists the
// materialized profile atomically. A classification failure leaves the stored
// profile exactly as it was and surfaces the typed error to the caller.
func (s *DiscoveryFlowImpl) RunDiscovery(ctx context.Context, sellerID uint, filename string, data []byte, metadata *ClientMetadata) (*dto.DiscoveryResponse, error) {
	seller, err := getSeller(ctx, s.sellerRepo, sellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	table, err := parseSheet(filename, data)
	if err != nil {
		return nil, NewBusinessError("UPLOAD_PARSE_FAILED", "Failed to parse uploaded file", err)
	}

	result, err := pricing.Classify(table)
	if err != nil {
		classificationRuns.WithLabelValues("failed").Inc()
		errMsg := fmt.Sprintf("Classification failed: %s", err.Error())
		_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionProfileDiscoveryFailed, errMsg, false, &errMsg, metadata)

		if errors.Is(err, pricing.ErrEmptyTable) {
			return nil, NewBusinessError("UPLOAD_EMPTY", "Uploaded sheet has no usable rows", ErrUploadEmpty)
		}
		return nil, NewBusinessError("NOT_CLASSIFIABLE", "Could not classify the uploaded sheet", ErrUploadNotClassifiable)
	}
	classificationRuns.WithLabelValues(string(result.Model)).Inc()

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		profile, err := s.loadOrNewProfile(txCtx, sellerID)
		if err != nil {
			return err
		}

		next := pricing.Materialize(result, profile.PricingProfile())
		if err := next.Validate(); err != nil {
			return err
		}
		profile.ApplyPricingProfile(next)
		profile.UpdatedAt = utils.UTCNow()

		return s.profileRepo.UpsertForSeller(txCtx, profile)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Profile persistence failed: %s", err.Error())
		_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionProfileDiscoveryFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("PROFILE_SAVE_FAILED", "Failed to save discovered profile", err)
	}

	msg := fmt.Sprintf("Discovery classified sheet %q as %s (confidence %.2f)", filename, result.Model, result.Confidence)
	_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionProfileDiscoveryRun, msg, true, nil, metadata)

	return toDiscoveryResponse(result), nil
}

// SetManualPricing stores hand-entered flat plan prices as a static profile.
func (s *DiscoveryFlowImpl) SetManualPricing(ctx context.Context, req *dto.ManualPricingRequest, metadata *ClientMetadata) (*dto.ProfileResponse, error) {
	if req.Price1Yr <= 0 || req.Price2Yr <= 0 || req.Price3Yr <= 0 {
		return nil, NewBusinessError("MANUAL_PRICE_INVALID", "Manual plan prices must be positive", ErrManualPriceInvalid)
	}
	// Longer coverage always costs more; equal or inverted prices are a data
	// entry mistake, not a pricing strategy.
	if req.Price2Yr <= req.Price1Yr || req.Price3Yr <= req.Price2Yr {
		return nil, NewBusinessError("MANUAL_PRICE_INVALID", "Plan prices must increase with term length", ErrManualPriceInvalid)
	}

	seller, err := getSeller(ctx, s.sellerRepo, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	var saved *models.ProgramProfile
	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		profile, err := s.loadOrNewProfile(txCtx, req.SellerID)
		if err != nil {
			return err
		}

		next := pricing.MaterializeManual(req.Price1Yr, req.Price2Yr, req.Price3Yr, profile.PricingProfile())
		if err := next.Validate(); err != nil {
			return err
		}
		profile.ApplyPricingProfile(next)
		profile.UpdatedAt = utils.UTCNow()

		if err := s.profileRepo.UpsertForSeller(txCtx, profile); err != nil {
			return err
		}
		saved = profile
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("PROFILE_SAVE_FAILED", "Failed to save manual pricing", err)
	}

	msg := fmt.Sprintf("Manual pricing set: %.2f/%.2f/%.2f", req.Price1Yr, req.Price2Yr, req.Price3Yr)
	_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionProfileManualPricing, msg, true, nil, metadata)

	return toProfileResponse(saved), nil
}

// UpdateRetentionSettings changes the save-offer discount without touching the
// pricing model.
func (s *DiscoveryFlowImpl) UpdateRetentionSettings(ctx context.Context, req *dto.RetentionSettingsRequest, metadata *ClientMetadata) (*dto.ProfileResponse, error) {
	if req.RetentionType == string(models.RetentionTypePercentage) && (req.RetentionDiscount < 0 || req.RetentionDiscount > 1) {
		return nil, NewBusinessError("RETENTION_OUT_OF_RANGE", "Percentage retention discount must be between 0 and 1", ErrRetentionOutOfRange)
	}

	seller, err := getSeller(ctx, s.sellerRepo, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	var saved *models.ProgramProfile
	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		profile, err := s.loadOrNewProfile(txCtx, req.SellerID)
		if err != nil {
			return err
		}

		profile.RetentionDiscount = req.RetentionDiscount
		profile.RetentionType = models.RetentionType(req.RetentionType)
		profile.UpdatedAt = utils.UTCNow()

		if err := s.profileRepo.UpsertForSeller(txCtx, profile); err != nil {
			return err
		}
		saved = profile
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("PROFILE_SAVE_FAILED", "Failed to save retention settings", err)
	}

	msg := fmt.Sprintf("Retention settings updated: %s %.2f", req.RetentionType, req.RetentionDiscount)
	_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionRetentionSettingsUpdated, msg, true, nil, metadata)

	return toProfileResponse(saved), nil
}

// UpdatePersona changes the agent persona fields, leaving pricing untouched.
func (s *DiscoveryFlowImpl) UpdatePersona(ctx context.Context, req *dto.UpdatePersonaRequest, metadata *ClientMetadata) (*dto.ProfileResponse, error) {
	seller, err := getSeller(ctx, s.sellerRepo, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	var saved *models.ProgramProfile
	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		profile, err := s.loadOrNewProfile(txCtx, req.SellerID)
		if err != nil {
			return err
		}

		if req.AgentName != nil {
			profile.AgentName = req.AgentName
		}
		if req.PersonaPrompt != nil {
			profile.PersonaPrompt = req.PersonaPrompt
		}
		if req.Guardrails != nil {
			profile.Guardrails = req.Guardrails
		}
		if req.KnowledgeRefs != nil {
			profile.KnowledgeRefs = req.KnowledgeRefs
		}
		if req.ScriptTemplate != nil {
			profile.ScriptTemplate = req.ScriptTemplate
		}
		profile.UpdatedAt = utils.UTCNow()

		if err := s.profileRepo.UpsertForSeller(txCtx, profile); err != nil {
			return err
		}
		saved = profile
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("PROFILE_SAVE_FAILED", "Failed to save persona settings", err)
	}

	_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionProfileUpdated, "Agent persona updated", true, nil, metadata)

	return toProfileResponse(saved), nil
}

// GetProfile returns the seller's persisted configuration.
func (s *DiscoveryFlowImpl) GetProfile(ctx context.Context, sellerID uint) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.BySellerID(ctx, sellerID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Failed to lookup profile", err)
	}
	if profile == nil {
		return nil, NewBusinessError("PROFILE_NOT_FOUND", "No pricing profile configured yet", ErrProfileNotFound)
	}
	return toProfileResponse(profile), nil
}

// parseSheet turns an uploaded file into a raw table, picking the reader off
// the file extension. Anything that is not a spreadsheet is treated as CSV.
func parseSheet(filename string, data []byte) (pricing.RawTable, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return pricing.ParseXLSX(data)
	default:
		return pricing.ParseCSV(string(data)), nil
	}
}

func (s *DiscoveryFlowImpl) loadOrNewProfile(ctx context.Context, sellerID uint) (*models.ProgramProfile, error) {
	profile, err := s.profileRepo.BySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &models.ProgramProfile{SellerID: sellerID}
	}
	return profile, nil
}

func toDiscoveryResponse(result pricing.DiscoveryResult) *dto.DiscoveryResponse {
	resp := &dto.DiscoveryResponse{
		DetectedModel:   string(result.Model),
		Confidence:      result.Confidence,
		Explanation:     result.Explanation,
		ReferenceColumn: result.ReferenceColumn,
		Durations:       result.Durations,
		HiddenDiscount:  result.HiddenDiscount,
		ObservedMin:     result.ObservedMin,
		ObservedMax:     result.ObservedMax,
	}
	for _, m := range result.Mapping {
		resp.Mapping = append(resp.Mapping, dto.ColumnMappingDTO{Duration: m.Duration, SourceColumn: m.SourceColumn})
	}
	for _, b := range result.Brackets {
		resp.Brackets = append(resp.Brackets, dto.BracketDTO{Min: b.Min, Max: b.Max, Price: b.Price, Prices: b.Prices})
	}
	return resp
}

func toProfileResponse(profile *models.ProgramProfile) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		Model:                 profile.Model,
		Durations:             profile.Durations,
		HiddenDiscountEnabled: utils.IsTrue(profile.HiddenDiscountEnabled),
		RetentionDiscount:     profile.RetentionDiscount,
		RetentionType:         string(profile.RetentionType),
		AgentName:             profile.AgentName,
		PersonaPrompt:         profile.PersonaPrompt,
		Guardrails:            profile.Guardrails,
		KnowledgeRefs:         profile.KnowledgeRefs,
		ScriptTemplate:        profile.ScriptTemplate,
		UpdatedAt:             dto.FormatTime(profile.UpdatedAt),
	}
	if profile.Rules.Individual != nil {
		for _, m := range profile.Rules.Individual.Mapping {
			resp.Mapping = append(resp.Mapping, dto.ColumnMappingDTO{Duration: m.Duration, SourceColumn: m.SourceColumn})
		}
	}
	if profile.Rules.Tiered != nil {
		for _, b := range profile.Rules.Tiered.Brackets {
			resp.Brackets = append(resp.Brackets, dto.BracketDTO{Min: b.Min, Max: b.Max, Price: b.Price, Prices: b.Prices})
		}
	}
	return resp
}
