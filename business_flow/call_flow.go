// Package businessflow contains the core business logic and use cases for outbound call workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/copromote/henry-help/app/dto"
	"github.com/copromote/henry-help/app/services"
	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/pricing"
	"github.com/copromote/henry-help/repository"
	"github.com/copromote/henry-help/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var callsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "calls_dispatched_total",
	Help: "Outbound call dispatches by result",
}, []string{"result"})

// CallFlow handles prospect ingestion and outbound call dispatch
type CallFlow interface {
	ImportProspects(ctx context.Context, sellerID uint, filename string, data []byte, metadata *ClientMetadata) (*dto.ProspectImportResponse, error)
	TriggerCall(ctx context.Context, req *dto.TriggerCallRequest, metadata *ClientMetadata) (*dto.TriggerCallResponse, error)
	ListCallRecords(ctx context.Context, sellerID uint, page, limit int) (*dto.ListCallRecordsResponse, error)
}

// CallFlowImpl implements the call dispatch business flow
type CallFlowImpl struct {
	campaignRepo repository.CampaignRepository
	prospectRepo repository.ProspectRepository
	profileRepo  repository.ProgramProfileRepository
	callRepo     repository.CallRecordRepository
	sellerRepo   repository.SellerRepository
	auditRepo    repository.AuditLogRepository
	voice        services.VoiceService
	db           *gorm.DB
}

// NewCallFlow creates a new call flow instance
func NewCallFlow(
	campaignRepo repository.CampaignRepository,
	prospectRepo repository.ProspectRepository,
	profileRepo repository.ProgramProfileRepository,
	callRepo repository.CallRecordRepository,
	sellerRepo repository.SellerRepository,
	auditRepo repository.AuditLogRepository,
	voice services.VoiceService,
	db *gorm.DB,
) CallFlow {
	return &CallFlowImpl{
		campaignRepo: campaignRepo,
		prospectRepo: prospectRepo,
		profileRepo:  profileRepo,
		callRepo:     callRepo,
		sellerRepo:   sellerRepo,
		auditRepo:    auditRepo,
		voice:        voice,
		db:           db,
	}
}

// ImportProspects ingests an uploaded lead sheet. Column headers are mapped
// onto lead fields; when the seller's profile uses the individual model, the
// stored column mapping is applied per row so each prospect carries the exact
// plan prices read out of its own row. Rows without a phone number are
// skipped, not fatal.
func (s *CallFlowImpl) ImportProspects(ctx context.Context, sellerID uint, filename string, data []byte, metadata *ClientMetadata) (*dto.ProspectImportResponse, error) {
	seller, err := getSeller(ctx, s.sellerRepo, sellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	table, err := parseSheet(filename, data)
	if err != nil {
		return nil, NewBusinessError("UPLOAD_PARSE_FAILED", "Failed to parse uploaded file", err)
	}
	if len(table.Rows) == 0 {
		return nil, NewBusinessError("UPLOAD_EMPTY", "Uploaded sheet has no usable rows", ErrUploadEmpty)
	}

	cols, err := pricing.MapLeadColumns(table.Headers)
	if err != nil {
		return nil, NewBusinessError("PROSPECT_SHEET_INVALID", "Lead sheet needs a phone column", ErrProspectSheetInvalid)
	}

	// The individual model's column mapping only applies when the lead sheet
	// is the same sheet discovery ran on; missing columns simply yield no
	// imported prices.
	var mapping []pricing.ColumnMapping
	profile, err := s.profileRepo.BySellerID(ctx, sellerID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Failed to lookup pricing profile", err)
	}
	if profile != nil && pricing.ModelKind(profile.Model) == pricing.ModelIndividual && profile.Rules.Individual != nil {
		mapping = profile.Rules.Individual.Mapping
	}

	prospects := make([]*models.Prospect, 0, len(table.Rows))
	skipped := 0
	for _, row := range table.Rows {
		lead := cols.ExtractLead(row)
		if lead.Phone == "" {
			skipped++
			continue
		}

		prospect := &models.Prospect{
			SellerID:       seller.ID,
			FirstName:      lead.FirstName,
			Phone:          lead.Phone,
			PurchaseAmount: lead.Amount,
		}
		if prospect.FirstName == "" {
			prospect.FirstName = "Customer"
		}
		if lead.LastName != "" {
			prospect.LastName = &lead.LastName
		}
		if lead.Email != "" {
			prospect.Email = &lead.Email
		}
		if lead.Product != "" {
			prospect.ProductName = &lead.Product
		}
		if imported := pricing.ImportedPricesForRow(table.Headers, row, mapping); imported != nil {
			prospect.ImportedPrices = imported
		}
		prospects = append(prospects, prospect)
	}

	if len(prospects) > 0 {
		err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
			return s.prospectRepo.SaveBatch(txCtx, prospects)
		})
		if err != nil {
			errMsg := fmt.Sprintf("Prospect import failed: %s", err.Error())
			_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionProspectsImported, errMsg, false, &errMsg, metadata)

			return nil, NewBusinessError("PROSPECT_IMPORT_FAILED", "Failed to save imported prospects", err)
		}
	}

	msg := fmt.Sprintf("Prospect import completed: %d imported, %d skipped from %s", len(prospects), skipped, filename)
	_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionProspectsImported, msg, true, nil, metadata)

	return &dto.ProspectImportResponse{
		Message:  "Prospects imported",
		Imported: len(prospects),
		Skipped:  skipped,
	}, nil
}

// callTarget is the resolved callee: a stored prospect or inline test data.
type callTarget struct {
	prospect       *models.Prospect
	phone          string
	firstName      string
	productName    string
	purchaseAmount float64
	imported       map[string]float64
}

// TriggerCall resolves prices, renders the script and dispatches one outbound
// call. The returned response carries success or failure in its body; the
// caller maps both to HTTP 200 (legacy dashboard contract).
func (s *CallFlowImpl) TriggerCall(ctx context.Context, req *dto.TriggerCallRequest, metadata *ClientMetadata) (*dto.TriggerCallResponse, error) {
	seller, err := getSeller(ctx, s.sellerRepo, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	campaign, err := getSellerCampaign(ctx, s.campaignRepo, req.CampaignUUID, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if !campaign.CanDispatch() {
		return nil, NewBusinessError("CAMPAIGN_INACTIVE", "Campaign is not active", ErrCampaignNotDispatchable)
	}

	target, err := s.resolveTarget(ctx, req)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.BySellerID(ctx, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_LOOKUP_FAILED", "Failed to lookup pricing profile", err)
	}

	// Price resolution is total: an absent or broken profile degrades to safe
	// defaults rather than blocking the call.
	var pricingProfile pricing.Profile
	if profile != nil {
		pricingProfile = profile.PricingProfile()
	}
	prices := pricing.ResolvePrices(pricingProfile, target.purchaseAmount)
	if pricingProfile.Model == pricing.ModelIndividual && len(target.imported) > 0 {
		prices = pricing.ApplyImportedPrices(prices, target.imported, pricingProfile.HiddenDiscountEnabled)
	}

	script := s.renderScript(&seller, profile, campaign, target, prices)

	payload := services.CallPayload{
		Phone:        target.phone,
		AgentName:    agentName(&seller, profile),
		FirstMessage: firstMessage(&seller, profile, target),
		Script:       script,
	}
	if profile != nil {
		if profile.PersonaPrompt != nil {
			payload.PersonaPrompt = *profile.PersonaPrompt
		}
		payload.Guardrails = profile.Guardrails
	}
	if campaign.VoiceID != nil {
		payload.VoiceID = *campaign.VoiceID
	}
	if campaign.CallbackURL != nil {
		payload.CallbackURL = *campaign.CallbackURL
	}

	dispatch, err := s.voice.InitiateCall(ctx, payload)
	if err != nil {
		callsDispatched.WithLabelValues("failed").Inc()
		errMsg := fmt.Sprintf("Call dispatch failed: %s", err.Error())
		_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionCallDispatchFailed, errMsg, false, &errMsg, metadata)

		return &dto.TriggerCallResponse{
			Success: false,
			Message: "Call dispatch failed",
			Error:   err.Error(),
		}, nil
	}
	callsDispatched.WithLabelValues("dispatched").Inc()

	record := &models.CallRecord{
		SellerID:       seller.ID,
		CampaignID:     &campaign.ID,
		ProviderCallID: dispatch.ProviderCallID,
		Status:         models.CallStatusQueued,
		Prices:         models.PricesSnapshot(prices),
		RenderedScript: &script,
		DispatchedAt:   utils.UTCNow(),
	}
	if target.prospect != nil {
		record.ProspectID = &target.prospect.ID
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.callRepo.Save(txCtx, record)
	})
	if err != nil {
		// The call is already in flight; losing the record is logged but not
		// surfaced as a dispatch failure.
		errMsg := fmt.Sprintf("Call record save failed: %s", err.Error())
		_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionCallDispatchFailed, errMsg, false, &errMsg, metadata)
	} else {
		msg := fmt.Sprintf("Call dispatched: %s", dispatch.ProviderCallID)
		_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionCallDispatched, msg, true, nil, metadata)
	}

	return &dto.TriggerCallResponse{
		Success:        true,
		Message:        "Call dispatched",
		ProviderCallID: dispatch.ProviderCallID,
		CallUUID:       record.UUID.String(),
		Prices: &dto.CallPricesDTO{
			Price1Yr:      prices.Price1Yr,
			Price2Yr:      prices.Price2Yr,
			Price3Yr:      prices.Price3Yr,
			DiscountPrice: prices.DiscountPrice,
		},
	}, nil
}

// ListCallRecords returns the seller's call history newest first
func (s *CallFlowImpl) ListCallRecords(ctx context.Context, sellerID uint, page, limit int) (*dto.ListCallRecordsResponse, error) {
	if page < 1 {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination", ErrInvalidPage)
	}
	offset, limit := paginate(page, limit)

	filter := models.CallRecordFilter{SellerID: &sellerID}
	records, err := s.callRepo.ByFilter(ctx, filter, "dispatched_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("CALL_LIST_FAILED", "Failed to list call records", err)
	}
	total, err := s.callRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CALL_LIST_FAILED", "Failed to count call records", err)
	}

	resp := &dto.ListCallRecordsResponse{
		Items:      make([]dto.GetCallRecordResponse, 0, len(records)),
		Pagination: buildPagination(page, limit, total),
	}
	for _, r := range records {
		item := dto.GetCallRecordResponse{
			UUID:           r.UUID.String(),
			ProviderCallID: r.ProviderCallID,
			Status:         string(r.Status),
			DurationSecs:   r.DurationSecs,
			Prices: dto.CallPricesDTO{
				Price1Yr:      r.Prices.Price1Yr,
				Price2Yr:      r.Prices.Price2Yr,
				Price3Yr:      r.Prices.Price3Yr,
				DiscountPrice: r.Prices.DiscountPrice,
			},
			DispatchedAt: dto.FormatTime(r.DispatchedAt),
		}
		if r.Outcome != nil {
			outcome := string(*r.Outcome)
			item.Outcome = &outcome
		}
		if r.CompletedAt != nil {
			completed := dto.FormatTime(*r.CompletedAt)
			item.CompletedAt = &completed
		}
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}

func (s *CallFlowImpl) resolveTarget(ctx context.Context, req *dto.TriggerCallRequest) (*callTarget, error) {
	if req.ProspectUUID != nil {
		prospect, err := s.prospectRepo.ByUUID(ctx, *req.ProspectUUID)
		if err != nil {
			return nil, NewBusinessError("PROSPECT_LOOKUP_FAILED", "Failed to lookup prospect", err)
		}
		if prospect == nil || prospect.SellerID != req.SellerID {
			return nil, NewBusinessError("PROSPECT_NOT_FOUND", "Prospect not found", ErrProspectNotFound)
		}
		if utils.IsTrue(prospect.DoNotCall) {
			return nil, NewBusinessError("PROSPECT_DO_NOT_CALL", "Prospect is on the do-not-call list", ErrProspectDoNotCall)
		}

		target := &callTarget{
			prospect:       prospect,
			phone:          prospect.Phone,
			firstName:      prospect.FirstName,
			purchaseAmount: prospect.PurchaseAmount,
			imported:       prospect.ImportedPrices,
		}
		if prospect.ProductName != nil {
			target.productName = *prospect.ProductName
		}
		return target, nil
	}

	if req.TestPhone == nil {
		return nil, NewBusinessError("PROSPECT_NOT_FOUND", "Either a prospect or test data is required", ErrProspectNotFound)
	}
	target := &callTarget{phone: *req.TestPhone, firstName: "there"}
	if req.TestFirstName != nil {
		target.firstName = *req.TestFirstName
	}
	if req.TestAmount != nil {
		target.purchaseAmount = *req.TestAmount
	}
	if req.TestProduct != nil {
		target.productName = *req.TestProduct
	}
	return target, nil
}

// renderScript fills the campaign's dialogue template with call variables and
// scrubs any stale brand tokens cloned in from another tenant's template.
func (s *CallFlowImpl) renderScript(seller *models.Seller, profile *models.ProgramProfile, campaign *models.Campaign, target *callTarget, prices pricing.CallPricingContext) string {
	template := ""
	if campaign.ScriptTemplate != nil {
		template = *campaign.ScriptTemplate
	} else if profile != nil && profile.ScriptTemplate != nil {
		template = *profile.ScriptTemplate
	}
	if template == "" {
		template = "Hi {{first_name}}, this is {{agent_name}} calling from {{company_name}} about your recent {{product_name}} purchase."
	}

	vars := map[string]string{
		"first_name":     target.firstName,
		"agent_name":     agentName(seller, profile),
		"company_name":   seller.CompanyName,
		"product_name":   target.productName,
		"price_1yr":      utils.FormatPrice(prices.Price1Yr),
		"price_2yr":      utils.FormatPrice(prices.Price2Yr),
		"price_3yr":      utils.FormatPrice(prices.Price3Yr),
		"discount_price": utils.FormatPrice(prices.DiscountPrice),
	}

	rendered := pricing.RenderScript(template, vars)
	return pricing.ScrubStaleBrands(rendered, utils.KnownBrandTokens, seller.CompanyName)
}

func agentName(seller *models.Seller, profile *models.ProgramProfile) string {
	if profile != nil && profile.AgentName != nil && *profile.AgentName != "" {
		return *profile.AgentName
	}
	if seller.BrandVoiceName != nil && *seller.BrandVoiceName != "" {
		return *seller.BrandVoiceName
	}
	return "Henry"
}

func firstMessage(seller *models.Seller, profile *models.ProgramProfile, target *callTarget) string {
	return fmt.Sprintf("Hi %s, this is %s calling on behalf of %s.", target.firstName, agentName(seller, profile), seller.CompanyName)
}
