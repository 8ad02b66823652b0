// Package businessflow contains the core business logic and use cases for provider webhook workflows
package businessflow

import (
	"context"
	"fmt"
	"log"

	"github.com/copromote/henry-help/app/dto"
	"github.com/copromote/henry-help/app/services"
	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/repository"
	"github.com/copromote/henry-help/utils"
	"gorm.io/gorm"
)

// WebhookFlow handles voice provider status callbacks
type WebhookFlow interface {
	HandleCallStatus(ctx context.Context, req *dto.CallWebhookRequest, metadata *ClientMetadata) (*dto.CallWebhookResponse, error)
}

// WebhookFlowImpl implements the webhook business flow
type WebhookFlowImpl struct {
	callRepo   repository.CallRecordRepository
	sellerRepo repository.SellerRepository
	auditRepo  repository.AuditLogRepository
	notifier   services.NotificationService
	db         *gorm.DB
}

// NewWebhookFlow creates a new webhook flow instance
func NewWebhookFlow(
	callRepo repository.CallRecordRepository,
	sellerRepo repository.SellerRepository,
	auditRepo repository.AuditLogRepository,
	notifier services.NotificationService,
	db *gorm.DB,
) WebhookFlow {
	return &WebhookFlowImpl{
		callRepo:   callRepo,
		sellerRepo: sellerRepo,
		auditRepo:  auditRepo,
		notifier:   notifier,
		db:         db,
	}
}

// HandleCallStatus applies one provider callback. The write is keyed on the
// provider's call id, so duplicate deliveries of the same callback converge
// on one row instead of stacking records.
func (s *WebhookFlowImpl) HandleCallStatus(ctx context.Context, req *dto.CallWebhookRequest, metadata *ClientMetadata) (*dto.CallWebhookResponse, error) {
	if req.ProviderCallID == "" {
		return nil, NewBusinessError("PROVIDER_CALL_ID_REQUIRED", "Provider call ID is required", ErrProviderCallIDEmpty)
	}

	status := models.CallStatus(req.Status)
	if !status.Valid() {
		return nil, NewBusinessErrorf("INVALID_CALL_STATUS", "Unknown call status %q", nil, req.Status)
	}

	var record *models.CallRecord
	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		existing, err := s.callRepo.ByProviderCallID(txCtx, req.ProviderCallID)
		if err != nil {
			return err
		}
		if existing == nil {
			// Unknown call id: the provider may deliver callbacks for calls
			// whose dispatch record was lost. Record what we know.
			existing = &models.CallRecord{
				ProviderCallID: req.ProviderCallID,
				DispatchedAt:   utils.UTCNow(),
			}
		}

		existing.Status = status
		if req.Outcome != nil {
			outcome := models.CallOutcome(*req.Outcome)
			existing.Outcome = &outcome
		}
		if req.Transcript != nil {
			existing.Transcript = req.Transcript
		}
		if req.DurationSecs != nil {
			existing.DurationSecs = req.DurationSecs
		}
		if existing.IsTerminal() && existing.CompletedAt == nil {
			existing.CompletedAt = utils.UTCNowPtr()
		}

		record = existing
		return s.callRepo.UpsertByProviderCallID(txCtx, existing)
	})
	if err != nil {
		return nil, NewBusinessError("WEBHOOK_PROCESSING_FAILED", "Failed to process call status", err)
	}

	msg := fmt.Sprintf("Call %s status received: %s", req.ProviderCallID, req.Status)
	_ = writeAudit(ctx, s.auditRepo, nil, models.AuditActionCallStatusReceived, msg, true, nil, metadata)

	s.notifySale(ctx, record)

	return &dto.CallWebhookResponse{Received: true}, nil
}

// notifySale emails the seller when a call closes as a sale. Delivery is
// best-effort; the callback has already been acknowledged to the provider.
func (s *WebhookFlowImpl) notifySale(ctx context.Context, record *models.CallRecord) {
	if s.notifier == nil || record == nil || record.SellerID == 0 {
		return
	}
	if record.Outcome == nil || *record.Outcome != models.OutcomeSale {
		return
	}

	seller, err := getSeller(ctx, s.sellerRepo, record.SellerID)
	if err != nil {
		log.Printf("Sale notification skipped for call %s: %v", record.ProviderCallID, err)
		return
	}

	subject := "Warranty sold"
	body := fmt.Sprintf("Call %s just closed with a warranty sale.", record.ProviderCallID)
	if err := s.notifier.SendEmail(seller.Email, subject, body); err != nil {
		log.Printf("Sale notification failed for call %s: %v", record.ProviderCallID, err)
	}
}
