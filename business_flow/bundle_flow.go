// Package businessflow contains the core business logic and use cases for cross-seller bundle workflows
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

// BundleFlow handles cross-catalog bundle proposals
type BundleFlow interface {
	ProposeBundle(ctx context.Context, req *dto.CreateBundleRequest, metadata *ClientMetadata) (*dto.CreateBundleResponse, error)
	DecideBundle(ctx context.Context, req *dto.BundleDecisionRequest, metadata *ClientMetadata) (*dto.GetBundleResponse, error)
	GetBundle(ctx context.Context, uuid string, sellerID uint) (*dto.GetBundleResponse, error)
	ListBundles(ctx context.Context, sellerID uint, page, limit int) (*dto.ListBundlesResponse, error)
}

// BundleFlowImpl implements the bundle business flow
type BundleFlowImpl struct {
	bundleRepo  repository.BundleRepository
	productRepo repository.ProductRepository
	sellerRepo  repository.SellerRepository
	auditRepo   repository.AuditLogRepository
	images      services.ImageService
	db          *gorm.DB
}

// NewBundleFlow creates a new bundle flow instance
func NewBundleFlow(
	bundleRepo repository.BundleRepository,
	productRepo repository.ProductRepository,
	sellerRepo repository.SellerRepository,
	auditRepo repository.AuditLogRepository,
	images services.ImageService,
	db *gorm.DB,
) BundleFlow {
	return &BundleFlowImpl{
		bundleRepo:  bundleRepo,
		productRepo: productRepo,
		sellerRepo:  sellerRepo,
		auditRepo:   auditRepo,
		images:      images,
		db:          db,
	}
}

// ProposeBundle creates a bundle from the proposing seller's picks. Products
// may come from the proposer's catalog or the partner's; anything else is
// rejected.
func (s *BundleFlowImpl) ProposeBundle(ctx context.Context, req *dto.CreateBundleRequest, metadata *ClientMetadata) (*dto.CreateBundleResponse, error) {
	if len(req.ProductUUIDs) == 0 {
		return nil, NewBusinessError("BUNDLE_VALIDATION_FAILED", "Bundle needs at least one product", ErrBundleItemsRequired)
	}

	seller, err := getSeller(ctx, s.sellerRepo, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	var partner *models.Seller
	if req.PartnerUUID != nil {
		partner, err = s.sellerRepo.ByUUID(ctx, *req.PartnerUUID)
		if err != nil {
			return nil, NewBusinessError("PARTNER_LOOKUP_FAILED", "Failed to lookup partner seller", err)
		}
		if partner == nil {
			return nil, NewBusinessError("PARTNER_NOT_FOUND", "Partner seller not found", ErrPartnerSellerNotFound)
		}
		if partner.ID == seller.ID {
			return nil, NewBusinessError("BUNDLE_VALIDATION_FAILED", "Bundle partner must be a different seller", ErrBundleSelfPartnership)
		}
	}

	bundle := &models.Bundle{
		SellerID:        seller.ID,
		Status:          models.BundleStatusProposed,
		Title:           req.Title,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
	}
	if partner != nil {
		bundle.PartnerSellerID = &partner.ID
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		for position, productUUID := range req.ProductUUIDs {
			product, err := s.lookupBundleProduct(txCtx, productUUID, seller.ID, partner)
			if err != nil {
				return err
			}
			bundle.Items = append(bundle.Items, models.BundleItem{
				ProductID: product.ID,
				Position:  position,
			})
		}
		return s.bundleRepo.Save(txCtx, bundle)
	})
	if err != nil {
		return nil, NewBusinessError("BUNDLE_CREATION_FAILED", "Bundle creation failed", err)
	}

	msg := fmt.Sprintf("Bundle proposed: %s", bundle.UUID.String())
	_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionBundleProposed, msg, true, nil, metadata)

	return &dto.CreateBundleResponse{
		Message:   "Bundle proposed",
		UUID:      bundle.UUID.String(),
		Status:    string(bundle.Status),
		CreatedAt: dto.FormatTime(bundle.CreatedAt),
	}, nil
}

// DecideBundle records the partner's accept/decline decision. Acceptance
// queues a marketing image render for the bundle page.
func (s *BundleFlowImpl) DecideBundle(ctx context.Context, req *dto.BundleDecisionRequest, metadata *ClientMetadata) (*dto.GetBundleResponse, error) {
	seller, err := getSeller(ctx, s.sellerRepo, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	bundle, err := s.bundleRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return nil, NewBusinessError("BUNDLE_LOOKUP_FAILED", "Failed to lookup bundle", err)
	}
	if bundle == nil {
		return nil, NewBusinessError("BUNDLE_NOT_FOUND", "Bundle not found", ErrBundleNotFound)
	}
	if bundle.PartnerSellerID == nil || *bundle.PartnerSellerID != seller.ID {
		return nil, NewBusinessError("BUNDLE_ACCESS_DENIED", "Only the invited partner can decide", ErrBundleAccessDenied)
	}
	if bundle.Status != models.BundleStatusProposed {
		return nil, NewBusinessError("BUNDLE_NOT_ACTIONABLE", "Bundle is not awaiting a decision", ErrBundleNotActionable)
	}

	bundle.Status = models.BundleStatus(req.Decision)

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.bundleRepo.Update(txCtx, bundle)
	})
	if err != nil {
		return nil, NewBusinessError("BUNDLE_UPDATE_FAILED", "Failed to record decision", err)
	}

	msg := fmt.Sprintf("Bundle %s %s by partner", bundle.UUID.String(), req.Decision)
	_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionBundleStatusChanged, msg, true, nil, metadata)

	if bundle.Status == models.BundleStatusAccepted && s.images != nil {
		if err := s.images.Enqueue(services.ImageRequest{
			SellerID:  bundle.SellerID,
			Reference: bundle.UUID.String(),
			Prompt:    fmt.Sprintf("Promotional hero image for the bundle %q", bundle.Title),
		}); err != nil {
			log.Printf("bundle image enqueue failed for %s: %v", bundle.UUID.String(), err)
		}
	}

	return s.toBundleResponse(bundle), nil
}

// GetBundle retrieves one bundle visible to the seller
func (s *BundleFlowImpl) GetBundle(ctx context.Context, uuid string, sellerID uint) (*dto.GetBundleResponse, error) {
	bundle, err := s.bundleRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError("BUNDLE_LOOKUP_FAILED", "Failed to lookup bundle", err)
	}
	if bundle == nil {
		return nil, NewBusinessError("BUNDLE_NOT_FOUND", "Bundle not found", ErrBundleNotFound)
	}
	if bundle.SellerID != sellerID && (bundle.PartnerSellerID == nil || *bundle.PartnerSellerID != sellerID) {
		return nil, NewBusinessError("BUNDLE_ACCESS_DENIED", "Bundle access denied", ErrBundleAccessDenied)
	}
	return s.toBundleResponse(bundle), nil
}

// ListBundles returns bundles the seller proposed or was invited to
func (s *BundleFlowImpl) ListBundles(ctx context.Context, sellerID uint, page, limit int) (*dto.ListBundlesResponse, error) {
	if page < 1 {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination", ErrInvalidPage)
	}
	offset, limit := paginate(page, limit)

	bundles, err := s.bundleRepo.ListForSeller(ctx, sellerID, limit, offset)
	if err != nil {
		return nil, NewBusinessError("BUNDLE_LIST_FAILED", "Failed to list bundles", err)
	}

	proposed, err := s.bundleRepo.Count(ctx, models.BundleFilter{SellerID: &sellerID})
	if err != nil {
		return nil, NewBusinessError("BUNDLE_LIST_FAILED", "Failed to count bundles", err)
	}
	invited, err := s.bundleRepo.Count(ctx, models.BundleFilter{PartnerSellerID: &sellerID})
	if err != nil {
		return nil, NewBusinessError("BUNDLE_LIST_FAILED", "Failed to count bundles", err)
	}
	total := proposed + invited

	resp := &dto.ListBundlesResponse{
		Items:      make([]dto.GetBundleResponse, 0, len(bundles)),
		Pagination: buildPagination(page, limit, total),
	}
	for _, b := range bundles {
		resp.Items = append(resp.Items, *s.toBundleResponse(b))
	}
	return resp, nil
}

// lookupBundleProduct enforces that every bundled product belongs to the
// proposer or the invited partner.
func (s *BundleFlowImpl) lookupBundleProduct(ctx context.Context, productUUID string, sellerID uint, partner *models.Seller) (*models.Product, error) {
	id, err := utils.ParseUUID(productUUID)
	if err != nil {
		return nil, fmt.Errorf("invalid product UUID %s: %w", productUUID, err)
	}
	matches, err := s.productRepo.ByFilter(ctx, models.ProductFilter{UUID: &id}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("product %s not found", productUUID)
	}
	product := matches[0]
	if product.SellerID != sellerID && (partner == nil || product.SellerID != partner.ID) {
		return nil, fmt.Errorf("product %s belongs to neither party", productUUID)
	}
	return product, nil
}

func (s *BundleFlowImpl) toBundleResponse(b *models.Bundle) *dto.GetBundleResponse {
	resp := &dto.GetBundleResponse{
		UUID:            b.UUID.String(),
		Status:          string(b.Status),
		Title:           b.Title,
		Description:     b.Description,
		DiscountPercent: b.DiscountPercent,
		CreatedAt:       dto.FormatTime(b.CreatedAt),
	}
	if b.PartnerSeller != nil {
		partnerUUID := b.PartnerSeller.UUID.String()
		resp.PartnerUUID = &partnerUUID
	}
	for _, item := range b.Items {
		if item.Product != nil {
			resp.Items = append(resp.Items, toProductResponse(item.Product))
		}
	}
	return resp
}
