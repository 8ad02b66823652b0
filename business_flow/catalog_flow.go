// Package businessflow contains the core business logic and use cases for catalog sync workflows
package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/copromote/henry-help/app/dto"
	"github.com/copromote/henry-help/app/services"
	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/repository"
	"github.com/copromote/henry-help/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var catalogRowsSynced = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_rows_synced_total",
	Help: "Catalog product rows upserted per platform",
}, []string{"platform"})

// CatalogServiceFactory resolves the platform client for a sync request
type CatalogServiceFactory func(platform string) (services.CatalogService, error)

// CatalogFlow handles store catalog synchronization
type CatalogFlow interface {
	SyncCatalog(ctx context.Context, req *dto.CatalogSyncRequest, metadata *ClientMetadata) (*dto.CatalogSyncResponse, error)
	ListProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error)
}

// CatalogFlowImpl implements the catalog sync business flow
type CatalogFlowImpl struct {
	productRepo repository.ProductRepository
	sellerRepo  repository.SellerRepository
	auditRepo   repository.AuditLogRepository
	clients     CatalogServiceFactory

	retryAttempts int
	retryBackoff  time.Duration
}

// NewCatalogFlow creates a new catalog flow instance
func NewCatalogFlow(
	productRepo repository.ProductRepository,
	sellerRepo repository.SellerRepository,
	auditRepo repository.AuditLogRepository,
	clients CatalogServiceFactory,
) CatalogFlow {
	return &CatalogFlowImpl{
		productRepo:   productRepo,
		sellerRepo:    sellerRepo,
		auditRepo:     auditRepo,
		clients:       clients,
		retryAttempts: utils.DispatchRetryAttempts,
		retryBackoff:  utils.DispatchRetryBackoff,
	}
}

// SyncCatalog pulls every page of the store's products and upserts them.
// Each page's fetch is retried a bounded number of times; when a page fails
// for good, the sync stops with an aggregated error and every page already
// written stays persisted. A re-run converges because writes are upserts.
func (s *CatalogFlowImpl) SyncCatalog(ctx context.Context, req *dto.CatalogSyncRequest, metadata *ClientMetadata) (*dto.CatalogSyncResponse, error) {
	seller, err := getSeller(ctx, s.sellerRepo, req.SellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	client, err := s.clients(req.Platform)
	if err != nil {
		return nil, NewBusinessError("UNSUPPORTED_PLATFORM", "Unsupported e-commerce platform", ErrUnsupportedPlatform)
	}

	rowsSynced := 0
	pagesFetched := 0
	for page := 1; ; page++ {
		result, err := s.fetchPageWithRetry(ctx, client, req.StoreURL, req.APIKey, page)
		if err != nil {
			errMsg := fmt.Sprintf("Catalog sync failed on page %d after %d rows: %s", page, rowsSynced, err.Error())
			_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionCatalogSyncFailed, errMsg, false, &errMsg, metadata)

			return nil, NewBusinessErrorf("SYNC_FAILED", "Catalog sync failed on page %d: %v", ErrCatalogSyncFailed, page, err)
		}
		pagesFetched++

		if len(result.Products) > 0 {
			batch := make([]*models.Product, 0, len(result.Products))
			for _, p := range result.Products {
				batch = append(batch, &models.Product{
					SellerID:   seller.ID,
					Platform:   models.CatalogPlatform(req.Platform),
					ExternalID: p.ExternalID,
					StoreURL:   req.StoreURL,
					Title:      p.Title,
					Price:      p.Price,
					Currency:   p.Currency,
					ImageURL:   p.ImageURL,
					Vendor:     p.Vendor,
				})
			}
			if err := s.productRepo.UpsertBatch(ctx, batch); err != nil {
				errMsg := fmt.Sprintf("Catalog sync write failed on page %d: %s", page, err.Error())
				_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionCatalogSyncFailed, errMsg, false, &errMsg, metadata)

				return nil, NewBusinessError("SYNC_FAILED", "Failed to persist synced products", err)
			}
			rowsSynced += len(batch)
			catalogRowsSynced.WithLabelValues(req.Platform).Add(float64(len(batch)))
		}

		if !result.HasMore {
			break
		}
	}

	msg := fmt.Sprintf("Catalog sync completed: %d rows over %d pages from %s", rowsSynced, pagesFetched, req.StoreURL)
	_ = writeAudit(ctx, s.auditRepo, &seller, models.AuditActionCatalogSyncCompleted, msg, true, nil, metadata)

	return &dto.CatalogSyncResponse{
		Message:      "Catalog sync completed",
		RowsSynced:   rowsSynced,
		PagesFetched: pagesFetched,
	}, nil
}

// ListProducts returns the seller's synced products with pagination
func (s *CatalogFlowImpl) ListProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error) {
	if req.Page < 1 {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination", ErrInvalidPage)
	}
	offset, limit := paginate(req.Page, req.Limit)

	products, err := s.productRepo.ListBySeller(ctx, req.SellerID, limit, offset)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LIST_FAILED", "Failed to list products", err)
	}
	total, err := s.productRepo.Count(ctx, models.ProductFilter{SellerID: &req.SellerID})
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LIST_FAILED", "Failed to count products", err)
	}

	resp := &dto.ListProductsResponse{
		Items:      make([]dto.GetProductResponse, 0, len(products)),
		Pagination: buildPagination(req.Page, limit, total),
	}
	for _, p := range products {
		resp.Items = append(resp.Items, toProductResponse(p))
	}
	return resp, nil
}

func (s *CatalogFlowImpl) fetchPageWithRetry(ctx context.Context, client services.CatalogService, storeURL, apiKey string, page int) (*services.CatalogPage, error) {
	var lastErr error
	for attempt := 1; attempt <= s.retryAttempts; attempt++ {
		result, err := client.FetchPage(ctx, storeURL, apiKey, page)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt < s.retryAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retryBackoff):
			}
		}
	}
	return nil, fmt.Errorf("page fetch failed after %d attempts: %w", s.retryAttempts, lastErr)
}

func toProductResponse(p *models.Product) dto.GetProductResponse {
	return dto.GetProductResponse{
		UUID:       p.UUID.String(),
		Platform:   string(p.Platform),
		ExternalID: p.ExternalID,
		Title:      p.Title,
		Price:      p.Price,
		Currency:   p.Currency,
		ImageURL:   p.ImageURL,
		Vendor:     p.Vendor,
		SyncedAt:   dto.FormatTime(p.SyncedAt),
	}
}
