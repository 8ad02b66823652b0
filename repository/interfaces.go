// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/copromote/henry-help/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// SellerRepository defines operations for sellers (tenants)
type SellerRepository interface {
	Repository[models.Seller, models.SellerFilter]
	ByEmail(ctx context.Context, email string) (*models.Seller, error)
	ByUUID(ctx context.Context, uuid string) (*models.Seller, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.Seller, error)
}

// SellerSessionRepository defines operations for seller sessions
type SellerSessionRepository interface {
	Repository[models.SellerSession, models.SellerSessionFilter]
	ByToken(ctx context.Context, token string) (*models.SellerSession, error)
	DeactivateForSeller(ctx context.Context, sellerID uint) error
}

// ProgramProfileRepository defines operations for pricing profiles.
// A seller has at most one profile; writes go through UpsertForSeller.
type ProgramProfileRepository interface {
	Repository[models.ProgramProfile, models.ProgramProfileFilter]
	BySellerID(ctx context.Context, sellerID uint) (*models.ProgramProfile, error)
	UpsertForSeller(ctx context.Context, profile *models.ProgramProfile) error
}

// CampaignRepository defines operations for calling campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Campaign, error)
	ListBySeller(ctx context.Context, sellerID uint, limit, offset int) ([]*models.Campaign, error)
}

// ProductRepository defines operations for synced catalog products
type ProductRepository interface {
	Repository[models.Product, models.ProductFilter]
	UpsertBatch(ctx context.Context, products []*models.Product) error
	ListBySeller(ctx context.Context, sellerID uint, limit, offset int) ([]*models.Product, error)
}

// BundleRepository defines operations for promotional bundles
type BundleRepository interface {
	Repository[models.Bundle, models.BundleFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Bundle, error)
	ListForSeller(ctx context.Context, sellerID uint, limit, offset int) ([]*models.Bundle, error)
}

// ProspectRepository defines operations for call prospects
type ProspectRepository interface {
	Repository[models.Prospect, models.ProspectFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Prospect, error)
	ListCallable(ctx context.Context, sellerID uint, limit, offset int) ([]*models.Prospect, error)
}

// CallRecordRepository defines operations for outbound call records
type CallRecordRepository interface {
	Repository[models.CallRecord, models.CallRecordFilter]
	ByProviderCallID(ctx context.Context, providerCallID string) (*models.CallRecord, error)
	UpsertByProviderCallID(ctx context.Context, record *models.CallRecord) error
}

// AuditLogRepository defines operations for audit logging
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListBySeller(ctx context.Context, sellerID uint, limit, offset int) ([]*models.AuditLog, error)
}
