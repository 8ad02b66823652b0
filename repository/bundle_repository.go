package repository

import (
	"context"
	"fmt"

	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/utils"
	"gorm.io/gorm"
)

// BundleRepositoryImpl implements the BundleRepository interface
type BundleRepositoryImpl struct {
	*BaseRepository[models.Bundle, models.BundleFilter]
}

// NewBundleRepository creates a new bundle repository instance
func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &BundleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Bundle, models.BundleFilter](db),
	}
}

// ByUUID retrieves a bundle by its UUID, items preloaded
func (r *BundleRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Bundle, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, fmt.Errorf("invalid bundle UUID: %w", err)
	}

	db := r.getDB(ctx)
	var bundle models.Bundle
	err = db.Preload("Items").Preload("Items.Product").Where("uuid = ?", parsed).Last(&bundle).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find bundle by UUID: %w", err)
	}
	return &bundle, nil
}

// ListForSeller returns bundles the seller proposed or was invited to,
// newest first.
func (r *BundleRepositoryImpl) ListForSeller(ctx context.Context, sellerID uint, limit, offset int) ([]*models.Bundle, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Bundle{}).
		Preload("Items").
		Where("seller_id = ? OR partner_seller_id = ?", sellerID, sellerID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Bundle
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ByFilter retrieves bundles based on filter criteria
func (r *BundleRepositoryImpl) ByFilter(ctx context.Context, filter models.BundleFilter, orderBy string, limit, offset int) ([]*models.Bundle, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Bundle{}), filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Bundle
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of bundles matching the filter
func (r *BundleRepositoryImpl) Count(ctx context.Context, filter models.BundleFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Bundle{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any bundle matching the filter exists
func (r *BundleRepositoryImpl) Exists(ctx context.Context, filter models.BundleFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *BundleRepositoryImpl) applyFilter(query *gorm.DB, filter models.BundleFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.PartnerSellerID != nil {
		query = query.Where("partner_seller_id = ?", *filter.PartnerSellerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}
