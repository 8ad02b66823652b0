package repository

import (
	"context"
	"fmt"

	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/utils"
	"gorm.io/gorm"
)

// ProspectRepositoryImpl implements the ProspectRepository interface
type ProspectRepositoryImpl struct {
	*BaseRepository[models.Prospect, models.ProspectFilter]
}

// NewProspectRepository creates a new prospect repository instance
func NewProspectRepository(db *gorm.DB) ProspectRepository {
	return &ProspectRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Prospect, models.ProspectFilter](db),
	}
}

// ByUUID retrieves a prospect by its UUID
func (r *ProspectRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Prospect, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, fmt.Errorf("invalid prospect UUID: %w", err)
	}

	db := r.getDB(ctx)
	var prospect models.Prospect
	err = db.Where("uuid = ?", parsed).Last(&prospect).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find prospect by UUID: %w", err)
	}
	return &prospect, nil
}

// ListCallable returns the seller's prospects eligible for dispatch,
// excluding do-not-call records, oldest first so the queue drains in order.
func (r *ProspectRepositoryImpl) ListCallable(ctx context.Context, sellerID uint, limit, offset int) ([]*models.Prospect, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Prospect{}).
		Where("seller_id = ?", sellerID).
		Where("do_not_call IS NOT TRUE").
		Order("created_at ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Prospect
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ByFilter retrieves prospects based on filter criteria
func (r *ProspectRepositoryImpl) ByFilter(ctx context.Context, filter models.ProspectFilter, orderBy string, limit, offset int) ([]*models.Prospect, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Prospect{}), filter)

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

	var rows []*models.Prospect
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of prospects matching the filter
func (r *ProspectRepositoryImpl) Count(ctx context.Context, filter models.ProspectFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Prospect{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any prospect matching the filter exists
func (r *ProspectRepositoryImpl) Exists(ctx context.Context, filter models.ProspectFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ProspectRepositoryImpl) applyFilter(query *gorm.DB, filter models.ProspectFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.Phone != nil {
		query = query.Where("phone = ?", *filter.Phone)
	}
	if filter.DoNotCall != nil {
		query = query.Where("do_not_call = ?", *filter.DoNotCall)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}
