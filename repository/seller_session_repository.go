package repository

import (
	"context"
	"errors"

	"github.com/copromote/henry-help/models"
	"gorm.io/gorm"
)

// SellerSessionRepositoryImpl implements SellerSessionRepository interface
type SellerSessionRepositoryImpl struct {
	*BaseRepository[models.SellerSession, models.SellerSessionFilter]
}

// NewSellerSessionRepository creates a new seller session repository instance
func NewSellerSessionRepository(db *gorm.DB) SellerSessionRepository {
	return &SellerSessionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SellerSession, models.SellerSessionFilter](db),
	}
}

// ByToken retrieves a session by its access token
func (r *SellerSessionRepositoryImpl) ByToken(ctx context.Context, token string) (*models.SellerSession, error) {
	db := r.getDB(ctx)

	var session models.SellerSession
	err := db.Where("session_token = ?", token).Last(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// DeactivateForSeller marks every active session for the seller inactive
func (r *SellerSessionRepositoryImpl) DeactivateForSeller(ctx context.Context, sellerID uint) error {
	db := r.getDB(ctx)
	return db.Model(&models.SellerSession{}).
		Where("seller_id = ? AND is_active = true", sellerID).
		Update("is_active", false).Error
}

// ByFilter retrieves sessions based on filter criteria
func (r *SellerSessionRepositoryImpl) ByFilter(ctx context.Context, filter models.SellerSessionFilter, orderBy string, limit, offset int) ([]*models.SellerSession, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SellerSession{}), filter)

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

	var rows []*models.SellerSession
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of sessions matching the filter
func (r *SellerSessionRepositoryImpl) Count(ctx context.Context, filter models.SellerSessionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SellerSession{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any session matching the filter exists
func (r *SellerSessionRepositoryImpl) Exists(ctx context.Context, filter models.SellerSessionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SellerSessionRepositoryImpl) applyFilter(query *gorm.DB, filter models.SellerSessionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.CorrelationID != nil {
		query = query.Where("correlation_id = ?", *filter.CorrelationID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IPAddress != nil {
		query = query.Where("ip_address = ?", *filter.IPAddress)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	if filter.ExpiresAfter != nil {
		query = query.Where("expires_at > ?", *filter.ExpiresAfter)
	}
	if filter.ExpiresBefore != nil {
		query = query.Where("expires_at < ?", *filter.ExpiresBefore)
	}
	return query
}
