package repository

import (
	"context"
	"errors"

	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/utils"
	"gorm.io/gorm"
)

// SellerRepositoryImpl implements SellerRepository interface
type SellerRepositoryImpl struct {
	*BaseRepository[models.Seller, models.SellerFilter]
}

// NewSellerRepository creates a new seller repository instance
func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &SellerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Seller, models.SellerFilter](db),
	}
}

// ByEmail retrieves a seller by email address
func (r *SellerRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Seller, error) {
	db := r.getDB(ctx)

	var seller models.Seller
	err := db.Where("email = ?", email).Last(&seller).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &seller, nil
}

// ByUUID retrieves a seller by UUID
func (r *SellerRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Seller, error) {
	parsed, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	rows, err := r.ByFilter(ctx, models.SellerFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListActive returns active sellers ordered by creation time
func (r *SellerRepositoryImpl) ListActive(ctx context.Context, limit, offset int) ([]*models.Seller, error) {
	active := true
	return r.ByFilter(ctx, models.SellerFilter{IsActive: &active}, "created_at DESC", limit, offset)
}

// ByFilter retrieves sellers based on filter criteria
func (r *SellerRepositoryImpl) ByFilter(ctx context.Context, filter models.SellerFilter, orderBy string, limit, offset int) ([]*models.Seller, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Seller{}), filter)

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

	var rows []*models.Seller
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of sellers matching the filter
func (r *SellerRepositoryImpl) Count(ctx context.Context, filter models.SellerFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Seller{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any seller matching the filter exists
func (r *SellerRepositoryImpl) Exists(ctx context.Context, filter models.SellerFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SellerRepositoryImpl) applyFilter(query *gorm.DB, filter models.SellerFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.CompanyName != nil {
		query = query.Where("company_name = ?", *filter.CompanyName)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}
