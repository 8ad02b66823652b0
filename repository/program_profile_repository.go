package repository

import (
	"context"
	"errors"

	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgramProfileRepositoryImpl implements ProgramProfileRepository interface
type ProgramProfileRepositoryImpl struct {
	*BaseRepository[models.ProgramProfile, models.ProgramProfileFilter]
}

// NewProgramProfileRepository creates a new program profile repository instance
func NewProgramProfileRepository(db *gorm.DB) ProgramProfileRepository {
	return &ProgramProfileRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ProgramProfile, models.ProgramProfileFilter](db),
	}
}

// BySellerID retrieves the seller's profile, or nil when none exists yet
func (r *ProgramProfileRepositoryImpl) BySellerID(ctx context.Context, sellerID uint) (*models.ProgramProfile, error) {
	db := r.getDB(ctx)

	var profile models.ProgramProfile
	err := db.Where("seller_id = ?", sellerID).Last(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// UpsertForSeller inserts or fully replaces the seller's single profile row.
// The conflict target is seller_id, keeping at most one active profile per
// tenant; model and rules columns are replaced, never merged.
func (r *ProgramProfileRepositoryImpl) UpsertForSeller(ctx context.Context, profile *models.ProgramProfile) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	if profile.UUID == uuid.Nil {
		profile.UUID = uuid.New()
	}
	profile.UpdatedAt = utils.UTCNow()

	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "seller_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"model", "durations", "rules", "hidden_discount_enabled",
			"retention_discount", "retention_type",
			"agent_name", "persona_prompt", "guardrails", "knowledge_refs",
			"script_template", "updated_at",
		}),
	}).Create(profile).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves profiles based on filter criteria
func (r *ProgramProfileRepositoryImpl) ByFilter(ctx context.Context, filter models.ProgramProfileFilter, orderBy string, limit, offset int) ([]*models.ProgramProfile, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ProgramProfile{}), filter)

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

	var rows []*models.ProgramProfile
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of profiles matching the filter
func (r *ProgramProfileRepositoryImpl) Count(ctx context.Context, filter models.ProgramProfileFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ProgramProfile{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any profile matching the filter exists
func (r *ProgramProfileRepositoryImpl) Exists(ctx context.Context, filter models.ProgramProfileFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ProgramProfileRepositoryImpl) applyFilter(query *gorm.DB, filter models.ProgramProfileFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.Model != nil {
		query = query.Where("model = ?", *filter.Model)
	}
	return query
}
