package repository

import (
	"context"
	"fmt"

	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CallRecordRepositoryImpl implements the CallRecordRepository interface
type CallRecordRepositoryImpl struct {
	*BaseRepository[models.CallRecord, models.CallRecordFilter]
}

// NewCallRecordRepository creates a new call record repository instance
func NewCallRecordRepository(db *gorm.DB) CallRecordRepository {
	return &CallRecordRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CallRecord, models.CallRecordFilter](db),
	}
}

// ByProviderCallID retrieves a call record by the provider's call identifier
func (r *CallRecordRepositoryImpl) ByProviderCallID(ctx context.Context, providerCallID string) (*models.CallRecord, error) {
	db := r.getDB(ctx)

	var record models.CallRecord
	err := db.Where("provider_call_id = ?", providerCallID).Last(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find call record by provider call ID: %w", err)
	}
	return &record, nil
}

// UpsertByProviderCallID inserts or updates a call record keyed by
// provider_call_id. Status webhooks can arrive duplicated or out of band, so
// replays land on the same row instead of creating new ones.
func (r *CallRecordRepositoryImpl) UpsertByProviderCallID(ctx context.Context, record *models.CallRecord) error {
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

	if record.UUID == uuid.Nil {
		record.UUID = uuid.New()
	}
	record.UpdatedAt = utils.UTCNow()

	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_call_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "outcome", "transcript", "duration_secs", "completed_at", "updated_at",
		}),
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert call record: %w", err)
	}

	return nil
}

// ByFilter retrieves call records based on filter criteria
func (r *CallRecordRepositoryImpl) ByFilter(ctx context.Context, filter models.CallRecordFilter, orderBy string, limit, offset int) ([]*models.CallRecord, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CallRecord{}), filter)

	if orderBy == "" {
		orderBy = "dispatched_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.CallRecord
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of call records matching the filter
func (r *CallRecordRepositoryImpl) Count(ctx context.Context, filter models.CallRecordFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CallRecord{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any call record matching the filter exists
func (r *CallRecordRepositoryImpl) Exists(ctx context.Context, filter models.CallRecordFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CallRecordRepositoryImpl) applyFilter(query *gorm.DB, filter models.CallRecordFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.CampaignID != nil {
		query = query.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.ProspectID != nil {
		query = query.Where("prospect_id = ?", *filter.ProspectID)
	}
	if filter.ProviderCallID != nil {
		query = query.Where("provider_call_id = ?", *filter.ProviderCallID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Outcome != nil {
		query = query.Where("outcome = ?", *filter.Outcome)
	}
	if filter.After != nil {
		query = query.Where("dispatched_at > ?", *filter.After)
	}
	if filter.Before != nil {
		query = query.Where("dispatched_at < ?", *filter.Before)
	}
	return query
}
