package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mealforge/internal/models/db_models"
)

type TrackingRepository interface {
	InsertEntry(ctx context.Context, entry *db_models.CalorieEntry) error
	ListEntriesInWindow(ctx context.Context, accountID uuid.UUID, fromUnix, toUnix int64) ([]db_models.CalorieEntry, error)
	SumCaloriesInWindow(ctx context.Context, accountID uuid.UUID, fromUnix, toUnix int64) (int64, error)
}

type trackingRepository struct {
	db *gorm.DB
}

func NewTrackingRepository(db *gorm.DB) TrackingRepository {
	return &trackingRepository{db: db}
}

func (r *trackingRepository) InsertEntry(ctx context.Context, entry *db_models.CalorieEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *trackingRepository) ListEntriesInWindow(ctx context.Context, accountID uuid.UUID, fromUnix, toUnix int64) ([]db_models.CalorieEntry, error) {
	var entries []db_models.CalorieEntry
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND eaten_at >= ? AND eaten_at < ?", accountID, fromUnix, toUnix).
		Order("eaten_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *trackingRepository) SumCaloriesInWindow(ctx context.Context, accountID uuid.UUID, fromUnix, toUnix int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&db_models.CalorieEntry{}).
		Where("account_id = ? AND eaten_at >= ? AND eaten_at < ?", accountID, fromUnix, toUnix).
		Select("COALESCE(SUM(calories), 0)").
		Scan(&total).Error
	return total, err
}
