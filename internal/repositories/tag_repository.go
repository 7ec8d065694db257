package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mealforge/internal/models/db_models"
)

type TagRepositoryInterface interface {
	CreateTag(ctx context.Context, tag db_models.DietTag) error
	GetTagByCode(ctx context.Context, code string) (*db_models.DietTag, error)
	GetAllTags(ctx context.Context, page int, pageSize int) ([]db_models.DietTag, error)
}

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepositoryInterface {
	return &TagRepository{db: db}
}

func (t *TagRepository) CreateTag(ctx context.Context, tag db_models.DietTag) error {
	return t.db.WithContext(ctx).Create(&tag).Error
}

func (t *TagRepository) GetTagByCode(ctx context.Context, code string) (*db_models.DietTag, error) {
	var tag db_models.DietTag
	err := t.db.WithContext(ctx).Where("code = ?", code).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

func (t *TagRepository) GetAllTags(ctx context.Context, page int, pageSize int) ([]db_models.DietTag, error) {
	var tags []db_models.DietTag
	err := t.db.WithContext(ctx).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Order("code ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}
