package services

import (
	"context"

	"mealforge/internal/models/response_models"
	"mealforge/internal/repositories"
	"mealforge/pkg/utils"
)

type TagServiceInterface interface {
	GetAllTags(ctx context.Context, page int, pageSize int) ([]response_models.TagResponse, error)
}

type TagService struct {
	tagRepo repositories.TagRepositoryInterface
}

func NewTagService(tagRepo repositories.TagRepositoryInterface) TagServiceInterface {
	return &TagService{tagRepo: tagRepo}
}

func (t *TagService) GetAllTags(ctx context.Context, page int, pageSize int) ([]response_models.TagResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	tags, err := t.tagRepo.GetAllTags(ctx, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	tagResponses := make([]response_models.TagResponse, 0, len(tags))
	for _, tag := range tags {
		tagResponses = append(tagResponses, response_models.TagResponse{
			ID:    tag.ID.String(),
			Code:  tag.Code,
			Label: tag.Label,
			Icon:  tag.Icon,
		})
	}
	return tagResponses, nil
}
