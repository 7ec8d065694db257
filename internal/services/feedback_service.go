package services

import (
	"context"

	"github.com/google/uuid"

	"mealforge/internal/models/db_models"
	"mealforge/internal/models/response_models"
	"mealforge/internal/repositories"
	"mealforge/pkg/utils"
)

type FeedbackServiceInterface interface {
	AddFeedback(ctx context.Context, accountID, mealPlanID uuid.UUID, comment string, rating int) error
	ListFeedbackForPlan(ctx context.Context, accountID, mealPlanID uuid.UUID, page, pageSize int) ([]response_models.FeedbackResponse, error)
}

type FeedbackService struct {
	feedbackRepo repositories.FeedbackRepositoryInterface
	mealPlanRepo repositories.MealPlanRepository
}

func NewFeedbackService(
	feedbackRepo repositories.FeedbackRepositoryInterface,
	mealPlanRepo repositories.MealPlanRepository,
) FeedbackServiceInterface {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		mealPlanRepo: mealPlanRepo,
	}
}

func (s *FeedbackService) AddFeedback(ctx context.Context, accountID, mealPlanID uuid.UUID, comment string, rating int) error {
	if rating < 1 || rating > 5 {
		return utils.ErrInvalidInput
	}

	// Feedback only attaches to a plan the caller owns.
	plan, err := s.mealPlanRepo.GetByID(ctx, mealPlanID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if plan == nil || plan.AccountID != accountID {
		return utils.ErrMealPlanNotFound
	}

	feedback := &db_models.Feedback{
		AccountID:  accountID,
		MealPlanID: mealPlanID,
		Comment:    comment,
		Rating:     rating,
	}
	if err := s.feedbackRepo.CreateFeedback(ctx, feedback); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *FeedbackService) ListFeedbackForPlan(ctx context.Context, accountID, mealPlanID uuid.UUID, page, pageSize int) ([]response_models.FeedbackResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	plan, err := s.mealPlanRepo.GetByID(ctx, mealPlanID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil || plan.AccountID != accountID {
		return nil, utils.ErrMealPlanNotFound
	}

	feedbacks, err := s.feedbackRepo.ListFeedbackForPlan(ctx, mealPlanID, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.FeedbackResponse, 0, len(feedbacks))
	for _, fb := range feedbacks {
		out = append(out, response_models.FeedbackResponse{
			ID:        fb.ID.String(),
			Rating:    fb.Rating,
			Comment:   fb.Comment,
			CreatedAt: fb.CreatedAt,
		})
	}
	return out, nil
}
