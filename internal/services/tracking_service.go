package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"mealforge/internal/models/db_models"
	"mealforge/internal/models/request_models"
	"mealforge/internal/models/response_models"
	"mealforge/internal/repositories"
	"mealforge/pkg/utils"
)

type TrackingServiceInterface interface {
	AddEntry(ctx context.Context, accountID uuid.UUID, request request_models.AddCalorieEntryRequest) (*response_models.CalorieEntryResponse, error)
	DailySummary(ctx context.Context, accountID uuid.UUID, date string) (*response_models.DailySummaryResponse, error)
}

type TrackingService struct {
	trackingRepo repositories.TrackingRepository
	mealPlanRepo repositories.MealPlanRepository
	accountRepo  repositories.AccountRepository
}

func NewTrackingService(
	trackingRepo repositories.TrackingRepository,
	mealPlanRepo repositories.MealPlanRepository,
	accountRepo repositories.AccountRepository,
) TrackingServiceInterface {
	return &TrackingService{
		trackingRepo: trackingRepo,
		mealPlanRepo: mealPlanRepo,
		accountRepo:  accountRepo,
	}
}

func (t *TrackingService) AddEntry(ctx context.Context, accountID uuid.UUID, request request_models.AddCalorieEntryRequest) (*response_models.CalorieEntryResponse, error) {
	entry := db_models.CalorieEntry{
		AccountID: accountID,
		Name:      request.Name,
		Calories:  request.Calories,
		EatenAt:   time.Now().Unix(),
	}

	if request.EatenAt != "" {
		eatenAt, err := time.Parse(time.RFC3339, request.EatenAt)
		if err != nil {
			return nil, utils.ErrInvalidInput
		}
		entry.EatenAt = eatenAt.Unix()
	}

	// Entries referencing a generated meal take their name and calories from
	// the meal at its current portion multiplier; the request fields only
	// matter for free-form entries.
	if request.MealID != nil {
		mealID, err := uuid.Parse(*request.MealID)
		if err != nil {
			return nil, utils.ErrInvalidInput
		}
		ownerID, err := t.mealPlanRepo.GetMealOwner(ctx, mealID)
		if err != nil || ownerID != accountID {
			return nil, utils.ErrMealNotFound
		}
		meal, err := t.mealPlanRepo.GetMealByID(ctx, mealID)
		if err != nil || meal == nil {
			return nil, utils.ErrMealNotFound
		}
		entry.MealID = &mealID
		entry.Name = meal.Name
		entry.Calories = int(math.Round(float64(meal.Calories) * meal.PortionMultiplier))
	} else if entry.Name == "" || entry.Calories <= 0 {
		return nil, utils.ErrInvalidInput
	}

	if err := t.trackingRepo.InsertEntry(ctx, &entry); err != nil {
		return nil, utils.ErrDatabaseError
	}

	response := toEntryResponse(entry)
	return &response, nil
}

func (t *TrackingService) DailySummary(ctx context.Context, accountID uuid.UUID, date string) (*response_models.DailySummaryResponse, error) {
	day := time.Now()
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return nil, utils.ErrInvalidInput
		}
		day = parsed
	}
	fromUnix, toUnix := utils.DayBounds(day)

	account, err := t.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	entries, err := t.trackingRepo.ListEntriesInWindow(ctx, accountID, fromUnix, toUnix)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	total, err := t.trackingRepo.SumCaloriesInWindow(ctx, accountID, fromUnix, toUnix)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	remaining := account.DailyCalorieTarget - int(total)
	if remaining < 0 {
		remaining = 0
	}

	summary := &response_models.DailySummaryResponse{
		Date:          day.Format("2006-01-02"),
		TotalCalories: int(total),
		Target:        account.DailyCalorieTarget,
		Remaining:     remaining,
		Entries:       make([]response_models.CalorieEntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		summary.Entries = append(summary.Entries, toEntryResponse(entry))
	}
	return summary, nil
}

func toEntryResponse(entry db_models.CalorieEntry) response_models.CalorieEntryResponse {
	return response_models.CalorieEntryResponse{
		ID:       entry.ID.String(),
		Name:     entry.Name,
		Calories: entry.Calories,
		EatenAt:  utils.FormatRFC3339(utils.FromUnixSeconds(entry.EatenAt)),
	}
}
