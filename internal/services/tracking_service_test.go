package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealforge/internal/models/db_models"
	"mealforge/internal/models/request_models"
	"mealforge/pkg/utils"
)

type fakeTrackingRepo struct {
	entries []db_models.CalorieEntry
}

func (f *fakeTrackingRepo) InsertEntry(ctx context.Context, entry *db_models.CalorieEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeTrackingRepo) ListEntriesInWindow(ctx context.Context, accountID uuid.UUID, fromUnix, toUnix int64) ([]db_models.CalorieEntry, error) {
	var out []db_models.CalorieEntry
	for _, entry := range f.entries {
		if entry.AccountID == accountID && entry.EatenAt >= fromUnix && entry.EatenAt < toUnix {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeTrackingRepo) SumCaloriesInWindow(ctx context.Context, accountID uuid.UUID, fromUnix, toUnix int64) (int64, error) {
	var total int64
	for _, entry := range f.entries {
		if entry.AccountID == accountID && entry.EatenAt >= fromUnix && entry.EatenAt < toUnix {
			total += int64(entry.Calories)
		}
	}
	return total, nil
}

func TestAddEntryFreeForm(t *testing.T) {
	accountRepo := newFakeAccountRepo()
	account := newFreeAccount(time.Now())
	accountRepo.put(account)
	tracking := &fakeTrackingRepo{}
	svc := NewTrackingService(tracking, newFakeMealPlanRepo(), accountRepo)

	entry, err := svc.AddEntry(context.Background(), account.ID, request_models.AddCalorieEntryRequest{
		Name: "Banana", Calories: 105,
	})
	require.NoError(t, err)
	assert.Equal(t, "Banana", entry.Name)
	assert.Equal(t, 105, entry.Calories)
	require.Len(t, tracking.entries, 1)

	// Free-form entries need a name and positive calories.
	_, err = svc.AddEntry(context.Background(), account.ID, request_models.AddCalorieEntryRequest{Calories: 105})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestAddEntryFromMealUsesPortionScaling(t *testing.T) {
	accountRepo := newFakeAccountRepo()
	account := newFreeAccount(time.Now())
	accountRepo.put(account)

	planRepo := newFakeMealPlanRepo()
	mealID := uuid.New()
	planRepo.meals[mealID] = &db_models.Meal{
		BaseModel:         db_models.BaseModel{ID: mealID},
		Name:              "Chicken bowl",
		Calories:          600,
		PortionMultiplier: 1.5,
	}
	planRepo.owner[mealID] = account.ID

	tracking := &fakeTrackingRepo{}
	svc := NewTrackingService(tracking, planRepo, accountRepo)

	raw := mealID.String()
	entry, err := svc.AddEntry(context.Background(), account.ID, request_models.AddCalorieEntryRequest{MealID: &raw})
	require.NoError(t, err)
	assert.Equal(t, "Chicken bowl", entry.Name)
	assert.Equal(t, 900, entry.Calories)

	// Someone else's meal reads as not found.
	planRepo.owner[mealID] = uuid.New()
	_, err = svc.AddEntry(context.Background(), account.ID, request_models.AddCalorieEntryRequest{MealID: &raw})
	assert.ErrorIs(t, err, utils.ErrMealNotFound)
}

func TestDailySummaryAgainstTarget(t *testing.T) {
	accountRepo := newFakeAccountRepo()
	account := newFreeAccount(time.Now())
	account.DailyCalorieTarget = 2000
	accountRepo.put(account)

	day := time.Date(2025, 9, 14, 12, 0, 0, 0, time.Local)
	dayStart, _ := utils.DayBounds(day)

	tracking := &fakeTrackingRepo{entries: []db_models.CalorieEntry{
		{BaseModel: db_models.BaseModel{ID: uuid.New()}, AccountID: account.ID, Name: "Oats", Calories: 400, EatenAt: dayStart + 3600},
		{BaseModel: db_models.BaseModel{ID: uuid.New()}, AccountID: account.ID, Name: "Salad", Calories: 500, EatenAt: dayStart + 7200},
		// Previous day, excluded from the window.
		{BaseModel: db_models.BaseModel{ID: uuid.New()}, AccountID: account.ID, Name: "Pizza", Calories: 1200, EatenAt: dayStart - 3600},
	}}
	svc := NewTrackingService(tracking, newFakeMealPlanRepo(), accountRepo)

	summary, err := svc.DailySummary(context.Background(), account.ID, "2025-09-14")
	require.NoError(t, err)
	assert.Equal(t, 900, summary.TotalCalories)
	assert.Equal(t, 2000, summary.Target)
	assert.Equal(t, 1100, summary.Remaining)
	assert.Len(t, summary.Entries, 2)

	_, err = svc.DailySummary(context.Background(), account.ID, "14/09/2025")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestDailySummaryRemainingFloorsAtZero(t *testing.T) {
	accountRepo := newFakeAccountRepo()
	account := newFreeAccount(time.Now())
	account.DailyCalorieTarget = 1500
	accountRepo.put(account)

	day := time.Date(2025, 9, 14, 12, 0, 0, 0, time.Local)
	dayStart, _ := utils.DayBounds(day)
	tracking := &fakeTrackingRepo{entries: []db_models.CalorieEntry{
		{BaseModel: db_models.BaseModel{ID: uuid.New()}, AccountID: account.ID, Name: "Feast", Calories: 2400, EatenAt: dayStart + 100},
	}}
	svc := NewTrackingService(tracking, newFakeMealPlanRepo(), accountRepo)

	summary, err := svc.DailySummary(context.Background(), account.ID, "2025-09-14")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Remaining)
}
