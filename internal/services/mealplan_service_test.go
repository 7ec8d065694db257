package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealforge/internal/models/db_models"
	"mealforge/internal/models/request_models"
	"mealforge/internal/repositories"
	"mealforge/pkg/utils"
)

// fakeGenerator records calls so tests can assert the token is spent before
// the model is ever invoked.
type fakeGenerator struct {
	calls    int
	response string
	err      error
}

func (f *fakeGenerator) GenerateMealPlanJSON(ctx context.Context, goal, diet string, days int, exclusions []string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.response != "" {
		return f.response, nil
	}
	return buildGeneratorResponse(days), nil
}

func (f *fakeGenerator) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	return pgvector.NewVector(make([]float32, 4)), nil
}

func (f *fakeGenerator) Close() error { return nil }

func buildGeneratorResponse(days int) string {
	type mealJSON struct {
		Name        string   `json:"name"`
		Slot        string   `json:"slot"`
		Calories    int      `json:"calories"`
		ProteinG    int      `json:"protein_g"`
		CarbsG      int      `json:"carbs_g"`
		FatG        int      `json:"fat_g"`
		Ingredients []string `json:"ingredients"`
		Recipe      string   `json:"recipe"`
	}
	type dayJSON struct {
		Day   int        `json:"day"`
		Meals []mealJSON `json:"meals"`
	}
	payload := struct {
		Title string    `json:"title"`
		Days  []dayJSON `json:"days"`
	}{Title: "Test plan"}

	for d := 1; d <= days; d++ {
		payload.Days = append(payload.Days, dayJSON{
			Day: d,
			Meals: []mealJSON{
				{Name: fmt.Sprintf("Oats %d", d), Slot: "breakfast", Calories: 400, ProteinG: 20, CarbsG: 50, FatG: 10, Ingredients: []string{"oats", "milk"}},
				{Name: fmt.Sprintf("Salad %d", d), Slot: "lunch", Calories: 550, ProteinG: 35, CarbsG: 40, FatG: 20, Ingredients: []string{"chicken", "greens"}},
			},
		})
	}
	out, _ := json.Marshal(payload)
	return string(out)
}

// fakeMealPlanRepo stores plans in memory, enough for the service-level flows.
type fakeMealPlanRepo struct {
	plans map[uuid.UUID]*db_models.MealPlan
	meals map[uuid.UUID]*db_models.Meal // meal id -> meal, owner via plans
	owner map[uuid.UUID]uuid.UUID       // meal id -> account id
}

func newFakeMealPlanRepo() *fakeMealPlanRepo {
	return &fakeMealPlanRepo{
		plans: make(map[uuid.UUID]*db_models.MealPlan),
		meals: make(map[uuid.UUID]*db_models.Meal),
		owner: make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeMealPlanRepo) Insert(ctx context.Context, plan *db_models.MealPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	for i := range plan.Days {
		day := &plan.Days[i]
		if day.ID == uuid.Nil {
			day.ID = uuid.New()
		}
		for j := range day.Meals {
			meal := &day.Meals[j]
			if meal.ID == uuid.Nil {
				meal.ID = uuid.New()
			}
			f.meals[meal.ID] = meal
			f.owner[meal.ID] = plan.AccountID
		}
	}
	f.plans[plan.ID] = plan
	return nil
}

func (f *fakeMealPlanRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]db_models.MealPlan, error) {
	var out []db_models.MealPlan
	for _, plan := range f.plans {
		if plan.AccountID == accountID {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (f *fakeMealPlanRepo) GetByID(ctx context.Context, planID uuid.UUID) (*db_models.MealPlan, error) {
	if plan, ok := f.plans[planID]; ok {
		return plan, nil
	}
	return nil, nil
}

func (f *fakeMealPlanRepo) Delete(ctx context.Context, planID uuid.UUID) error {
	delete(f.plans, planID)
	return nil
}

func (f *fakeMealPlanRepo) GetMealByID(ctx context.Context, mealID uuid.UUID) (*db_models.Meal, error) {
	if meal, ok := f.meals[mealID]; ok {
		return meal, nil
	}
	return nil, nil
}

func (f *fakeMealPlanRepo) GetMealOwner(ctx context.Context, mealID uuid.UUID) (uuid.UUID, error) {
	return f.owner[mealID], nil
}

func (f *fakeMealPlanRepo) UpdateMealPortion(ctx context.Context, mealID uuid.UUID, multiplier float64) error {
	if meal, ok := f.meals[mealID]; ok {
		meal.PortionMultiplier = multiplier
	}
	return nil
}

func (f *fakeMealPlanRepo) SetMealFavorite(ctx context.Context, mealID uuid.UUID, favorite bool) error {
	if meal, ok := f.meals[mealID]; ok {
		meal.IsFavorite = favorite
	}
	return nil
}

func (f *fakeMealPlanRepo) ListFavoriteMeals(ctx context.Context, accountID uuid.UUID) ([]db_models.Meal, error) {
	var out []db_models.Meal
	for id, meal := range f.meals {
		if meal.IsFavorite && f.owner[id] == accountID {
			out = append(out, *meal)
		}
	}
	return out, nil
}

func (f *fakeMealPlanRepo) ScheduleDay(ctx context.Context, planID uuid.UUID, dayNumber int, scheduledFor int64) error {
	plan, ok := f.plans[planID]
	if !ok {
		return nil
	}
	for i := range plan.Days {
		if plan.Days[i].DayNumber == dayNumber {
			plan.Days[i].ScheduledFor = &scheduledFor
		}
	}
	return nil
}

type fakeEmbeddingRepo struct {
	upserts int
	deletes int
}

func (f *fakeEmbeddingRepo) Upsert(embedding db_models.MealEmbedding) error {
	f.upserts++
	return nil
}

func (f *fakeEmbeddingRepo) DeleteByMealID(mealID uuid.UUID) error {
	f.deletes++
	return nil
}

func (f *fakeEmbeddingRepo) ListSimilarByVector(accountID uuid.UUID, vector pgvector.Vector, excludeMealID uuid.UUID) ([]repositories.SimilarMealRow, error) {
	return nil, nil
}

type mealPlanFixture struct {
	service     MealPlanServiceInterface
	accountRepo *fakeAccountRepo
	planRepo    *fakeMealPlanRepo
	generator   *fakeGenerator
	embeddings  *fakeEmbeddingRepo
	accountID   uuid.UUID
}

func newMealPlanFixture(t *testing.T) *mealPlanFixture {
	t.Helper()
	now := time.Date(2025, 7, 5, 12, 0, 0, 0, time.UTC)
	accountRepo := newFakeAccountRepo()
	account := newFreeAccount(now)
	accountRepo.put(account)

	planRepo := newFakeMealPlanRepo()
	generator := &fakeGenerator{}
	embeddings := &fakeEmbeddingRepo{}
	entitlement := newTestEntitlement(accountRepo, now)

	return &mealPlanFixture{
		service:     NewMealPlanService(entitlement, generator, accountRepo, planRepo, embeddings),
		accountRepo: accountRepo,
		planRepo:    planRepo,
		generator:   generator,
		embeddings:  embeddings,
		accountID:   account.ID,
	}
}

func TestGenerateMealPlanSpendsTokenAndPersists(t *testing.T) {
	fx := newMealPlanFixture(t)
	ctx := context.Background()

	plan, err := fx.service.GenerateMealPlan(ctx, fx.accountID, request_models.GenerateMealPlanRequest{
		Goal: "cut to 1800 kcal", Diet: "vegetarian", Days: 3,
	})
	require.NoError(t, err)
	require.Len(t, plan.Days, 3)
	assert.Equal(t, 1, fx.generator.calls)
	assert.Equal(t, db_models.FreeMonthlyTokens-1, fx.accountRepo.get(fx.accountID).TokenBalance)
	assert.Len(t, fx.planRepo.plans, 1)
}

func TestGenerateMealPlanOutOfTokensSkipsGenerator(t *testing.T) {
	fx := newMealPlanFixture(t)
	ctx := context.Background()

	drained := fx.accountRepo.get(fx.accountID)
	drained.TokenBalance = 0
	fx.accountRepo.put(drained)

	_, err := fx.service.GenerateMealPlan(ctx, fx.accountID, request_models.GenerateMealPlanRequest{
		Goal: "bulk", Days: 2,
	})
	assert.ErrorIs(t, err, utils.ErrOutOfTokens)
	assert.Equal(t, 0, fx.generator.calls, "gate failure must not reach the model")
	assert.Empty(t, fx.planRepo.plans)
}

func TestGenerateMealPlanGeneratorFailureLeavesTokenSpent(t *testing.T) {
	fx := newMealPlanFixture(t)
	fx.generator.err = errors.New("upstream timeout")
	ctx := context.Background()

	_, err := fx.service.GenerateMealPlan(ctx, fx.accountID, request_models.GenerateMealPlanRequest{
		Goal: "maintain", Days: 2,
	})
	assert.ErrorIs(t, err, utils.ErrUnexpectedBehaviorOfAI)
	assert.Equal(t, db_models.FreeMonthlyTokens-1, fx.accountRepo.get(fx.accountID).TokenBalance)
	assert.Empty(t, fx.planRepo.plans)
}

func TestGenerateMealPlanRejectsWrongDayCount(t *testing.T) {
	fx := newMealPlanFixture(t)
	fx.generator.response = buildGeneratorResponse(5) // caller asked for 3
	ctx := context.Background()

	_, err := fx.service.GenerateMealPlan(ctx, fx.accountID, request_models.GenerateMealPlanRequest{
		Goal: "maintain", Days: 3,
	})
	assert.ErrorIs(t, err, utils.ErrUnexpectedBehaviorOfAI)
	assert.Empty(t, fx.planRepo.plans)
}

func TestMealPlanOwnershipIsEnforced(t *testing.T) {
	fx := newMealPlanFixture(t)
	ctx := context.Background()

	plan, err := fx.service.GenerateMealPlan(ctx, fx.accountID, request_models.GenerateMealPlanRequest{
		Goal: "cut", Days: 1,
	})
	require.NoError(t, err)
	planID := uuid.MustParse(plan.ID)

	stranger := uuid.New()
	_, err = fx.service.GetMealPlanDetail(ctx, stranger, planID)
	assert.ErrorIs(t, err, utils.ErrMealPlanNotFound)

	err = fx.service.DeleteMealPlan(ctx, stranger, planID)
	assert.ErrorIs(t, err, utils.ErrMealPlanNotFound)
	assert.Len(t, fx.planRepo.plans, 1, "foreign delete must not remove the plan")
}

func TestUpdateMealPortionScalesResponse(t *testing.T) {
	fx := newMealPlanFixture(t)
	ctx := context.Background()

	plan, err := fx.service.GenerateMealPlan(ctx, fx.accountID, request_models.GenerateMealPlanRequest{
		Goal: "cut", Days: 1,
	})
	require.NoError(t, err)
	mealID := uuid.MustParse(plan.Days[0].Meals[0].ID)
	baseCalories := plan.Days[0].Meals[0].Calories

	updated, err := fx.service.UpdateMealPortion(ctx, fx.accountID, mealID, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, updated.PortionMultiplier)
	assert.Equal(t, int(float64(baseCalories)*1.5), updated.Calories)

	_, err = fx.service.UpdateMealPortion(ctx, fx.accountID, mealID, 0)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
	_, err = fx.service.UpdateMealPortion(ctx, fx.accountID, mealID, 11)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestSetMealFavoriteMaintainsEmbeddings(t *testing.T) {
	fx := newMealPlanFixture(t)
	ctx := context.Background()

	plan, err := fx.service.GenerateMealPlan(ctx, fx.accountID, request_models.GenerateMealPlanRequest{
		Goal: "cut", Days: 1,
	})
	require.NoError(t, err)
	mealID := uuid.MustParse(plan.Days[0].Meals[0].ID)

	require.NoError(t, fx.service.SetMealFavorite(ctx, fx.accountID, mealID, true))
	assert.Equal(t, 1, fx.embeddings.upserts)

	favorites, err := fx.service.ListFavoriteMeals(ctx, fx.accountID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.True(t, favorites[0].IsFavorite)

	require.NoError(t, fx.service.SetMealFavorite(ctx, fx.accountID, mealID, false))
	assert.Equal(t, 1, fx.embeddings.deletes)
}

func TestScheduleDayValidatesRange(t *testing.T) {
	fx := newMealPlanFixture(t)
	ctx := context.Background()

	plan, err := fx.service.GenerateMealPlan(ctx, fx.accountID, request_models.GenerateMealPlanRequest{
		Goal: "cut", Days: 2,
	})
	require.NoError(t, err)
	planID := uuid.MustParse(plan.ID)

	err = fx.service.ScheduleDay(ctx, fx.accountID, planID, request_models.ScheduleDayRequest{
		DayNumber: 3, Date: "2025-07-10",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	err = fx.service.ScheduleDay(ctx, fx.accountID, planID, request_models.ScheduleDayRequest{
		DayNumber: 2, Date: "not-a-date",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	require.NoError(t, fx.service.ScheduleDay(ctx, fx.accountID, planID, request_models.ScheduleDayRequest{
		DayNumber: 2, Date: "2025-07-10",
	}))
	stored := fx.planRepo.plans[planID]
	require.NotNil(t, stored.Days[1].ScheduledFor)
}
