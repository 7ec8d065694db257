package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"mealforge/internal/models/db_models"
	"mealforge/internal/models/request_models"
	"mealforge/internal/models/response_models"
	"mealforge/internal/repositories"
	"mealforge/pkg/utils"
)

type MealPlanServiceInterface interface {
	GenerateMealPlan(ctx context.Context, accountID uuid.UUID, request request_models.GenerateMealPlanRequest) (*response_models.MealPlanDetailResponse, error)
	ListMealPlans(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]response_models.MealPlanResponse, error)
	GetMealPlanDetail(ctx context.Context, accountID, planID uuid.UUID) (*response_models.MealPlanDetailResponse, error)
	DeleteMealPlan(ctx context.Context, accountID, planID uuid.UUID) error

	UpdateMealPortion(ctx context.Context, accountID, mealID uuid.UUID, multiplier float64) (*response_models.MealResponse, error)
	SetMealFavorite(ctx context.Context, accountID, mealID uuid.UUID, favorite bool) error
	ListFavoriteMeals(ctx context.Context, accountID uuid.UUID) ([]response_models.MealResponse, error)
	ListSimilarFavorites(ctx context.Context, accountID, mealID uuid.UUID) ([]response_models.SimilarMealResponse, error)

	ScheduleDay(ctx context.Context, accountID, planID uuid.UUID, request request_models.ScheduleDayRequest) error
}

type MealPlanService struct {
	entitlement   EntitlementServiceInterface
	generator     utils.MealGeneratorInterface
	accountRepo   repositories.AccountRepository
	mealPlanRepo  repositories.MealPlanRepository
	embeddingRepo repositories.MealEmbeddingRepository
}

func NewMealPlanService(
	entitlement EntitlementServiceInterface,
	generator utils.MealGeneratorInterface,
	accountRepo repositories.AccountRepository,
	mealPlanRepo repositories.MealPlanRepository,
	embeddingRepo repositories.MealEmbeddingRepository,
) MealPlanServiceInterface {
	return &MealPlanService{
		entitlement:   entitlement,
		generator:     generator,
		accountRepo:   accountRepo,
		mealPlanRepo:  mealPlanRepo,
		embeddingRepo: embeddingRepo,
	}
}

// generatedPlanPayload mirrors the JSON contract given to the generator.
type generatedPlanPayload struct {
	Title string `json:"title"`
	Days  []struct {
		Day   int `json:"day"`
		Meals []struct {
			Name        string   `json:"name"`
			Slot        string   `json:"slot"`
			Calories    int      `json:"calories"`
			ProteinG    int      `json:"protein_g"`
			CarbsG      int      `json:"carbs_g"`
			FatG        int      `json:"fat_g"`
			Ingredients []string `json:"ingredients"`
			Recipe      string   `json:"recipe"`
		} `json:"meals"`
	} `json:"days"`
}

func (m *MealPlanService) GenerateMealPlan(ctx context.Context, accountID uuid.UUID, request request_models.GenerateMealPlanRequest) (*response_models.MealPlanDetailResponse, error) {
	account, err := m.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	// Spend the token before calling the generator. A gate failure means the
	// model is never invoked; a generator failure after this point leaves the
	// token spent.
	if err := m.entitlement.ConsumeToken(ctx, accountID); err != nil {
		return nil, err
	}

	rawJSON, err := m.generator.GenerateMealPlanJSON(ctx, request.Goal, request.Diet, request.Days, account.ExcludedFoods)
	if err != nil {
		log.Printf("Meal generation failed for account %s: %v", accountID, err)
		return nil, utils.ErrUnexpectedBehaviorOfAI
	}

	var payload generatedPlanPayload
	if err := json.Unmarshal([]byte(rawJSON), &payload); err != nil {
		return nil, utils.ErrUnexpectedBehaviorOfAI
	}
	if len(payload.Days) != request.Days {
		return nil, utils.ErrUnexpectedBehaviorOfAI
	}

	plan := buildPlanModel(accountID, request, payload)
	if err := m.mealPlanRepo.Insert(ctx, plan); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return toPlanDetailResponse(plan), nil
}

func buildPlanModel(accountID uuid.UUID, request request_models.GenerateMealPlanRequest, payload generatedPlanPayload) *db_models.MealPlan {
	title := strings.TrimSpace(payload.Title)
	if title == "" {
		title = fmt.Sprintf("%d-day plan: %s", request.Days, request.Goal)
	}

	plan := &db_models.MealPlan{
		AccountID:    accountID,
		Title:        title,
		Goal:         request.Goal,
		Diet:         request.Diet,
		DurationDays: request.Days,
	}

	for _, day := range payload.Days {
		planDay := db_models.MealPlanDay{DayNumber: day.Day}
		for _, meal := range day.Meals {
			ingredients, _ := json.Marshal(meal.Ingredients)
			planDay.Meals = append(planDay.Meals, db_models.Meal{
				Name:              meal.Name,
				Slot:              normalizeSlot(meal.Slot),
				Calories:          meal.Calories,
				ProteinG:          meal.ProteinG,
				CarbsG:            meal.CarbsG,
				FatG:              meal.FatG,
				Ingredients:       datatypes.JSON(ingredients),
				Recipe:            meal.Recipe,
				PortionMultiplier: 1,
			})
		}
		plan.Days = append(plan.Days, planDay)
	}
	return plan
}

func normalizeSlot(slot string) db_models.MealSlot {
	switch strings.ToLower(strings.TrimSpace(slot)) {
	case "breakfast":
		return db_models.SlotBreakfast
	case "lunch":
		return db_models.SlotLunch
	case "dinner":
		return db_models.SlotDinner
	default:
		return db_models.SlotSnack
	}
}

func (m *MealPlanService) ListMealPlans(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]response_models.MealPlanResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	plans, err := m.mealPlanRepo.ListByAccount(ctx, accountID, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.MealPlanResponse, 0, len(plans))
	for _, plan := range plans {
		out = append(out, toPlanResponse(&plan))
	}
	return out, nil
}

func (m *MealPlanService) GetMealPlanDetail(ctx context.Context, accountID, planID uuid.UUID) (*response_models.MealPlanDetailResponse, error) {
	plan, err := m.ownedPlan(ctx, accountID, planID)
	if err != nil {
		return nil, err
	}
	return toPlanDetailResponse(plan), nil
}

func (m *MealPlanService) DeleteMealPlan(ctx context.Context, accountID, planID uuid.UUID) error {
	if _, err := m.ownedPlan(ctx, accountID, planID); err != nil {
		return err
	}
	if err := m.mealPlanRepo.Delete(ctx, planID); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

// ownedPlan loads a plan and enforces ownership. A plan that exists but
// belongs to someone else is reported as not found.
func (m *MealPlanService) ownedPlan(ctx context.Context, accountID, planID uuid.UUID) (*db_models.MealPlan, error) {
	plan, err := m.mealPlanRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil || plan.AccountID != accountID {
		return nil, utils.ErrMealPlanNotFound
	}
	return plan, nil
}

func (m *MealPlanService) ownedMeal(ctx context.Context, accountID, mealID uuid.UUID) (*db_models.Meal, error) {
	ownerID, err := m.mealPlanRepo.GetMealOwner(ctx, mealID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if ownerID != accountID {
		return nil, utils.ErrMealNotFound
	}
	meal, err := m.mealPlanRepo.GetMealByID(ctx, mealID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if meal == nil {
		return nil, utils.ErrMealNotFound
	}
	return meal, nil
}

func (m *MealPlanService) UpdateMealPortion(ctx context.Context, accountID, mealID uuid.UUID, multiplier float64) (*response_models.MealResponse, error) {
	if multiplier <= 0 || multiplier > 10 {
		return nil, utils.ErrInvalidInput
	}

	meal, err := m.ownedMeal(ctx, accountID, mealID)
	if err != nil {
		return nil, err
	}

	if err := m.mealPlanRepo.UpdateMealPortion(ctx, mealID, multiplier); err != nil {
		return nil, utils.ErrDatabaseError
	}
	meal.PortionMultiplier = multiplier

	resp := toMealResponse(meal)
	return &resp, nil
}

func (m *MealPlanService) SetMealFavorite(ctx context.Context, accountID, mealID uuid.UUID, favorite bool) error {
	meal, err := m.ownedMeal(ctx, accountID, mealID)
	if err != nil {
		return err
	}

	if err := m.mealPlanRepo.SetMealFavorite(ctx, mealID, favorite); err != nil {
		return utils.ErrDatabaseError
	}

	// Embeddings power the similarity lookup; failures there never block a
	// favorite toggle.
	if favorite {
		vector, err := m.generator.GetEmbedding(ctx, mealEmbeddingText(meal))
		if err != nil {
			log.Printf("Embedding failed for meal %s: %v", mealID, err)
			return nil
		}
		if err := m.embeddingRepo.Upsert(db_models.MealEmbedding{
			MealID:    mealID,
			AccountID: accountID,
			Embedding: vector,
		}); err != nil {
			log.Printf("Embedding upsert failed for meal %s: %v", mealID, err)
		}
	} else {
		if err := m.embeddingRepo.DeleteByMealID(mealID); err != nil {
			log.Printf("Embedding delete failed for meal %s: %v", mealID, err)
		}
	}
	return nil
}

func mealEmbeddingText(meal *db_models.Meal) string {
	var ingredients []string
	_ = json.Unmarshal(meal.Ingredients, &ingredients)
	return meal.Name + " " + strings.Join(ingredients, " ")
}

func (m *MealPlanService) ListFavoriteMeals(ctx context.Context, accountID uuid.UUID) ([]response_models.MealResponse, error) {
	meals, err := m.mealPlanRepo.ListFavoriteMeals(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.MealResponse, 0, len(meals))
	for i := range meals {
		out = append(out, toMealResponse(&meals[i]))
	}
	return out, nil
}

func (m *MealPlanService) ListSimilarFavorites(ctx context.Context, accountID, mealID uuid.UUID) ([]response_models.SimilarMealResponse, error) {
	meal, err := m.ownedMeal(ctx, accountID, mealID)
	if err != nil {
		return nil, err
	}

	vector, err := m.generator.GetEmbedding(ctx, mealEmbeddingText(meal))
	if err != nil {
		return nil, utils.ErrUnexpectedBehaviorOfAI
	}

	rows, err := m.embeddingRepo.ListSimilarByVector(accountID, vector, mealID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	var out []response_models.SimilarMealResponse
	for _, row := range rows {
		similar, err := m.mealPlanRepo.GetMealByID(ctx, row.MealID)
		if err != nil || similar == nil {
			continue
		}
		out = append(out, response_models.SimilarMealResponse{
			Meal:       toMealResponse(similar),
			Similarity: row.Similarity,
		})
	}
	return out, nil
}

func (m *MealPlanService) ScheduleDay(ctx context.Context, accountID, planID uuid.UUID, request request_models.ScheduleDayRequest) error {
	plan, err := m.ownedPlan(ctx, accountID, planID)
	if err != nil {
		return err
	}
	if request.DayNumber < 1 || request.DayNumber > plan.DurationDays {
		return utils.ErrInvalidInput
	}

	date, err := time.ParseInLocation("2006-01-02", request.Date, time.Local)
	if err != nil {
		return utils.ErrInvalidInput
	}

	if err := m.mealPlanRepo.ScheduleDay(ctx, planID, request.DayNumber, date.Unix()); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func toPlanResponse(plan *db_models.MealPlan) response_models.MealPlanResponse {
	return response_models.MealPlanResponse{
		ID:           plan.ID.String(),
		Title:        plan.Title,
		Goal:         plan.Goal,
		Diet:         plan.Diet,
		DurationDays: plan.DurationDays,
		CreatedAt:    utils.FormatRFC3339(utils.FromUnixSeconds(plan.CreatedAt)),
	}
}

func toPlanDetailResponse(plan *db_models.MealPlan) *response_models.MealPlanDetailResponse {
	detail := &response_models.MealPlanDetailResponse{
		MealPlanResponse: toPlanResponse(plan),
	}
	for i := range plan.Days {
		day := &plan.Days[i]
		dayResp := response_models.MealPlanDayResponse{
			ID:        day.ID.String(),
			DayNumber: day.DayNumber,
		}
		if day.ScheduledFor != nil {
			dayResp.ScheduledFor = utils.FormatRFC3339(utils.FromUnixSeconds(*day.ScheduledFor))
		}
		for j := range day.Meals {
			dayResp.Meals = append(dayResp.Meals, toMealResponse(&day.Meals[j]))
		}
		detail.Days = append(detail.Days, dayResp)
	}
	return detail
}

func toMealResponse(meal *db_models.Meal) response_models.MealResponse {
	var ingredients []string
	_ = json.Unmarshal(meal.Ingredients, &ingredients)

	return response_models.MealResponse{
		ID:                meal.ID.String(),
		Name:              meal.Name,
		Slot:              string(meal.Slot),
		PortionMultiplier: meal.PortionMultiplier,
		Calories:          scalePortion(meal.Calories, meal.PortionMultiplier),
		ProteinG:          scalePortion(meal.ProteinG, meal.PortionMultiplier),
		CarbsG:            scalePortion(meal.CarbsG, meal.PortionMultiplier),
		FatG:              scalePortion(meal.FatG, meal.PortionMultiplier),
		Ingredients:       ingredients,
		Recipe:            meal.Recipe,
		IsFavorite:        meal.IsFavorite,
	}
}

func scalePortion(base int, multiplier float64) int {
	if multiplier == 0 {
		multiplier = 1
	}
	return int(math.Round(float64(base) * multiplier))
}
