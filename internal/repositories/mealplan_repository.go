package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mealforge/internal/models/db_models"
)

type MealPlanRepository interface {
	Insert(ctx context.Context, plan *db_models.MealPlan) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]db_models.MealPlan, error)
	GetByID(ctx context.Context, planID uuid.UUID) (*db_models.MealPlan, error)
	Delete(ctx context.Context, planID uuid.UUID) error

	GetMealByID(ctx context.Context, mealID uuid.UUID) (*db_models.Meal, error)
	// GetMealOwner resolves which account owns the plan a meal belongs to.
	GetMealOwner(ctx context.Context, mealID uuid.UUID) (uuid.UUID, error)
	UpdateMealPortion(ctx context.Context, mealID uuid.UUID, multiplier float64) error
	SetMealFavorite(ctx context.Context, mealID uuid.UUID, favorite bool) error
	ListFavoriteMeals(ctx context.Context, accountID uuid.UUID) ([]db_models.Meal, error)

	ScheduleDay(ctx context.Context, planID uuid.UUID, dayNumber int, scheduledFor int64) error
}

type mealPlanRepository struct {
	db *gorm.DB
}

func NewMealPlanRepository(db *gorm.DB) MealPlanRepository {
	return &mealPlanRepository{db: db}
}

func (r *mealPlanRepository) Insert(ctx context.Context, plan *db_models.MealPlan) error {
	// Create cascades into days and meals via gorm associations.
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *mealPlanRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]db_models.MealPlan, error) {
	var plans []db_models.MealPlan
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *mealPlanRepository) GetByID(ctx context.Context, planID uuid.UUID) (*db_models.MealPlan, error) {
	var plan db_models.MealPlan
	err := r.db.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB { return db.Order("day_number ASC") }).
		Preload("Days.Meals").
		First(&plan, "id = ?", planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *mealPlanRepository) Delete(ctx context.Context, planID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dayIDs []uuid.UUID
		if err := tx.Model(&db_models.MealPlanDay{}).
			Where("meal_plan_id = ?", planID).
			Pluck("id", &dayIDs).Error; err != nil {
			return err
		}
		if len(dayIDs) > 0 {
			if err := tx.Where("meal_plan_day_id IN ?", dayIDs).
				Delete(&db_models.Meal{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("meal_plan_id = ?", planID).
			Delete(&db_models.MealPlanDay{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db_models.MealPlan{}, "id = ?", planID).Error
	})
}

func (r *mealPlanRepository) GetMealByID(ctx context.Context, mealID uuid.UUID) (*db_models.Meal, error) {
	var meal db_models.Meal
	err := r.db.WithContext(ctx).First(&meal, "id = ?", mealID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meal, nil
}

func (r *mealPlanRepository) GetMealOwner(ctx context.Context, mealID uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := r.db.WithContext(ctx).
		Table("meals").
		Select("meal_plans.account_id").
		Joins("JOIN meal_plan_days ON meal_plan_days.id = meals.meal_plan_day_id").
		Joins("JOIN meal_plans ON meal_plans.id = meal_plan_days.meal_plan_id").
		Where("meals.id = ?", mealID).
		Scan(&ownerID).Error
	if err != nil {
		return uuid.Nil, err
	}
	return ownerID, nil
}

func (r *mealPlanRepository) UpdateMealPortion(ctx context.Context, mealID uuid.UUID, multiplier float64) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Meal{}).
		Where("id = ?", mealID).
		Update("portion_multiplier", multiplier).Error
}

func (r *mealPlanRepository) SetMealFavorite(ctx context.Context, mealID uuid.UUID, favorite bool) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Meal{}).
		Where("id = ?", mealID).
		Update("is_favorite", favorite).Error
}

func (r *mealPlanRepository) ListFavoriteMeals(ctx context.Context, accountID uuid.UUID) ([]db_models.Meal, error) {
	var meals []db_models.Meal
	err := r.db.WithContext(ctx).
		Joins("JOIN meal_plan_days ON meal_plan_days.id = meals.meal_plan_day_id").
		Joins("JOIN meal_plans ON meal_plans.id = meal_plan_days.meal_plan_id").
		Where("meal_plans.account_id = ? AND meals.is_favorite", accountID).
		Order("meals.updated_at DESC").
		Find(&meals).Error
	if err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *mealPlanRepository) ScheduleDay(ctx context.Context, planID uuid.UUID, dayNumber int, scheduledFor int64) error {
	res := r.db.WithContext(ctx).
		Model(&db_models.MealPlanDay{}).
		Where("meal_plan_id = ? AND day_number = ?", planID, dayNumber).
		Update("scheduled_for", scheduledFor)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
