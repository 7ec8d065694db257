package services

import (
	"context"
	"encoding/json"

	"mealforge/internal/models/response_models"
	"mealforge/internal/repositories"
	"mealforge/pkg/utils"
)

type PlanServiceInterface interface {
	ListPlans(ctx context.Context) ([]response_models.SubscriptionPlan, error)
}

type PlanService struct {
	planRepo repositories.IPlanRepository
}

func NewPlanService(planRepo repositories.IPlanRepository) PlanServiceInterface {
	return &PlanService{planRepo: planRepo}
}

func (p *PlanService) ListPlans(ctx context.Context) ([]response_models.SubscriptionPlan, error) {
	plans, err := p.planRepo.ListActivePlans(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.SubscriptionPlan, 0, len(plans))
	for _, plan := range plans {
		item := response_models.SubscriptionPlan{
			ID:          plan.ID,
			Code:        plan.Code,
			Name:        plan.Name,
			Description: plan.Description,
			Period:      string(plan.Period),
			Price:       plan.PriceMinor,
			Currency:    plan.Currency,
		}
		// Features is free-form jsonb; a malformed value just renders empty.
		var features []string
		if len(plan.Features) > 0 {
			if err := json.Unmarshal(plan.Features, &features); err == nil {
				item.Features = features
			}
		}
		out = append(out, item)
	}
	return out, nil
}
