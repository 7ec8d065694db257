package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealforge/internal/models/request_models"
	"mealforge/internal/services"
	"mealforge/pkg/utils"
)

type MealPlanController struct {
	mealPlanService services.MealPlanServiceInterface
}

func NewMealPlanController(mealPlanService services.MealPlanServiceInterface) *MealPlanController {
	return &MealPlanController{
		mealPlanService: mealPlanService,
	}
}

// Generate godoc
// @Summary Generate a meal plan
// @Description Spends one token (free tier) and generates a plan for the given goal and diet
// @Tags MealPlans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.GenerateMealPlanRequest true "Generation payload"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /meal-plans [post]
func (m *MealPlanController) Generate(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	var req request_models.GenerateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	plan, err := m.mealPlanService.GenerateMealPlan(c.Request.Context(), accountID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Meal plan generated")
}

// List godoc
// @Summary List the caller's meal plans
// @Tags MealPlans
// @Produce json
// @Security BearerAuth
// @Router /meal-plans [get]
func (m *MealPlanController) List(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}
	page, pageSize, ok := pageParams(c)
	if !ok {
		return
	}

	plans, err := m.mealPlanService.ListMealPlans(c.Request.Context(), accountID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Fetched meal plans")
}

// Detail godoc
// @Summary Full meal plan with days and meals
// @Tags MealPlans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal plan id"
// @Router /meal-plans/{id} [get]
func (m *MealPlanController) Detail(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	plan, err := m.mealPlanService.GetMealPlanDetail(c.Request.Context(), accountID, planID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Fetched meal plan")
}

// Delete godoc
// @Summary Delete a meal plan
// @Tags MealPlans
// @Security BearerAuth
// @Param id path string true "Meal plan id"
// @Router /meal-plans/{id} [delete]
func (m *MealPlanController) Delete(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := m.mealPlanService.DeleteMealPlan(c.Request.Context(), accountID, planID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Meal plan deleted")
}

// ScheduleDay godoc
// @Summary Pin a plan day to a calendar date
// @Tags MealPlans
// @Accept json
// @Security BearerAuth
// @Param id path string true "Meal plan id"
// @Param request body request_models.ScheduleDayRequest true "Schedule payload"
// @Router /meal-plans/{id}/schedule [post]
func (m *MealPlanController) ScheduleDay(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req request_models.ScheduleDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := m.mealPlanService.ScheduleDay(c.Request.Context(), accountID, planID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Day scheduled")
}

// UpdatePortion godoc
// @Summary Set a meal's portion multiplier
// @Tags Meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal id"
// @Param request body request_models.UpdatePortionRequest true "Portion payload"
// @Router /meals/{id}/portion [put]
func (m *MealPlanController) UpdatePortion(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}
	mealID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req request_models.UpdatePortionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	meal, err := m.mealPlanService.UpdateMealPortion(c.Request.Context(), accountID, mealID, req.Multiplier)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, meal, "Portion updated")
}

// SetFavorite godoc
// @Summary Mark or unmark a meal as favorite
// @Tags Meals
// @Accept json
// @Security BearerAuth
// @Param id path string true "Meal id"
// @Param request body request_models.SetFavoriteRequest true "Favorite payload"
// @Router /meals/{id}/favorite [put]
func (m *MealPlanController) SetFavorite(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}
	mealID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req request_models.SetFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := m.mealPlanService.SetMealFavorite(c.Request.Context(), accountID, mealID, req.Favorite); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Favorite updated")
}

// ListFavorites godoc
// @Summary List favorite meals
// @Tags Meals
// @Produce json
// @Security BearerAuth
// @Router /meals/favorites [get]
func (m *MealPlanController) ListFavorites(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	meals, err := m.mealPlanService.ListFavoriteMeals(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, meals, "Fetched favorite meals")
}

// SimilarFavorites godoc
// @Summary Favorites similar to a given meal
// @Description Ranks the caller's favorited meals by embedding similarity to the given meal
// @Tags Meals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal id"
// @Router /meals/{id}/similar [get]
func (m *MealPlanController) SimilarFavorites(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}
	mealID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	meals, err := m.mealPlanService.ListSimilarFavorites(c.Request.Context(), accountID, mealID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, meals, "Fetched similar meals")
}
