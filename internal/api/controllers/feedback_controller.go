package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealforge/internal/models/request_models"
	"mealforge/internal/services"
	"mealforge/pkg/utils"
)

type FeedbackController struct {
	feedbackService services.FeedbackServiceInterface
}

func NewFeedbackController(feedbackService services.FeedbackServiceInterface) *FeedbackController {
	return &FeedbackController{
		feedbackService: feedbackService,
	}
}

// AddFeedback godoc
// @Summary Rate a meal plan
// @Tags Feedback
// @Accept json
// @Security BearerAuth
// @Param id path string true "Meal plan id"
// @Param request body request_models.FeedbackRequest true "Feedback payload"
// @Router /meal-plans/{id}/feedback [post]
func (f *FeedbackController) AddFeedback(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req request_models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := f.feedbackService.AddFeedback(c.Request.Context(), accountID, planID, req.Comment, req.Rating); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Feedback recorded")
}

// ListFeedback godoc
// @Summary Feedback left on a meal plan
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meal plan id"
// @Router /meal-plans/{id}/feedback [get]
func (f *FeedbackController) ListFeedback(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	page, pageSize, ok := pageParams(c)
	if !ok {
		return
	}

	feedbacks, err := f.feedbackService.ListFeedbackForPlan(c.Request.Context(), accountID, planID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, feedbacks, "Fetched feedback")
}
