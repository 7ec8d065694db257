package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealforge/internal/models/request_models"
	"mealforge/internal/services"
	"mealforge/pkg/utils"
)

type TrackingController struct {
	trackingService services.TrackingServiceInterface
}

func NewTrackingController(trackingService services.TrackingServiceInterface) *TrackingController {
	return &TrackingController{
		trackingService: trackingService,
	}
}

// AddEntry godoc
// @Summary Log a calorie entry
// @Description Logs a free-form entry, or a meal reference scaled to its portion
// @Tags Tracking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.AddCalorieEntryRequest true "Entry payload"
// @Router /tracking/entries [post]
func (t *TrackingController) AddEntry(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	var req request_models.AddCalorieEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	entry, err := t.trackingService.AddEntry(c.Request.Context(), accountID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, entry, "Entry logged")
}

// DailySummary godoc
// @Summary Calories for one day against the account target
// @Tags Tracking
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day as YYYY-MM-DD, defaults to today"
// @Router /tracking/summary [get]
func (t *TrackingController) DailySummary(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	summary, err := t.trackingService.DailySummary(c.Request.Context(), accountID, c.Query("date"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, summary, "Fetched daily summary")
}
