package controllers

import (
	"github.com/gin-gonic/gin"

	"mealforge/internal/services"
	"mealforge/pkg/utils"
)

type EntitlementController struct {
	entitlementService services.EntitlementServiceInterface
}

func NewEntitlementController(entitlementService services.EntitlementServiceInterface) *EntitlementController {
	return &EntitlementController{
		entitlementService: entitlementService,
	}
}

// GetStatus godoc
// @Summary Current tier and token allowance
// @Description Returns the caller's tier, token allowance, and next reset time
// @Tags Entitlements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /entitlements/status [get]
func (e *EntitlementController) GetStatus(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	status, err := e.entitlementService.StatusSnapshot(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, status, "Fetched entitlement status")
}
