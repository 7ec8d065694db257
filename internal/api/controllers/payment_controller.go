package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealforge/internal/models/request_models"
	"mealforge/internal/services"
	"mealforge/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentService
	planService    services.PlanServiceInterface
}

func NewPaymentController(
	paymentService services.PaymentService,
	planService services.PlanServiceInterface,
) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		planService:    planService,
	}
}

// ListPlans godoc
// @Summary Purchasable subscription plans
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /plans [get]
func (p *PaymentController) ListPlans(c *gin.Context) {
	plans, err := p.planService.ListPlans(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans, "Fetched plans")
}

// CreateCheckout godoc
// @Summary Start checkout for a plan
// @Description Creates a payment link for an allow-listed plan code
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CreatePaymentRequest true "Checkout payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /payments/checkout [post]
func (p *PaymentController) CreateCheckout(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	var req request_models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	checkout, err := p.paymentService.CreateCheckoutForPlan(c.Request.Context(), accountID, req.PlanCode)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, checkout, "Checkout created")
}

// ConfirmCheckout godoc
// @Summary Confirm a paid checkout and upgrade the account
// @Tags Payments
// @Accept json
// @Security BearerAuth
// @Param request body request_models.ConfirmPaymentRequest true "Confirm payload"
// @Router /payments/confirm [post]
func (p *PaymentController) ConfirmCheckout(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	var req request_models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := p.paymentService.ConfirmCheckout(c.Request.Context(), accountID, req.OrderCode); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Subscription activated")
}

// CancelSubscription godoc
// @Summary Cancel the caller's subscription
// @Description Cancels with the provider, then returns the account to the free tier
// @Tags Payments
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /payments/cancel [post]
func (p *PaymentController) CancelSubscription(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	if err := p.paymentService.CancelSubscription(c.Request.Context(), accountID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Subscription cancelled")
}

// Webhook godoc
// @Summary Payment provider webhook
// @Description Verifies the HMAC signature over the raw body, then applies the event
// @Tags Payments
// @Accept json
// @Router /payments/webhook [post]
func (p *PaymentController) Webhook(c *gin.Context) {
	p.paymentService.HandleWebhook(c)
}
