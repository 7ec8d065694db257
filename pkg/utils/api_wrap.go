package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	v, _ := c.Get("trace_id")
	id, _ := v.(string)
	return id
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps service sentinels onto HTTP responses. Anything
// unlisted collapses to a generic 500 so internals never leak to the client.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrOutOfTokens):
		RespondError(c, http.StatusForbidden, "Out of tokens this month — upgrade or wait for the next reset")
	case errors.Is(err, ErrUnknownPlan):
		RespondError(c, http.StatusBadRequest, "Unknown subscription plan")
	case errors.Is(err, ErrSubscriptionNotFound):
		RespondError(c, http.StatusBadRequest, "No active subscription to cancel")
	case errors.Is(err, ErrSignatureInvalid):
		RespondError(c, http.StatusBadRequest, "Invalid webhook signature")
	case errors.Is(err, ErrAccountNotFound):
		RespondError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrInvalidResetToken):
		RespondError(c, http.StatusBadRequest, "Reset token invalid or expired")
	case errors.Is(err, ErrMealPlanNotFound):
		RespondError(c, http.StatusNotFound, "Meal plan not found")
	case errors.Is(err, ErrMealNotFound):
		RespondError(c, http.StatusNotFound, "Meal not found")
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size must be between 1 and 100")
	case errors.Is(err, ErrUnexpectedBehaviorOfAI):
		log.Printf("AI generation error: %v", err)
		RespondError(c, http.StatusBadGateway, "Meal generation failed, please try again")
	case errors.Is(err, ErrUpstreamPayment):
		log.Printf("Payment provider error: %v", err)
		RespondError(c, http.StatusBadGateway, "Payment provider is unavailable")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
