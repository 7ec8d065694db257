package utils

import "errors"

var (
	ErrOutOfTokens          = errors.New("no generation tokens left this month")
	ErrUnknownPlan          = errors.New("unknown subscription plan")
	ErrSubscriptionNotFound = errors.New("no active subscription to cancel")
	ErrSignatureInvalid     = errors.New("webhook signature invalid")

	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("reset token invalid or expired")

	ErrMealPlanNotFound = errors.New("meal plan not found")
	ErrMealNotFound     = errors.New("meal not found")

	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidPage            = errors.New("invalid page parameter")
	ErrInvalidPageSize        = errors.New("invalid page size parameter")
	ErrDatabaseError          = errors.New("database error")
	ErrUnexpectedBehaviorOfAI = errors.New("generator returned an unusable response")
	ErrUpstreamPayment        = errors.New("payment provider request failed")
)
