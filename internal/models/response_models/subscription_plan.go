package response_models

import (
	"github.com/google/uuid"
)

type SubscriptionPlan struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"` // e.g. "pro_monthly", "pro_yearly"
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Period      string    `json:"period"` // "month" | "year"
	Price       int64     `json:"price"`  // minor units
	Currency    string    `json:"currency"`
	Features    []string  `json:"features,omitempty"`
}

type CreateCheckoutResponse struct {
	OrderCode    int64  `json:"order_code"`
	Amount       int64  `json:"amount"`
	PaymentURL   string `json:"payment_url"`
	ProviderName string `json:"provider"`
}
