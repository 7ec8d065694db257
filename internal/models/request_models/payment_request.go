package request_models

type CreatePaymentRequest struct {
	PlanCode string `json:"plan_code" binding:"required"`
}

type ConfirmPaymentRequest struct {
	OrderCode int64 `json:"order_code" binding:"required"`
}
