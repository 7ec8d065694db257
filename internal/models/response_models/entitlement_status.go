package response_models

// TokenAllowance is the projection of the token balance. Pro accounts get the
// unlimited variant; free accounts carry a concrete remaining count. Keeping
// this a tagged pair avoids sentinel "infinite" numbers in responses.
type TokenAllowance struct {
	Unlimited bool `json:"unlimited"`
	Remaining *int `json:"remaining,omitempty"`
}

func UnlimitedAllowance() TokenAllowance {
	return TokenAllowance{Unlimited: true}
}

func RemainingAllowance(n int) TokenAllowance {
	return TokenAllowance{Remaining: &n}
}

type EntitlementStatusResponse struct {
	Tier               string         `json:"tier"`
	SubscriptionStatus string         `json:"subscription_status"`
	Tokens             TokenAllowance `json:"tokens"`
	TokenResetAt       string         `json:"token_reset_at,omitempty"` // RFC3339, empty for pro
}
