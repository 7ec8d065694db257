package db_models

import (
	"github.com/lib/pq"
)

type AccountTier string

const (
	TierFree AccountTier = "free"
	TierPro  AccountTier = "pro"
)

type SubscriptionStatus string

const (
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusInactive SubscriptionStatus = "inactive"
	SubStatusCanceled SubscriptionStatus = "canceled"
)

// FreeMonthlyTokens is the generation allowance restored at every calendar
// month boundary for free-tier accounts.
const FreeMonthlyTokens = 10

type Account struct {
	BaseModel
	Name         string
	Email        string `gorm:"unique"`
	PasswordHash string

	// Entitlement state. Tier pro implies SubscriptionID != nil and
	// TokenResetAt == nil; tier free implies the reverse. These columns are
	// written only through the entitlement service.
	Tier               AccountTier        `gorm:"type:varchar(8);default:'free';index"`
	TokenBalance       int                `gorm:"not null;default:10"`
	TokenResetAt       *int64             // unix seconds, next monthly boundary
	SubscriptionID     *string            `gorm:"uniqueIndex"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:varchar(16);default:'inactive'"`

	DailyCalorieTarget int            `gorm:"default:2000"`
	ExcludedFoods      pq.StringArray `gorm:"type:text[]"`

	MealPlans []MealPlan `gorm:"foreignKey:AccountID"`
}
