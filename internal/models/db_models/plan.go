package db_models

import (
	"gorm.io/datatypes"
)

type BillingPeriod string

const (
	PeriodMonth BillingPeriod = "month"
	PeriodYear  BillingPeriod = "year"
)

// Plan is a purchasable subscription plan. The set of rows with IsActive true
// is the allow-list checked before any outbound provider call.
type Plan struct {
	BaseModel
	Code        string `gorm:"uniqueIndex"` // e.g. "pro_monthly", "pro_yearly"
	Name        string
	Description *string
	Period      BillingPeriod `gorm:"type:varchar(8)"`
	PriceMinor  int64         // 999 = $9.99
	Currency    string        `gorm:"size:3"`
	IsActive    bool          `gorm:"default:true"`

	Features datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
