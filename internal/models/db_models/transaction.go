package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	TxnStatusPending  TransactionStatus = "pending"
	TxnStatusPaid     TransactionStatus = "paid"
	TxnStatusFailed   TransactionStatus = "failed"
	TxnStatusRefunded TransactionStatus = "refunded"
)

type Transaction struct {
	BaseModel
	AccountID   uuid.UUID         `gorm:"index"`
	AmountMinor int64             // minor units, e.g. 999 = $9.99
	Currency    string            `gorm:"size:3"`
	Status      TransactionStatus `gorm:"type:varchar(12);index"`

	Provider      string `gorm:"index"`
	ProviderTxnID string `gorm:"index"` // idempotency key across webhooks

	PaidAt     *int64
	RefundedAt *int64

	// Raw provider payloads, plan linkage, failure reasons.
	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Account Account `gorm:"foreignKey:AccountID"`
}
