package model

import (
	"time"
)

// PaymentStatus is the canonical status of a payment attempt.
type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is one row of the append-only payment ledger. Rows are created
// once per distinct (provider_transaction_id, idempotency_key) pair and
// never mutated or deleted afterwards; the composite unique index is what
// makes repeated webhook delivery safe.
type Payment struct {
	ID                    int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                string        `gorm:"size:64;not null;index" json:"user_id"`
	Provider              string        `gorm:"size:32;not null" json:"provider"`
	ProviderTransactionID string        `gorm:"column:provider_transaction_id;size:100;not null;uniqueIndex:uniq_provider_txn_idem" json:"provider_transaction_id"`
	IdempotencyKey        string        `gorm:"size:100;not null;uniqueIndex:uniq_provider_txn_idem" json:"idempotency_key"`
	Product               Product       `gorm:"size:20;not null" json:"product"`
	AmountMinorUnits      int64         `gorm:"not null" json:"amount_minor_units"`
	Currency              string        `gorm:"size:3;not null" json:"currency"`
	Status                PaymentStatus `gorm:"size:20;not null" json:"status"`
	CreatedAt             time.Time     `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}
