package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TxTypePayout marks a ledger entry materialized when a distribution is declared.
const TxTypePayout = "PAYOUT"

// Transaction is a downstream bookkeeping ledger entry. One row per payout is
// written at declaration time, keyed by the payout-derived reference.
type Transaction struct {
	TxID      uuid.UUID       `gorm:"column:tx_id;type:uuid;primaryKey" json:"tx_id"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Type      string          `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Currency  string          `gorm:"column:currency;type:varchar(3);not null;default:'EUR'" json:"currency"`
	Reference string          `gorm:"column:reference;not null;uniqueIndex" json:"reference"`
	CreatedAt time.Time       `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Transaction) TableName() string {
	return "Transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TxID == uuid.Nil {
		t.TxID = uuid.New()
	}
	return nil
}
