package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds a user's platform balance. Credited when a wallet-method payout
// is marked paid, in the same transaction as the payout status write.
type Wallet struct {
	WalletID  uuid.UUID       `gorm:"column:wallet_id;type:uuid;primaryKey" json:"wallet_id"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	Balance   decimal.Decimal `gorm:"column:balance;type:decimal(18,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (Wallet) TableName() string {
	return "Wallets"
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.WalletID == uuid.Nil {
		w.WalletID = uuid.New()
	}
	return nil
}
