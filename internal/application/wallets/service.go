package wallets

import (
	"brixa-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Credit adds amount to the user's wallet inside the caller's transaction,
// creating the wallet row on first use. It must be called in the same
// transaction as the payout status write so a credit can never be orphaned
// from, or duplicated against, the payout state.
func Credit(tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal, payoutID uuid.UUID) error {
	var wallet domain.Wallet
	err := tx.Where("user_id = ?", userID).First(&wallet).Error
	if err == gorm.ErrRecordNotFound {
		wallet = domain.Wallet{
			UserID:  userID,
			Balance: amount,
		}
		return tx.Create(&wallet).Error
	}
	if err != nil {
		return err
	}
	wallet.Balance = wallet.Balance.Add(amount)
	return tx.Save(&wallet).Error
}

// Balance returns the user's wallet balance, zero if no wallet exists yet.
func Balance(db *gorm.DB, userID uuid.UUID) (decimal.Decimal, error) {
	var wallet domain.Wallet
	err := db.Where("user_id = ?", userID).First(&wallet).Error
	if err == gorm.ErrRecordNotFound {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}
