package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payout statuses. Approval is an optional gate: PENDING -> PAID and
// APPROVED -> PAID are both legal paths.
const (
	PayoutPending         = "PENDING"
	PayoutPendingApproval = "PENDING_APPROVAL"
	PayoutApproved        = "APPROVED"
	PayoutPaid            = "PAID"
)

// Payment methods. Wallet payouts credit the user's platform wallet inside
// the same transaction that marks the payout paid; every other method needs
// a bank account on record before the payout can be marked paid.
const (
	PaymentMethodWallet       = "wallet"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheck        = "check"
	PaymentMethodOther        = "other"
)

// ValidPayoutStatus reports whether s is a known payout status token.
func ValidPayoutStatus(s string) bool {
	switch s {
	case PayoutPending, PayoutPendingApproval, PayoutApproved, PayoutPaid:
		return true
	}
	return false
}

// Payout is one beneficiary's line item within a Distribution. SharesAtRecord
// is a point-in-time snapshot of the share count used for this calculation;
// only the reconciliation utility may correct it after creation.
type Payout struct {
	PayoutID          uuid.UUID       `gorm:"column:payout_id;type:uuid;primaryKey" json:"payout_id"`
	UserID            uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	PropertyID        uuid.UUID       `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	DistributionID    uuid.UUID       `gorm:"column:distribution_id;type:uuid;not null;index" json:"distribution_id"`
	RentalStatementID uuid.UUID       `gorm:"column:rental_statement_id;type:uuid;not null" json:"rental_statement_id"`
	SharesAtRecord    int             `gorm:"column:shares_at_record;not null" json:"shares_at_record"`
	Amount            decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Status            string          `gorm:"column:status;type:varchar(20);not null;default:'PENDING'" json:"status"`
	PaidAt            *time.Time      `gorm:"column:paid_at" json:"paid_at"`
	PaymentMethod     string          `gorm:"column:payment_method;type:varchar(20)" json:"payment_method"`
	PaymentReference  string          `gorm:"column:payment_reference" json:"payment_reference"`
	BankAccount       string          `gorm:"column:bank_account" json:"bank_account"`
	Notes             string          `gorm:"column:notes" json:"notes"`
	CreatedAt         time.Time       `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt         time.Time       `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Payout) TableName() string {
	return "Payouts"
}

func (p *Payout) BeforeCreate(tx *gorm.DB) error {
	if p.PayoutID == uuid.Nil {
		p.PayoutID = uuid.New()
	}
	return nil
}

// LedgerReference is the ledger Transaction reference for this payout:
// "PAY-" + first 8 chars of the payout id, uppercased. The declare and delete
// paths both rely on this exact format to stay in lockstep.
func (p *Payout) LedgerReference() string {
	return "PAY-" + strings.ToUpper(p.PayoutID.String()[:8])
}
