package payouts

import "errors"

var (
	ErrPayoutNotFound       = errors.New("Payout not found")
	ErrAlreadyPaid          = errors.New("Payout is already paid")
	ErrAlreadyApproved      = errors.New("Payout is already approved")
	ErrInvalidStatus        = errors.New("Invalid payout status")
	ErrInvalidPaymentMethod = errors.New("Invalid payment method")
	ErrInvalidBankAccount   = errors.New("Invalid bank account")
	ErrBankAccountRequired  = errors.New("Bank account is required for non-wallet payouts marked as paid")
	ErrNoRowsApplied        = errors.New("No CSV rows could be applied")
)
