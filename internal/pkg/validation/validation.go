package validation

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// bankAccountRe accepts IBAN-like values: letters, digits and spaces, 8-34 chars.
var bankAccountRe = regexp.MustCompile(`^[A-Za-z0-9 ]{8,34}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidBankAccount reports whether the value is acceptable as a payout
// destination. Formal IBAN checksum validation is the payment processor's
// job; this only rejects obviously malformed input.
func IsValidBankAccount(account string) bool {
	return bankAccountRe.MatchString(strings.TrimSpace(account))
}

// IsValidPaymentMethod reports whether s is a known payout payment method token.
func IsValidPaymentMethod(s string) bool {
	switch s {
	case "wallet", "bank_transfer", "check", "other":
		return true
	}
	return false
}
