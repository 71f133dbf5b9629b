package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@b.co"))
	assert.True(t, IsValidEmail("investor+tag@example.org"))
	assert.False(t, IsValidEmail("no-at-sign"))
	assert.False(t, IsValidEmail("spaces in@example.com"))
	assert.False(t, IsValidEmail("a@nodot"))
}

func TestIsValidBankAccount(t *testing.T) {
	assert.True(t, IsValidBankAccount("NL91ABNA0417164300"))
	assert.True(t, IsValidBankAccount(" NL91 ABNA 0417 1643 00 "))
	assert.False(t, IsValidBankAccount("short"))
	assert.False(t, IsValidBankAccount("NL91-ABNA-0417"))
	assert.False(t, IsValidBankAccount(""))
}

func TestIsValidPaymentMethod(t *testing.T) {
	for _, m := range []string{"wallet", "bank_transfer", "check", "other"} {
		assert.True(t, IsValidPaymentMethod(m))
	}
	assert.False(t, IsValidPaymentMethod("crypto"))
	assert.False(t, IsValidPaymentMethod("WALLET"))
}
