package payouts

import (
	"context"
	"testing"
	"time"

	"brixa-backend/internal/application/wallets"
	"brixa-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPayoutTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Property{}, &domain.Distribution{},
		&domain.Payout{}, &domain.Wallet{}, &domain.AuditLog{},
	))
	return &Service{DB: db}, db
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedPayout(t *testing.T, db *gorm.DB, status string) domain.Payout {
	p := domain.Payout{
		UserID:            uuid.New(),
		PropertyID:        uuid.New(),
		DistributionID:    uuid.New(),
		RentalStatementID: uuid.New(),
		SharesAtRecord:    100,
		Amount:            dec("250.00"),
		Status:            status,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func strPtr(s string) *string { return &s }

func TestApprove_Guards(t *testing.T) {
	svc, db := setupPayoutTest(t)

	p := seedPayout(t, db, domain.PayoutPending)
	out, err := svc.Approve(context.Background(), p.PayoutID, nil, "checked")
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutApproved, out.Status)
	assert.Equal(t, "checked", out.Notes)

	_, err = svc.Approve(context.Background(), p.PayoutID, nil, "")
	assert.ErrorIs(t, err, ErrAlreadyApproved)

	paid := seedPayout(t, db, domain.PayoutPaid)
	_, err = svc.Approve(context.Background(), paid.PayoutID, nil, "")
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	_, err = svc.Approve(context.Background(), uuid.New(), nil, "")
	assert.ErrorIs(t, err, ErrPayoutNotFound)
}

func TestApproveBatch_BestEffort(t *testing.T) {
	svc, db := setupPayoutTest(t)
	a := seedPayout(t, db, domain.PayoutPending)
	b := seedPayout(t, db, domain.PayoutPaid)
	missing := uuid.New()

	result := svc.ApproveBatch(context.Background(), []uuid.UUID{a.PayoutID, b.PayoutID, missing}, nil, "")
	assert.Equal(t, []uuid.UUID{a.PayoutID}, result.Succeeded)
	require.Len(t, result.Failed, 2)

	// The failure of b and missing did not roll back a.
	var reread domain.Payout
	require.NoError(t, db.Where("payout_id = ?", a.PayoutID).First(&reread).Error)
	assert.Equal(t, domain.PayoutApproved, reread.Status)
}

func TestSubmitBatch_SkipsNonPending(t *testing.T) {
	svc, db := setupPayoutTest(t)
	pending := seedPayout(t, db, domain.PayoutPending)
	approved := seedPayout(t, db, domain.PayoutApproved)

	result, err := svc.SubmitBatchForApproval(context.Background(), []uuid.UUID{pending.PayoutID, approved.PayoutID}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{pending.PayoutID}, result.Succeeded)
	assert.Empty(t, result.Failed) // skipped, not failed

	var reread domain.Payout
	require.NoError(t, db.Where("payout_id = ?", approved.PayoutID).First(&reread).Error)
	assert.Equal(t, domain.PayoutApproved, reread.Status)
}

func TestUpdate_MarkPaidWalletCreditsOnce(t *testing.T) {
	svc, db := setupPayoutTest(t)
	p := seedPayout(t, db, domain.PayoutPending)

	status := domain.PayoutPaid
	input := UpdateInput{
		Status:        &status,
		PaymentMethod: strPtr(domain.PaymentMethodWallet),
	}
	out, err := svc.Update(context.Background(), p.PayoutID, input, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutPaid, out.Status)
	assert.NotNil(t, out.PaidAt)

	balance, err := wallets.Balance(db, p.UserID)
	require.NoError(t, err)
	assert.Equal(t, "250.00", balance.StringFixed(2))

	// Resubmitting the identical update must not credit again.
	_, err = svc.Update(context.Background(), p.PayoutID, UpdateInput{
		PaymentReference: strPtr("batch-42"),
	}, nil)
	require.NoError(t, err)

	balance, err = wallets.Balance(db, p.UserID)
	require.NoError(t, err)
	assert.Equal(t, "250.00", balance.StringFixed(2))
}

func TestUpdate_BankAccountRequiredForNonWallet(t *testing.T) {
	svc, db := setupPayoutTest(t)
	p := seedPayout(t, db, domain.PayoutPending)

	status := domain.PayoutPaid
	_, err := svc.Update(context.Background(), p.PayoutID, UpdateInput{
		Status:        &status,
		PaymentMethod: strPtr(domain.PaymentMethodBankTransfer),
	}, nil)
	assert.ErrorIs(t, err, ErrBankAccountRequired)

	// The guard rolled everything back.
	var reread domain.Payout
	require.NoError(t, db.Where("payout_id = ?", p.PayoutID).First(&reread).Error)
	assert.Equal(t, domain.PayoutPending, reread.Status)

	_, err = svc.Update(context.Background(), p.PayoutID, UpdateInput{
		Status:        &status,
		PaymentMethod: strPtr(domain.PaymentMethodBankTransfer),
		BankAccount:   strPtr("NL91ABNA0417164300"),
	}, nil)
	require.NoError(t, err)
}

func TestUpdate_PaidAtForcesPaid(t *testing.T) {
	svc, db := setupPayoutTest(t)
	p := seedPayout(t, db, domain.PayoutPending)

	paidAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	status := domain.PayoutApproved
	out, err := svc.Update(context.Background(), p.PayoutID, UpdateInput{
		Status:        &status, // overridden by paid_at
		PaidAt:        &paidAt,
		PaymentMethod: strPtr(domain.PaymentMethodWallet),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutPaid, out.Status)
	require.NotNil(t, out.PaidAt)
	assert.True(t, out.PaidAt.Equal(paidAt))

	balance, err := wallets.Balance(db, p.UserID)
	require.NoError(t, err)
	assert.Equal(t, "250.00", balance.StringFixed(2))
}

func TestUpdate_InvalidTokens(t *testing.T) {
	svc, db := setupPayoutTest(t)
	p := seedPayout(t, db, domain.PayoutPending)

	_, err := svc.Update(context.Background(), p.PayoutID, UpdateInput{Status: strPtr("SETTLED")}, nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Update(context.Background(), p.PayoutID, UpdateInput{PaymentMethod: strPtr("crypto")}, nil)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, err = svc.Update(context.Background(), p.PayoutID, UpdateInput{BankAccount: strPtr("ab#1")}, nil)
	assert.ErrorIs(t, err, ErrInvalidBankAccount)
}

func TestUpdate_AmountAdjustmentAudited(t *testing.T) {
	svc, db := setupPayoutTest(t)
	p := seedPayout(t, db, domain.PayoutPending)

	amount := dec("300.00")
	out, err := svc.Update(context.Background(), p.PayoutID, UpdateInput{
		Amount:           &amount,
		AdjustmentReason: "manual correction after statement revision",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "300.00", out.Amount.StringFixed(2))

	var entry domain.AuditLog
	require.NoError(t, db.Where("action = ? AND entity_id = ?", "payout.update", p.PayoutID).First(&entry).Error)
	assert.Equal(t, "manual correction after statement revision", entry.Reason)
}

func TestUpdate_NoChangeNoAudit(t *testing.T) {
	svc, db := setupPayoutTest(t)
	p := seedPayout(t, db, domain.PayoutPending)

	same := p.Amount
	_, err := svc.Update(context.Background(), p.PayoutID, UpdateInput{Amount: &same}, nil)
	require.NoError(t, err)

	var audits int64
	require.NoError(t, db.Model(&domain.AuditLog{}).Where("action = ?", "payout.update").Count(&audits).Error)
	assert.Zero(t, audits)
}

func TestBulkUpdateStatus_NoWalletCredit(t *testing.T) {
	svc, db := setupPayoutTest(t)
	a := seedPayout(t, db, domain.PayoutPending)
	require.NoError(t, db.Model(&domain.Payout{}).
		Where("payout_id = ?", a.PayoutID).
		Update("payment_method", domain.PaymentMethodWallet).Error)
	b := seedPayout(t, db, domain.PayoutApproved)

	result, err := svc.BulkUpdateStatus(context.Background(), []uuid.UUID{a.PayoutID, b.PayoutID}, domain.PayoutPaid, nil)
	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 2)
	assert.Empty(t, result.Failed)

	var reread domain.Payout
	require.NoError(t, db.Where("payout_id = ?", a.PayoutID).First(&reread).Error)
	assert.Equal(t, domain.PayoutPaid, reread.Status)
	assert.NotNil(t, reread.PaidAt)

	// Bulk marking records the fact without touching wallets.
	balance, err := wallets.Balance(db, a.UserID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestBulkUpdateStatus_InvalidStatus(t *testing.T) {
	svc, _ := setupPayoutTest(t)
	_, err := svc.BulkUpdateStatus(context.Background(), []uuid.UUID{uuid.New()}, "DONE", nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListByUser(t *testing.T) {
	svc, db := setupPayoutTest(t)
	p := seedPayout(t, db, domain.PayoutPending)
	seedPayout(t, db, domain.PayoutPending) // someone else's

	out, err := svc.ListByUser(context.Background(), p.UserID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, p.PayoutID, out[0].PayoutID)
}
