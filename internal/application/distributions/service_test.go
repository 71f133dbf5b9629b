package distributions

import (
	"context"
	"strings"
	"testing"
	"time"

	"brixa-backend/internal/application/allocation"
	"brixa-backend/internal/application/underwriter"
	"brixa-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDistTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Property{}, &domain.Investment{},
		&domain.RentalStatement{}, &domain.Distribution{}, &domain.Payout{},
		&domain.Transaction{}, &domain.Wallet{}, &domain.AuditLog{},
	))
	svc := &Service{DB: db, Underwriter: &underwriter.Registry{}, Currency: "EUR"}
	return svc, db
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type distFixture struct {
	Property  domain.Property
	Statement domain.RentalStatement
	UserA     uuid.UUID
	UserB     uuid.UUID
}

func seedProperty(t *testing.T, db *gorm.DB, net string) distFixture {
	f := distFixture{
		Property: domain.Property{Name: "Herengracht 12", TotalShares: 1000},
		UserA:    uuid.New(),
		UserB:    uuid.New(),
	}
	require.NoError(t, db.Create(&f.Property).Error)
	f.Statement = domain.RentalStatement{
		PropertyID:       f.Property.PropertyID,
		PeriodStart:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:        time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		NetDistributable: dec(net),
	}
	require.NoError(t, db.Create(&f.Statement).Error)
	require.NoError(t, db.Create(&domain.Investment{UserID: f.UserA, PropertyID: f.Property.PropertyID, Shares: 300, Status: domain.InvestmentConfirmed}).Error)
	require.NoError(t, db.Create(&domain.Investment{UserID: f.UserB, PropertyID: f.Property.PropertyID, Shares: 200, Status: domain.InvestmentConfirmed}).Error)
	return f
}

func TestCreateDraft_AllocatesPayouts(t *testing.T) {
	svc, db := setupDistTest(t)
	f := seedProperty(t, db, "100000.00")

	view, err := svc.CreateDraft(context.Background(), f.Property.PropertyID, f.Statement.StatementID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DistributionDraft, view.Status)
	assert.Equal(t, "100000.00", view.TotalDistributed.StringFixed(2))
	require.Len(t, view.Payouts, 3)

	sum := decimal.Zero
	var underwriterLine *domain.Payout
	for i := range view.Payouts {
		sum = sum.Add(view.Payouts[i].Amount)
		assert.Equal(t, domain.PayoutPending, view.Payouts[i].Status)
		if view.Payouts[i].UserID != f.UserA && view.Payouts[i].UserID != f.UserB {
			underwriterLine = &view.Payouts[i]
		}
	}
	assert.Equal(t, "100000.00", sum.StringFixed(2))

	require.NotNil(t, underwriterLine)
	assert.Equal(t, 500, underwriterLine.SharesAtRecord)
	assert.Equal(t, "50000.00", underwriterLine.Amount.StringFixed(2))
	assert.Contains(t, underwriterLine.Notes, "Unsold shares: 500")

	var holder domain.User
	require.NoError(t, db.Where("is_underwriter = ?", true).First(&holder).Error)
	assert.Equal(t, holder.UserID, underwriterLine.UserID)

	var audits int64
	require.NoError(t, db.Model(&domain.AuditLog{}).Where("action = ?", "distribution.create_draft").Count(&audits).Error)
	assert.Equal(t, int64(1), audits)
}

func TestCreateDraft_DuplicateStatement(t *testing.T) {
	svc, db := setupDistTest(t)
	f := seedProperty(t, db, "1000.00")

	_, err := svc.CreateDraft(context.Background(), f.Property.PropertyID, f.Statement.StatementID, nil)
	require.NoError(t, err)
	_, err = svc.CreateDraft(context.Background(), f.Property.PropertyID, f.Statement.StatementID, nil)
	assert.ErrorIs(t, err, ErrDistributionExists)
}

func TestCreateDraft_StatementMismatch(t *testing.T) {
	svc, db := setupDistTest(t)
	f := seedProperty(t, db, "1000.00")
	other := domain.Property{Name: "Keizersgracht 5", TotalShares: 500}
	require.NoError(t, db.Create(&other).Error)

	_, err := svc.CreateDraft(context.Background(), other.PropertyID, f.Statement.StatementID, nil)
	assert.ErrorIs(t, err, ErrStatementMismatch)
}

func TestCreateDraft_NoConfirmedShares(t *testing.T) {
	svc, db := setupDistTest(t)
	property := domain.Property{Name: "Empty Block", TotalShares: 1000}
	require.NoError(t, db.Create(&property).Error)
	statement := domain.RentalStatement{
		PropertyID:       property.PropertyID,
		PeriodStart:      time.Now(),
		PeriodEnd:        time.Now(),
		NetDistributable: dec("1000.00"),
	}
	require.NoError(t, db.Create(&statement).Error)

	_, err := svc.CreateDraft(context.Background(), property.PropertyID, statement.StatementID, nil)
	assert.ErrorIs(t, err, allocation.ErrNoSharesPurchased)

	var count int64
	require.NoError(t, db.Model(&domain.Distribution{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreateDraft_UnknownProperty(t *testing.T) {
	svc, _ := setupDistTest(t)
	_, err := svc.CreateDraft(context.Background(), uuid.New(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestStateMachine_SubmitApprove(t *testing.T) {
	svc, db := setupDistTest(t)
	f := seedProperty(t, db, "1000.00")
	view, err := svc.CreateDraft(context.Background(), f.Property.PropertyID, f.Statement.StatementID, nil)
	require.NoError(t, err)
	id := view.DistributionID

	// Approve before submit is rejected.
	approver := uuid.New()
	_, err = svc.Approve(context.Background(), id, approver, "")
	assert.ErrorIs(t, err, ErrNotPendingApproval)

	dist, err := svc.Submit(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DistributionPendingApproval, dist.Status)

	// Double submit is rejected.
	_, err = svc.Submit(context.Background(), id, nil)
	assert.ErrorIs(t, err, ErrNotDraft)

	dist, err = svc.Approve(context.Background(), id, approver, "looks right")
	require.NoError(t, err)
	assert.Equal(t, domain.DistributionApproved, dist.Status)
	require.NotNil(t, dist.ApprovedBy)
	assert.Equal(t, approver, *dist.ApprovedBy)
	assert.NotNil(t, dist.ApprovedAt)
	assert.Equal(t, "looks right", dist.Notes)
}

func TestStateMachine_RejectReturnsToDraft(t *testing.T) {
	svc, db := setupDistTest(t)
	f := seedProperty(t, db, "1000.00")
	view, err := svc.CreateDraft(context.Background(), f.Property.PropertyID, f.Statement.StatementID, nil)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), view.DistributionID, nil)
	require.NoError(t, err)
	dist, err := svc.Reject(context.Background(), view.DistributionID, nil, "numbers off")
	require.NoError(t, err)
	assert.Equal(t, domain.DistributionDraft, dist.Status)
	assert.Equal(t, "numbers off", dist.Notes)

	// Rejected draft can go around again.
	_, err = svc.Submit(context.Background(), view.DistributionID, nil)
	require.NoError(t, err)
}

func TestDeclare_WritesLedgerTransactions(t *testing.T) {
	svc, db := setupDistTest(t)
	f := seedProperty(t, db, "100000.00")
	view, err := svc.CreateDraft(context.Background(), f.Property.PropertyID, f.Statement.StatementID, nil)
	require.NoError(t, err)
	id := view.DistributionID

	_, err = svc.Declare(context.Background(), id, nil)
	assert.ErrorIs(t, err, ErrNotApproved)

	_, err = svc.Submit(context.Background(), id, nil)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), id, uuid.New(), "")
	require.NoError(t, err)

	dist, err := svc.Declare(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DistributionDeclared, dist.Status)
	assert.NotNil(t, dist.DeclaredAt)

	var txs []domain.Transaction
	require.NoError(t, db.Find(&txs).Error)
	require.Len(t, txs, 3)
	for _, tr := range txs {
		assert.Equal(t, domain.TxTypePayout, tr.Type)
		assert.Equal(t, "EUR", tr.Currency)
		assert.True(t, strings.HasPrefix(tr.Reference, "PAY-"))
		assert.Len(t, tr.Reference, 12)
	}
}

func TestDelete_RemovesDerivedRecords(t *testing.T) {
	svc, db := setupDistTest(t)
	f := seedProperty(t, db, "1000.00")
	view, err := svc.CreateDraft(context.Background(), f.Property.PropertyID, f.Statement.StatementID, nil)
	require.NoError(t, err)
	id := view.DistributionID

	_, err = svc.Submit(context.Background(), id, nil)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), id, uuid.New(), "")
	require.NoError(t, err)
	_, err = svc.Declare(context.Background(), id, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), id, nil, "created against wrong statement"))

	var dists, payouts, txs int64
	require.NoError(t, db.Model(&domain.Distribution{}).Count(&dists).Error)
	require.NoError(t, db.Model(&domain.Payout{}).Count(&payouts).Error)
	require.NoError(t, db.Model(&domain.Transaction{}).Count(&txs).Error)
	assert.Zero(t, dists)
	assert.Zero(t, payouts)
	assert.Zero(t, txs)

	// Statement is free for a fresh draft again.
	_, err = svc.CreateDraft(context.Background(), f.Property.PropertyID, f.Statement.StatementID, nil)
	require.NoError(t, err)
}

func TestDelete_RefusedWithPaidPayout(t *testing.T) {
	svc, db := setupDistTest(t)
	f := seedProperty(t, db, "1000.00")
	view, err := svc.CreateDraft(context.Background(), f.Property.PropertyID, f.Statement.StatementID, nil)
	require.NoError(t, err)

	now := time.Now()
	paid := view.Payouts[0]
	paid.Status = domain.PayoutPaid
	paid.PaidAt = &now
	require.NoError(t, db.Save(&paid).Error)

	err = svc.Delete(context.Background(), view.DistributionID, nil, "")
	assert.ErrorIs(t, err, ErrHasPaidPayouts)

	var dists int64
	require.NoError(t, db.Model(&domain.Distribution{}).Count(&dists).Error)
	assert.Equal(t, int64(1), dists)
}

func TestGet_DerivesPaidStatus(t *testing.T) {
	svc, db := setupDistTest(t)
	f := seedProperty(t, db, "1000.00")
	view, err := svc.CreateDraft(context.Background(), f.Property.PropertyID, f.Statement.StatementID, nil)
	require.NoError(t, err)
	id := view.DistributionID

	_, err = svc.Submit(context.Background(), id, nil)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), id, uuid.New(), "")
	require.NoError(t, err)
	_, err = svc.Declare(context.Background(), id, nil)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.DistributionDeclared, got.EffectiveStatus)

	now := time.Now()
	require.NoError(t, db.Model(&domain.Payout{}).
		Where("distribution_id = ?", id).
		Updates(map[string]interface{}{"status": domain.PayoutPaid, "paid_at": now}).Error)

	got, err = svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.DistributionPaid, got.EffectiveStatus)
	// The stored row still says DECLARED.
	assert.Equal(t, domain.DistributionDeclared, got.Distribution.Status)
}

func TestListByProperty(t *testing.T) {
	svc, db := setupDistTest(t)
	f := seedProperty(t, db, "1000.00")
	_, err := svc.CreateDraft(context.Background(), f.Property.PropertyID, f.Statement.StatementID, nil)
	require.NoError(t, err)

	second := domain.RentalStatement{
		PropertyID:       f.Property.PropertyID,
		PeriodStart:      time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:        time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		NetDistributable: dec("2000.00"),
	}
	require.NoError(t, db.Create(&second).Error)
	_, err = svc.CreateDraft(context.Background(), f.Property.PropertyID, second.StatementID, nil)
	require.NoError(t, err)

	views, err := svc.ListByProperty(context.Background(), f.Property.PropertyID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.NotEmpty(t, v.Payouts)
		assert.Equal(t, domain.DistributionDraft, v.EffectiveStatus)
	}
}
