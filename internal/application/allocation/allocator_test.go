package allocation

import (
	"testing"

	"brixa-backend/internal/application/shares"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAllocate_ProRataWithUnderwriter(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()
	holdings := []shares.Holding{
		{UserID: userA, Shares: 300},
		{UserID: userB, Shares: 200},
	}

	plan, err := Allocate(dec("100000.00"), 1000, holdings, 500)
	require.NoError(t, err)
	require.Len(t, plan.InvestorLines, 2)

	assert.Equal(t, userA, plan.InvestorLines[0].UserID)
	assert.Equal(t, "30000.00", plan.InvestorLines[0].Amount.StringFixed(2))
	assert.Equal(t, userB, plan.InvestorLines[1].UserID)
	assert.Equal(t, "20000.00", plan.InvestorLines[1].Amount.StringFixed(2))

	require.NotNil(t, plan.UnderwriterLine)
	assert.Equal(t, 500, plan.UnderwriterLine.Shares)
	assert.Equal(t, "50000.00", plan.UnderwriterLine.Amount.StringFixed(2))
	assert.Equal(t, "Unsold shares: 500 (50% of property)", plan.UnderwriterLine.Notes)

	sum := plan.InvestorLines[0].Amount.
		Add(plan.InvestorLines[1].Amount).
		Add(plan.UnderwriterLine.Amount)
	assert.Equal(t, "100000.00", sum.StringFixed(2))
}

func TestAllocate_FullySold(t *testing.T) {
	holdings := []shares.Holding{
		{UserID: uuid.New(), Shares: 600},
		{UserID: uuid.New(), Shares: 400},
	}
	plan, err := Allocate(dec("5000.00"), 1000, holdings, 0)
	require.NoError(t, err)
	assert.Nil(t, plan.UnderwriterLine)
	assert.Equal(t, "3000.00", plan.InvestorLines[0].Amount.StringFixed(2))
	assert.Equal(t, "2000.00", plan.InvestorLines[1].Amount.StringFixed(2))
}

func TestAllocate_NoConfirmedShares(t *testing.T) {
	_, err := Allocate(dec("1000.00"), 1000, nil, 1000)
	assert.ErrorIs(t, err, ErrNoSharesPurchased)

	_, err = Allocate(dec("1000.00"), 1000, []shares.Holding{{UserID: uuid.New(), Shares: 0}}, 1000)
	assert.ErrorIs(t, err, ErrNoSharesPurchased)
}

func TestAllocate_InvalidTotalShares(t *testing.T) {
	_, err := Allocate(dec("1000.00"), 0, []shares.Holding{{UserID: uuid.New(), Shares: 1}}, 0)
	assert.Error(t, err)
}

func TestAllocate_RoundingDrift(t *testing.T) {
	// 100.00 over 3 shares: each line rounds independently, the sum drifts.
	holdings := []shares.Holding{
		{UserID: uuid.New(), Shares: 1},
		{UserID: uuid.New(), Shares: 1},
		{UserID: uuid.New(), Shares: 1},
	}
	plan, err := Allocate(dec("100.00"), 3, holdings, 0)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, line := range plan.InvestorLines {
		assert.Equal(t, "33.33", line.Amount.StringFixed(2))
		sum = sum.Add(line.Amount)
	}
	assert.Equal(t, "99.99", sum.StringFixed(2))
}

func TestAllocate_NegativeNet(t *testing.T) {
	holdings := []shares.Holding{{UserID: uuid.New(), Shares: 500}}
	plan, err := Allocate(dec("-1000.00"), 1000, holdings, 500)
	require.NoError(t, err)
	assert.Equal(t, "-500.00", plan.InvestorLines[0].Amount.StringFixed(2))
	require.NotNil(t, plan.UnderwriterLine)
	assert.Equal(t, "-500.00", plan.UnderwriterLine.Amount.StringFixed(2))
}

func TestAllocate_ZeroShareHoldingSkipped(t *testing.T) {
	holdings := []shares.Holding{
		{UserID: uuid.New(), Shares: 100},
		{UserID: uuid.New(), Shares: 0},
	}
	plan, err := Allocate(dec("1000.00"), 1000, holdings, 900)
	require.NoError(t, err)
	assert.Len(t, plan.InvestorLines, 1)
}
