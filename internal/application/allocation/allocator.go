package allocation

import (
	"errors"
	"fmt"

	"brixa-backend/internal/application/shares"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNoSharesPurchased is returned when a property has zero confirmed
// investment shares. An all-underwriter distribution is almost certainly an
// upstream precondition failure, so allocation fails fast instead.
var ErrNoSharesPurchased = errors.New("no shares purchased for this property")

// Line is one computed payout line before persistence.
type Line struct {
	UserID uuid.UUID
	Shares int
	Amount decimal.Decimal
	Notes  string
}

// Plan is the result of allocating one net distributable amount across the
// property's confirmed holders plus the unsold-share remainder.
type Plan struct {
	InvestorLines   []Line
	UnderwriterLine *Line // nil when no unsold shares or the computed amount is zero
}

var hundred = decimal.NewFromInt(100)

// Allocate prorates netDistributable across holdings by shares/totalShares and
// attributes the unsold-share remainder to the underwriter. Pure function: no
// persistence, no side effects.
//
// Each line is rounded to 2 decimal places independently; when shares do not
// divide evenly the summed lines can drift from netDistributable by fractions
// of a cent. That drift is accepted rather than redistributed.
func Allocate(netDistributable decimal.Decimal, totalShares int, holdings []shares.Holding, unsoldShares int) (*Plan, error) {
	if totalShares <= 0 {
		return nil, fmt.Errorf("invalid total shares %d", totalShares)
	}

	totalInvested := 0
	for _, h := range holdings {
		totalInvested += h.Shares
	}
	if totalInvested == 0 {
		return nil, ErrNoSharesPurchased
	}

	total := decimal.NewFromInt(int64(totalShares))
	plan := &Plan{InvestorLines: make([]Line, 0, len(holdings))}

	for _, h := range holdings {
		if h.Shares == 0 {
			continue
		}
		amount := netDistributable.
			Mul(decimal.NewFromInt(int64(h.Shares))).
			Div(total).
			Round(2)
		plan.InvestorLines = append(plan.InvestorLines, Line{
			UserID: h.UserID,
			Shares: h.Shares,
			Amount: amount,
		})
	}

	if unsoldShares > 0 {
		amount := netDistributable.
			Mul(decimal.NewFromInt(int64(unsoldShares))).
			Div(total).
			Round(2)
		if !amount.IsZero() {
			pct := decimal.NewFromInt(int64(unsoldShares)).Mul(hundred).Div(total).Round(2)
			plan.UnderwriterLine = &Line{
				Shares: unsoldShares,
				Amount: amount,
				Notes:  fmt.Sprintf("Unsold shares: %d (%s%% of property)", unsoldShares, pct.String()),
			}
		}
	}

	return plan, nil
}
