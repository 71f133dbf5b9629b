package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"brixa-backend/internal/application/audit"
	"brixa-backend/internal/application/shares"
	"brixa-backend/internal/application/underwriter"
	"brixa-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrDistributionNotFound = errors.New("Distribution not found")

// Correction describes what one reconciliation pass changed on a
// distribution's underwriter payout.
type Correction struct {
	DistributionID uuid.UUID `json:"distribution_id"`
	PayoutID       uuid.UUID `json:"payout_id"`
	OldShares      int       `json:"old_shares"`
	NewShares      int       `json:"new_shares"`
	AmountChanged  bool      `json:"amount_changed"`
	Skipped        bool      `json:"skipped"`
	SkipReason     string    `json:"skip_reason,omitempty"`
}

// Result aggregates a reconciliation run.
type Result struct {
	Checked     int          `json:"checked"`
	Corrected   int          `json:"corrected"`
	Corrections []Correction `json:"corrections"`
}

// Service corrects underwriter payouts whose recorded unsold-share count
// drifted from reality, e.g. because investments were confirmed after a draft
// was created. Investor payouts are never touched. Amounts are recomputed only
// for DRAFT distributions: once a human has acted on a distribution its
// amounts are frozen financial facts, and only the shares_at_record annotation
// and notes are brought up to date.
type Service struct {
	DB          *gorm.DB
	Underwriter *underwriter.Registry
}

// Run reconciles one distribution, or every distribution when
// distributionID is nil. Each distribution is processed in its own
// transaction so a failure on one does not poison the rest.
func (s *Service) Run(ctx context.Context, distributionID *uuid.UUID, actorID *uuid.UUID) (*Result, error) {
	var dists []domain.Distribution
	q := s.DB.WithContext(ctx)
	if distributionID != nil {
		q = q.Where("distribution_id = ?", *distributionID)
	}
	if err := q.Find(&dists).Error; err != nil {
		return nil, err
	}
	if distributionID != nil && len(dists) == 0 {
		return nil, ErrDistributionNotFound
	}

	result := &Result{}
	for i := range dists {
		correction, err := s.reconcileOne(ctx, &dists[i], actorID)
		if err != nil {
			return nil, err
		}
		result.Checked++
		result.Corrections = append(result.Corrections, *correction)
		if !correction.Skipped && correction.OldShares != correction.NewShares {
			result.Corrected++
		}
	}
	return result, nil
}

func (s *Service) reconcileOne(ctx context.Context, dist *domain.Distribution, actorID *uuid.UUID) (*Correction, error) {
	correction := &Correction{DistributionID: dist.DistributionID}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		holder, err := s.Underwriter.GetOrCreate(tx)
		if err != nil {
			return err
		}

		var payout domain.Payout
		err = tx.Where("distribution_id = ? AND user_id = ?", dist.DistributionID, holder.UserID).
			First(&payout).Error
		if err == gorm.ErrRecordNotFound {
			correction.Skipped = true
			correction.SkipReason = "no underwriter payout"
			return nil
		}
		if err != nil {
			return err
		}
		correction.PayoutID = payout.PayoutID
		correction.OldShares = payout.SharesAtRecord

		var property domain.Property
		if err := tx.Where("property_id = ?", dist.PropertyID).First(&property).Error; err != nil {
			return err
		}
		unsold, err := shares.Unsold(tx, &property)
		if err != nil {
			return err
		}
		correction.NewShares = unsold

		if unsold == payout.SharesAtRecord {
			return nil
		}

		old := payout
		payout.SharesAtRecord = unsold
		payout.Notes = fmt.Sprintf("Unsold shares corrected from %d to %d by reconciliation", old.SharesAtRecord, unsold)

		if dist.Status == domain.DistributionDraft {
			payout.Amount = dist.TotalDistributed.
				Mul(decimal.NewFromInt(int64(unsold))).
				Div(decimal.NewFromInt(int64(property.TotalShares))).
				Round(2)
			correction.AmountChanged = payout.Amount.Cmp(old.Amount) != 0
		}

		if err := tx.Save(&payout).Error; err != nil {
			return err
		}
		return audit.Append(tx, audit.Entry{
			ActorID:    actorID,
			Action:     "payout.reconcile",
			EntityType: "Payout",
			EntityID:   payout.PayoutID,
			OldValue:   old,
			NewValue:   payout,
			Reason:     "unsold share reconciliation",
		})
	})

	return correction, err
}
