package distributions

import (
	"context"
	"time"

	"brixa-backend/internal/application/allocation"
	"brixa-backend/internal/application/audit"
	"brixa-backend/internal/application/shares"
	"brixa-backend/internal/application/underwriter"
	"brixa-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service owns the distribution state machine: DRAFT -> PENDING_APPROVAL ->
// APPROVED -> DECLARED, with reject returning to DRAFT and PAID derived from
// payouts on read. Every multi-row mutation runs in one transaction.
type Service struct {
	DB          *gorm.DB
	Underwriter *underwriter.Registry
	Currency    string
}

// View is a distribution plus its payouts and the derived effective status.
type View struct {
	domain.Distribution
	EffectiveStatus string          `json:"effective_status"`
	Payouts         []domain.Payout `json:"payouts"`
}

func (s *Service) currency() string {
	if s.Currency == "" {
		return "EUR"
	}
	return s.Currency
}

// CreateDraft validates the statement is not yet distributed, allocates
// payouts and persists the DRAFT distribution with all its payout rows
// atomically. The uniqueness check runs inside the transaction so concurrent
// creates for the same statement resolve to one winner and one domain error.
func (s *Service) CreateDraft(ctx context.Context, propertyID, statementID uuid.UUID, actorID *uuid.UUID) (*View, error) {
	var view *View

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var property domain.Property
		if err := tx.Where("property_id = ?", propertyID).First(&property).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrPropertyNotFound
			}
			return err
		}

		var statement domain.RentalStatement
		if err := tx.Where("statement_id = ?", statementID).First(&statement).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrStatementNotFound
			}
			return err
		}
		if statement.PropertyID != property.PropertyID {
			return ErrStatementMismatch
		}

		var existing int64
		if err := tx.Model(&domain.Distribution{}).
			Where("rental_statement_id = ?", statementID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDistributionExists
		}

		holdings, err := shares.ConfirmedHoldings(tx, property.PropertyID)
		if err != nil {
			return err
		}
		unsold, err := shares.Unsold(tx, &property)
		if err != nil {
			return err
		}

		plan, err := allocation.Allocate(statement.NetDistributable, property.TotalShares, holdings, unsold)
		if err != nil {
			return err
		}

		dist := domain.Distribution{
			PropertyID:        property.PropertyID,
			RentalStatementID: statement.StatementID,
			TotalDistributed:  statement.NetDistributable,
			Status:            domain.DistributionDraft,
		}
		if err := tx.Create(&dist).Error; err != nil {
			return err
		}

		payouts := make([]domain.Payout, 0, len(plan.InvestorLines)+1)
		for _, line := range plan.InvestorLines {
			payouts = append(payouts, domain.Payout{
				UserID:            line.UserID,
				PropertyID:        property.PropertyID,
				DistributionID:    dist.DistributionID,
				RentalStatementID: statement.StatementID,
				SharesAtRecord:    line.Shares,
				Amount:            line.Amount,
				Status:            domain.PayoutPending,
			})
		}
		if plan.UnderwriterLine != nil {
			holder, err := s.Underwriter.GetOrCreate(tx)
			if err != nil {
				return err
			}
			payouts = append(payouts, domain.Payout{
				UserID:            holder.UserID,
				PropertyID:        property.PropertyID,
				DistributionID:    dist.DistributionID,
				RentalStatementID: statement.StatementID,
				SharesAtRecord:    plan.UnderwriterLine.Shares,
				Amount:            plan.UnderwriterLine.Amount,
				Status:            domain.PayoutPending,
				Notes:             plan.UnderwriterLine.Notes,
			})
		}
		for i := range payouts {
			if err := tx.Create(&payouts[i]).Error; err != nil {
				return err
			}
		}

		if err := audit.Append(tx, audit.Entry{
			ActorID:    actorID,
			Action:     "distribution.create_draft",
			EntityType: "Distribution",
			EntityID:   dist.DistributionID,
			NewValue:   dist,
		}); err != nil {
			return err
		}

		view = &View{Distribution: dist, EffectiveStatus: dist.Status, Payouts: payouts}
		return nil
	})

	return view, err
}

// Submit moves DRAFT -> PENDING_APPROVAL. No recalculation occurs.
func (s *Service) Submit(ctx context.Context, distributionID uuid.UUID, actorID *uuid.UUID) (*domain.Distribution, error) {
	return s.transition(ctx, distributionID, actorID, "distribution.submit", "",
		func(d *domain.Distribution) error {
			if d.Status != domain.DistributionDraft {
				return ErrNotDraft
			}
			d.Status = domain.DistributionPendingApproval
			return nil
		})
}

// Approve moves PENDING_APPROVAL -> APPROVED, recording the approver.
func (s *Service) Approve(ctx context.Context, distributionID uuid.UUID, approvedBy uuid.UUID, notes string) (*domain.Distribution, error) {
	return s.transition(ctx, distributionID, &approvedBy, "distribution.approve", notes,
		func(d *domain.Distribution) error {
			if d.Status != domain.DistributionPendingApproval {
				return ErrNotPendingApproval
			}
			now := time.Now()
			d.Status = domain.DistributionApproved
			d.ApprovedBy = &approvedBy
			d.ApprovedAt = &now
			if notes != "" {
				d.Notes = notes
			}
			return nil
		})
}

// Reject returns PENDING_APPROVAL -> DRAFT so the draft can be corrected.
func (s *Service) Reject(ctx context.Context, distributionID uuid.UUID, actorID *uuid.UUID, notes string) (*domain.Distribution, error) {
	return s.transition(ctx, distributionID, actorID, "distribution.reject", notes,
		func(d *domain.Distribution) error {
			if d.Status != domain.DistributionPendingApproval {
				return ErrNotPendingApproval
			}
			d.Status = domain.DistributionDraft
			if notes != "" {
				d.Notes = notes
			}
			return nil
		})
}

// Declare moves APPROVED -> DECLARED and materializes one ledger Transaction
// per payout. This is the step that locks income in as recognized, whether or
// not individual payouts are ever marked paid.
func (s *Service) Declare(ctx context.Context, distributionID uuid.UUID, actorID *uuid.UUID) (*domain.Distribution, error) {
	var out *domain.Distribution

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dist domain.Distribution
		if err := tx.Where("distribution_id = ?", distributionID).First(&dist).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrDistributionNotFound
			}
			return err
		}
		if dist.Status != domain.DistributionApproved {
			return ErrNotApproved
		}

		old := dist
		now := time.Now()
		dist.Status = domain.DistributionDeclared
		dist.DeclaredAt = &now
		if err := tx.Save(&dist).Error; err != nil {
			return err
		}

		var payouts []domain.Payout
		if err := tx.Where("distribution_id = ?", distributionID).Find(&payouts).Error; err != nil {
			return err
		}
		for i := range payouts {
			record := domain.Transaction{
				UserID:    payouts[i].UserID,
				Type:      domain.TxTypePayout,
				Amount:    payouts[i].Amount,
				Currency:  s.currency(),
				Reference: payouts[i].LedgerReference(),
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}

		if err := audit.Append(tx, audit.Entry{
			ActorID:    actorID,
			Action:     "distribution.declare",
			EntityType: "Distribution",
			EntityID:   dist.DistributionID,
			OldValue:   old,
			NewValue:   dist,
		}); err != nil {
			return err
		}

		out = &dist
		return nil
	})

	return out, err
}

// Delete hard-deletes a distribution and everything derived from it:
// Transactions (matched by payout ledger reference), then Payouts, then the
// Distribution, in one transaction. Refused once any payout is PAID.
func (s *Service) Delete(ctx context.Context, distributionID uuid.UUID, actorID *uuid.UUID, reason string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dist domain.Distribution
		if err := tx.Where("distribution_id = ?", distributionID).First(&dist).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrDistributionNotFound
			}
			return err
		}

		var payouts []domain.Payout
		if err := tx.Where("distribution_id = ?", distributionID).Find(&payouts).Error; err != nil {
			return err
		}
		refs := make([]string, 0, len(payouts))
		for i := range payouts {
			if payouts[i].Status == domain.PayoutPaid {
				return ErrHasPaidPayouts
			}
			refs = append(refs, payouts[i].LedgerReference())
		}

		if len(refs) > 0 {
			if err := tx.Where("reference IN ?", refs).Delete(&domain.Transaction{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("distribution_id = ?", distributionID).Delete(&domain.Payout{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&dist).Error; err != nil {
			return err
		}

		return audit.Append(tx, audit.Entry{
			ActorID:    actorID,
			Action:     "distribution.delete",
			EntityType: "Distribution",
			EntityID:   dist.DistributionID,
			OldValue:   dist,
			Reason:     reason,
		})
	})
}

// Get returns a distribution with its payouts and the derived effective
// status. PAID is never stored: a DECLARED distribution whose payouts are all
// paid reads back as PAID.
func (s *Service) Get(ctx context.Context, distributionID uuid.UUID) (*View, error) {
	var dist domain.Distribution
	if err := s.DB.WithContext(ctx).Where("distribution_id = ?", distributionID).First(&dist).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDistributionNotFound
		}
		return nil, err
	}
	var payouts []domain.Payout
	if err := s.DB.WithContext(ctx).
		Where("distribution_id = ?", distributionID).
		Order("amount DESC").
		Find(&payouts).Error; err != nil {
		return nil, err
	}
	return &View{
		Distribution:    dist,
		EffectiveStatus: EffectiveStatus(&dist, payouts),
		Payouts:         payouts,
	}, nil
}

// ListByProperty returns all distributions for a property, newest first.
func (s *Service) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]View, error) {
	var dists []domain.Distribution
	if err := s.DB.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order(`"createdAt" DESC`).
		Find(&dists).Error; err != nil {
		return nil, err
	}
	views := make([]View, 0, len(dists))
	for i := range dists {
		var payouts []domain.Payout
		if err := s.DB.WithContext(ctx).
			Where("distribution_id = ?", dists[i].DistributionID).
			Find(&payouts).Error; err != nil {
			return nil, err
		}
		views = append(views, View{
			Distribution:    dists[i],
			EffectiveStatus: EffectiveStatus(&dists[i], payouts),
			Payouts:         payouts,
		})
	}
	return views, nil
}

// EffectiveStatus maps the stored status plus payout states onto the reported
// status: DECLARED with every payout PAID reads as PAID.
func EffectiveStatus(d *domain.Distribution, payouts []domain.Payout) string {
	if d.Status != domain.DistributionDeclared || len(payouts) == 0 {
		return d.Status
	}
	for i := range payouts {
		if payouts[i].Status != domain.PayoutPaid {
			return d.Status
		}
	}
	return domain.DistributionPaid
}

// transition runs one guarded status mutation plus its audit entry in a transaction.
func (s *Service) transition(ctx context.Context, distributionID uuid.UUID, actorID *uuid.UUID, action, reason string, mutate func(*domain.Distribution) error) (*domain.Distribution, error) {
	var out *domain.Distribution

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dist domain.Distribution
		if err := tx.Where("distribution_id = ?", distributionID).First(&dist).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrDistributionNotFound
			}
			return err
		}
		old := dist
		if err := mutate(&dist); err != nil {
			return err
		}
		if err := tx.Save(&dist).Error; err != nil {
			return err
		}
		if err := audit.Append(tx, audit.Entry{
			ActorID:    actorID,
			Action:     action,
			EntityType: "Distribution",
			EntityID:   dist.DistributionID,
			OldValue:   old,
			NewValue:   dist,
			Reason:     reason,
		}); err != nil {
			return err
		}
		out = &dist
		return nil
	})

	return out, err
}
