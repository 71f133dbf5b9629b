package payouts

import (
	"context"
	"time"

	"brixa-backend/internal/application/audit"
	"brixa-backend/internal/application/wallets"
	"brixa-backend/internal/domain"
	"brixa-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service owns the per-payout state machine: PENDING -> PENDING_APPROVAL ->
// APPROVED -> PAID, with approval as an optional gate (PENDING -> PAID is
// legal). Single-item operations are atomic; batch operations are best-effort
// per item and report aggregate results.
type Service struct {
	DB *gorm.DB
}

// UpdateInput is the general-purpose payout mutation. Nil pointers leave the
// field untouched. Supplying PaidAt forces status PAID regardless of Status.
type UpdateInput struct {
	Amount           *decimal.Decimal
	Status           *string
	PaidAt           *time.Time
	PaymentMethod    *string
	PaymentReference *string
	BankAccount      *string
	Notes            *string
	AdjustmentReason string
}

// BatchFailure is one failed item in a best-effort batch.
type BatchFailure struct {
	PayoutID uuid.UUID `json:"payout_id"`
	Reason   string    `json:"reason"`
}

// BatchResult reports per-item outcomes of a best-effort batch: succeeded and
// failed items are independent, there is no all-or-nothing guarantee.
type BatchResult struct {
	Succeeded []uuid.UUID    `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

// Approve moves a single payout to APPROVED. Guarded: a payout that is
// already PAID or APPROVED is rejected, not silently accepted.
func (s *Service) Approve(ctx context.Context, payoutID uuid.UUID, actorID *uuid.UUID, notes string) (*domain.Payout, error) {
	var out *domain.Payout

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Payout
		if err := tx.Where("payout_id = ?", payoutID).First(&p).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrPayoutNotFound
			}
			return err
		}
		switch p.Status {
		case domain.PayoutPaid:
			return ErrAlreadyPaid
		case domain.PayoutApproved:
			return ErrAlreadyApproved
		}

		old := p
		p.Status = domain.PayoutApproved
		if notes != "" {
			p.Notes = notes
		}
		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		if err := audit.Append(tx, audit.Entry{
			ActorID:    actorID,
			Action:     "payout.approve",
			EntityType: "Payout",
			EntityID:   p.PayoutID,
			OldValue:   old,
			NewValue:   p,
			Reason:     notes,
		}); err != nil {
			return err
		}
		out = &p
		return nil
	})

	return out, err
}

// ApproveBatch approves each payout independently. A failure on one item does
// not roll back the others; callers get counts, not an error.
func (s *Service) ApproveBatch(ctx context.Context, payoutIDs []uuid.UUID, actorID *uuid.UUID, notes string) *BatchResult {
	result := &BatchResult{}
	for _, id := range payoutIDs {
		if _, err := s.Approve(ctx, id, actorID, notes); err != nil {
			result.Failed = append(result.Failed, BatchFailure{PayoutID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result
}

// SubmitBatchForApproval moves the PENDING subset of the given payouts to
// PENDING_APPROVAL. Payouts in any other state are skipped, not erred; one
// bad id never blocks the rest of the batch.
func (s *Service) SubmitBatchForApproval(ctx context.Context, payoutIDs []uuid.UUID, actorID *uuid.UUID, notes string) (*BatchResult, error) {
	result := &BatchResult{}

	for _, id := range payoutIDs {
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var p domain.Payout
			if err := tx.Where("payout_id = ?", id).First(&p).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return ErrPayoutNotFound
				}
				return err
			}
			if p.Status != domain.PayoutPending {
				// skipped, not an error
				return nil
			}
			old := p
			p.Status = domain.PayoutPendingApproval
			if err := tx.Save(&p).Error; err != nil {
				return err
			}
			if err := audit.Append(tx, audit.Entry{
				ActorID:    actorID,
				Action:     "payout.submit_for_approval",
				EntityType: "Payout",
				EntityID:   p.PayoutID,
				OldValue:   old,
				NewValue:   p,
				Reason:     notes,
			}); err != nil {
				return err
			}
			result.Succeeded = append(result.Succeeded, id)
			return nil
		})
		if err != nil {
			result.Failed = append(result.Failed, BatchFailure{PayoutID: id, Reason: err.Error()})
		}
	}

	return result, nil
}

// Update mutates one payout atomically. Guards: unknown status or payment
// method tokens fail; a mutation that results in PAID with a non-wallet
// method requires a bank account on the row. Side effect: on the not-paid ->
// paid edge with the wallet method, the user's wallet is credited in the same
// transaction, so resubmitting the same update cannot double-credit.
func (s *Service) Update(ctx context.Context, payoutID uuid.UUID, input UpdateInput, actorID *uuid.UUID) (*domain.Payout, error) {
	if input.Status != nil && !domain.ValidPayoutStatus(*input.Status) {
		return nil, ErrInvalidStatus
	}
	if input.PaymentMethod != nil && !validation.IsValidPaymentMethod(*input.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}
	if input.BankAccount != nil && *input.BankAccount != "" && !validation.IsValidBankAccount(*input.BankAccount) {
		return nil, ErrInvalidBankAccount
	}

	var out *domain.Payout
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Payout
		if err := tx.Where("payout_id = ?", payoutID).First(&p).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrPayoutNotFound
			}
			return err
		}

		old := p
		wasPaid := p.Status == domain.PayoutPaid

		if input.Amount != nil {
			p.Amount = *input.Amount
		}
		if input.Status != nil {
			p.Status = *input.Status
		}
		if input.PaymentMethod != nil {
			p.PaymentMethod = *input.PaymentMethod
		}
		if input.PaymentReference != nil {
			p.PaymentReference = *input.PaymentReference
		}
		if input.BankAccount != nil {
			p.BankAccount = *input.BankAccount
		}
		if input.Notes != nil {
			p.Notes = *input.Notes
		}
		// Supplying paid_at always forces PAID, even alongside an explicit status.
		if input.PaidAt != nil {
			p.Status = domain.PayoutPaid
			p.PaidAt = input.PaidAt
		}
		if p.Status == domain.PayoutPaid && p.PaidAt == nil {
			now := time.Now()
			p.PaidAt = &now
		}

		if p.Status == domain.PayoutPaid && p.PaymentMethod != domain.PaymentMethodWallet && p.BankAccount == "" {
			return ErrBankAccountRequired
		}

		changed := p.Amount.Cmp(old.Amount) != 0 ||
			p.Status != old.Status ||
			p.PaymentMethod != old.PaymentMethod ||
			p.PaymentReference != old.PaymentReference ||
			p.BankAccount != old.BankAccount ||
			p.Notes != old.Notes ||
			!equalTimePtr(p.PaidAt, old.PaidAt)
		if !changed {
			out = &p
			return nil
		}

		if err := tx.Save(&p).Error; err != nil {
			return err
		}

		newlyPaid := !wasPaid && p.Status == domain.PayoutPaid
		if newlyPaid && p.PaymentMethod == domain.PaymentMethodWallet {
			if err := wallets.Credit(tx, p.UserID, p.Amount, p.PayoutID); err != nil {
				return err
			}
		}

		if err := audit.Append(tx, audit.Entry{
			ActorID:    actorID,
			Action:     "payout.update",
			EntityType: "Payout",
			EntityID:   p.PayoutID,
			OldValue:   old,
			NewValue:   p,
			Reason:     input.AdjustmentReason,
		}); err != nil {
			return err
		}

		out = &p
		return nil
	})

	return out, err
}

// BulkUpdateStatus sets a uniform status across payouts, stamping paid_at
// only when the status is PAID. It deliberately does not credit wallets: bulk
// marking records an operational fact and is not a substitute for the
// wallet-credit path in Update.
func (s *Service) BulkUpdateStatus(ctx context.Context, payoutIDs []uuid.UUID, status string, actorID *uuid.UUID) (*BatchResult, error) {
	if !domain.ValidPayoutStatus(status) {
		return nil, ErrInvalidStatus
	}

	result := &BatchResult{}
	for _, id := range payoutIDs {
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var p domain.Payout
			if err := tx.Where("payout_id = ?", id).First(&p).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return ErrPayoutNotFound
				}
				return err
			}
			old := p
			p.Status = status
			if status == domain.PayoutPaid && p.PaidAt == nil {
				now := time.Now()
				p.PaidAt = &now
			}
			if err := tx.Save(&p).Error; err != nil {
				return err
			}
			return audit.Append(tx, audit.Entry{
				ActorID:    actorID,
				Action:     "payout.bulk_status",
				EntityType: "Payout",
				EntityID:   p.PayoutID,
				OldValue:   old,
				NewValue:   p,
			})
		})
		if err != nil {
			result.Failed = append(result.Failed, BatchFailure{PayoutID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	return result, nil
}

// ListByUser returns a user's payouts, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Payout, error) {
	var out []domain.Payout
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(`"createdAt" DESC`).
		Find(&out).Error
	return out, err
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
