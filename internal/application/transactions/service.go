package transactions

import (
	"context"

	"brixa-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// ListByUser returns the caller's ledger transactions, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(`"createdAt" DESC`).
		Find(&txs).Error
	return txs, err
}
