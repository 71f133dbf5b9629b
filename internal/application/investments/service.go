package investments

import (
	"context"

	"brixa-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Holding is one property position in a user's portfolio view.
type Holding struct {
	PropertyID   uuid.UUID `json:"property_id"`
	PropertyName string    `json:"property_name"`
	Shares       int       `json:"shares"`
	TotalShares  int       `json:"total_shares"`
}

// ListByUser returns the caller's confirmed holdings grouped per property.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Holding, error) {
	var invs []domain.Investment
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, domain.InvestmentConfirmed).
		Find(&invs).Error; err != nil {
		return nil, err
	}

	byProperty := map[uuid.UUID]int{}
	for _, inv := range invs {
		byProperty[inv.PropertyID] += inv.Shares
	}
	if len(byProperty) == 0 {
		return []Holding{}, nil
	}

	ids := make([]uuid.UUID, 0, len(byProperty))
	for id := range byProperty {
		ids = append(ids, id)
	}
	var props []domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id IN ?", ids).Find(&props).Error; err != nil {
		return nil, err
	}

	out := make([]Holding, 0, len(props))
	for _, p := range props {
		out = append(out, Holding{
			PropertyID:   p.PropertyID,
			PropertyName: p.Name,
			Shares:       byProperty[p.PropertyID],
			TotalShares:  p.TotalShares,
		})
	}
	return out, nil
}
