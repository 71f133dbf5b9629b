package properties

import (
	"context"
	"errors"

	"brixa-backend/internal/application/shares"
	"brixa-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPropertyNotFound = errors.New("Property not found")

type Service struct {
	DB *gorm.DB
}

// View is a property plus its live share ledger: sold and unsold counts
// recomputed from confirmed investments at read time.
type View struct {
	domain.Property
	SoldShares   int `json:"sold_shares"`
	UnsoldShares int `json:"unsold_shares"`
}

// Get returns the property with its current share ledger.
func (s *Service) Get(ctx context.Context, propertyID uuid.UUID) (*View, error) {
	var property domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id = ?", propertyID).First(&property).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	sold, err := shares.Sold(s.DB.WithContext(ctx), property.PropertyID)
	if err != nil {
		return nil, err
	}
	return &View{
		Property:     property,
		SoldShares:   sold,
		UnsoldShares: property.TotalShares - sold,
	}, nil
}
