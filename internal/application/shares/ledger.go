package shares

import (
	"brixa-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Holding is one investor's confirmed share total for a property.
type Holding struct {
	UserID uuid.UUID
	Shares int
}

// Sold returns the sum of shares across CONFIRMED investments for the
// property. Always recomputed from the Investments table: investments change
// state independently of distributions, so caching this on the property row
// would go stale.
func Sold(db *gorm.DB, propertyID uuid.UUID) (int, error) {
	var total int64
	err := db.Model(&domain.Investment{}).
		Where("property_id = ? AND status = ?", propertyID, domain.InvestmentConfirmed).
		Select("COALESCE(SUM(shares), 0)").
		Scan(&total).Error
	return int(total), err
}

// Unsold returns totalShares minus confirmed shares. A negative result means
// confirmed investments exceed the property's total shares; that is a data
// inconsistency the caller should surface, so it is logged and passed through
// rather than clamped.
func Unsold(db *gorm.DB, property *domain.Property) (int, error) {
	sold, err := Sold(db, property.PropertyID)
	if err != nil {
		return 0, err
	}
	unsold := property.TotalShares - sold
	if unsold < 0 {
		log.Warn().
			Str("property_id", property.PropertyID.String()).
			Int("total_shares", property.TotalShares).
			Int("sold_shares", sold).
			Msg("confirmed investments exceed total shares")
	}
	return unsold, nil
}

// ConfirmedHoldings returns per-investor confirmed share totals for the
// property, one entry per user, ordered by user id for stable payout order.
func ConfirmedHoldings(db *gorm.DB, propertyID uuid.UUID) ([]Holding, error) {
	var holdings []Holding
	err := db.Model(&domain.Investment{}).
		Where("property_id = ? AND status = ?", propertyID, domain.InvestmentConfirmed).
		Select("user_id, SUM(shares) AS shares").
		Group("user_id").
		Order("user_id").
		Scan(&holdings).Error
	return holdings, err
}
