package shares

import (
	"testing"

	"brixa-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLedgerTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Property{}, &domain.Investment{}))
	return db
}

func TestSold_OnlyConfirmedCounted(t *testing.T) {
	db := setupLedgerTest(t)
	propertyID := uuid.New()

	require.NoError(t, db.Create(&domain.Investment{UserID: uuid.New(), PropertyID: propertyID, Shares: 300, Status: domain.InvestmentConfirmed}).Error)
	require.NoError(t, db.Create(&domain.Investment{UserID: uuid.New(), PropertyID: propertyID, Shares: 200, Status: domain.InvestmentConfirmed}).Error)
	require.NoError(t, db.Create(&domain.Investment{UserID: uuid.New(), PropertyID: propertyID, Shares: 999, Status: domain.InvestmentPending}).Error)
	require.NoError(t, db.Create(&domain.Investment{UserID: uuid.New(), PropertyID: propertyID, Shares: 50, Status: domain.InvestmentCancelled}).Error)

	sold, err := Sold(db, propertyID)
	require.NoError(t, err)
	assert.Equal(t, 500, sold)
}

func TestSold_NoInvestments(t *testing.T) {
	db := setupLedgerTest(t)
	sold, err := Sold(db, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, sold)
}

func TestUnsold_NegativePassedThrough(t *testing.T) {
	db := setupLedgerTest(t)
	property := domain.Property{Name: "Canal House", TotalShares: 100}
	require.NoError(t, db.Create(&property).Error)
	require.NoError(t, db.Create(&domain.Investment{UserID: uuid.New(), PropertyID: property.PropertyID, Shares: 150, Status: domain.InvestmentConfirmed}).Error)

	unsold, err := Unsold(db, &property)
	require.NoError(t, err)
	assert.Equal(t, -50, unsold)
}

func TestConfirmedHoldings_GroupedPerUser(t *testing.T) {
	db := setupLedgerTest(t)
	propertyID := uuid.New()
	userA := uuid.New()

	require.NoError(t, db.Create(&domain.Investment{UserID: userA, PropertyID: propertyID, Shares: 100, Status: domain.InvestmentConfirmed}).Error)
	require.NoError(t, db.Create(&domain.Investment{UserID: userA, PropertyID: propertyID, Shares: 50, Status: domain.InvestmentConfirmed}).Error)
	require.NoError(t, db.Create(&domain.Investment{UserID: uuid.New(), PropertyID: propertyID, Shares: 25, Status: domain.InvestmentConfirmed}).Error)

	holdings, err := ConfirmedHoldings(db, propertyID)
	require.NoError(t, err)
	require.Len(t, holdings, 2)

	total := 0
	for _, h := range holdings {
		total += h.Shares
		if h.UserID == userA {
			assert.Equal(t, 150, h.Shares)
		}
	}
	assert.Equal(t, 175, total)
}
