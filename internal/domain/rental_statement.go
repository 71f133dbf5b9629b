package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RentalStatement holds a property's already-computed net rental income for one
// period. NetDistributable is signed: adjustments can push a period negative.
// One statement maps to at most one Distribution.
type RentalStatement struct {
	StatementID      uuid.UUID       `gorm:"column:statement_id;type:uuid;primaryKey" json:"statement_id"`
	PropertyID       uuid.UUID       `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	PeriodStart      time.Time       `gorm:"column:period_start;not null" json:"period_start"`
	PeriodEnd        time.Time       `gorm:"column:period_end;not null" json:"period_end"`
	NetDistributable decimal.Decimal `gorm:"column:net_distributable;type:decimal(18,2);not null" json:"net_distributable"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func (RentalStatement) TableName() string {
	return "RentalStatements"
}

func (r *RentalStatement) BeforeCreate(tx *gorm.DB) error {
	if r.StatementID == uuid.Nil {
		r.StatementID = uuid.New()
	}
	return nil
}
