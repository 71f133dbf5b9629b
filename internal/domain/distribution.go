package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Distribution statuses. PAID is derived on read (all payouts paid), never
// written to the row; the stored status stops at DECLARED.
const (
	DistributionDraft           = "DRAFT"
	DistributionPendingApproval = "PENDING_APPROVAL"
	DistributionApproved        = "APPROVED"
	DistributionDeclared        = "DECLARED"
	DistributionPaid            = "PAID"
)

// Distribution is one income-sharing event for a property, tied 1:1 to a
// rental statement. TotalDistributed equals the statement's net distributable
// at draft time and its payouts must sum to it.
type Distribution struct {
	DistributionID    uuid.UUID       `gorm:"column:distribution_id;type:uuid;primaryKey" json:"distribution_id"`
	PropertyID        uuid.UUID       `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	RentalStatementID uuid.UUID       `gorm:"column:rental_statement_id;type:uuid;not null;uniqueIndex" json:"rental_statement_id"`
	TotalDistributed  decimal.Decimal `gorm:"column:total_distributed;type:decimal(18,2);not null" json:"total_distributed"`
	Status            string          `gorm:"column:status;type:varchar(20);not null;default:'DRAFT'" json:"status"`
	DeclaredAt        *time.Time      `gorm:"column:declared_at" json:"declared_at"`
	ApprovedBy        *uuid.UUID      `gorm:"column:approved_by;type:uuid" json:"approved_by"`
	ApprovedAt        *time.Time      `gorm:"column:approved_at" json:"approved_at"`
	Notes             string          `gorm:"column:notes" json:"notes"`
	CreatedAt         time.Time       `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt         time.Time       `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Distribution) TableName() string {
	return "Distributions"
}

func (d *Distribution) BeforeCreate(tx *gorm.DB) error {
	if d.DistributionID == uuid.Nil {
		d.DistributionID = uuid.New()
	}
	return nil
}
