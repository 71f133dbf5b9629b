package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property is an income-producing asset divided into a fixed number of shares.
// TotalShares is immutable once investments exist; property CRUD is owned by a
// separate service, this backend only reads it for allocation and the share ledger.
type Property struct {
	PropertyID  uuid.UUID `gorm:"column:property_id;type:uuid;primaryKey" json:"property_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Address     string    `gorm:"column:address" json:"address"`
	TotalShares int       `gorm:"column:total_shares;not null" json:"total_shares"`
	Status      string    `gorm:"column:status;type:varchar(20);default:'active'" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Property) TableName() string {
	return "Properties"
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.PropertyID == uuid.Nil {
		p.PropertyID = uuid.New()
	}
	return nil
}
