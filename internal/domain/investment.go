package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Investment statuses. Only CONFIRMED investments participate in allocation.
const (
	InvestmentPending   = "PENDING"
	InvestmentConfirmed = "CONFIRMED"
	InvestmentCancelled = "CANCELLED"
)

// Investment is a user's purchase of shares in a property. Owned by the
// investment service; this backend reads it for the share ledger view.
type Investment struct {
	InvestmentID uuid.UUID `gorm:"column:investment_id;type:uuid;primaryKey" json:"investment_id"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	PropertyID   uuid.UUID `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	Shares       int       `gorm:"column:shares;not null" json:"shares"`
	Status       string    `gorm:"column:status;type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Investment) TableName() string {
	return "Investments"
}

func (i *Investment) BeforeCreate(tx *gorm.DB) error {
	if i.InvestmentID == uuid.Nil {
		i.InvestmentID = uuid.New()
	}
	return nil
}
