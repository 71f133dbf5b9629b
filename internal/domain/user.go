package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that can receive payouts. The platform underwriter
// (system holder for unsold shares) is a User row with IsUnderwriter set;
// it is excluded from investor-facing queries but shares the Payout shape.
type User struct {
	UserID        uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Fullname      string         `gorm:"column:fullname;not null" json:"fullname"`
	Email         string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash  string         `gorm:"column:password_hash;not null" json:"-"`
	Role          string         `gorm:"column:role;not null;default:investor" json:"role"`
	IsUnderwriter bool           `gorm:"column:is_underwriter;not null;default:false" json:"is_underwriter"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
