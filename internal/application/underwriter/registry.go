package underwriter

import (
	"brixa-backend/internal/constants"
	"brixa-backend/internal/domain"

	"gorm.io/gorm"
)

// DefaultEmail is the fixed lookup key for the system holder account. Config
// may override it, but every environment has exactly one.
const DefaultEmail = "underwriter@system.brixa.estate"

// Registry guarantees existence of the single underwriter account: the
// non-investor user that owns unsold-share income.
type Registry struct {
	Email string
}

func (r *Registry) email() string {
	if r == nil || r.Email == "" {
		return DefaultEmail
	}
	return r.Email
}

// GetOrCreate returns the underwriter account, creating it on first use.
// Idempotent under concurrent first use: the unique index on email makes the
// race loser's insert fail, after which the row is re-read. Callers inside a
// larger transaction pass their tx so creation commits or rolls back with it.
func (r *Registry) GetOrCreate(tx *gorm.DB) (*domain.User, error) {
	email := r.email()

	var u domain.User
	err := tx.Where("email = ?", email).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	u = domain.User{
		Fullname:      "Platform Underwriter",
		Email:         email,
		PasswordHash:  "", // never a login account
		Role:          constants.System,
		IsUnderwriter: true,
	}
	if createErr := tx.Create(&u).Error; createErr != nil {
		// Lost the creation race; the row exists now.
		if lookupErr := tx.Where("email = ?", email).First(&u).Error; lookupErr == nil {
			return &u, nil
		}
		return nil, createErr
	}
	return &u, nil
}
