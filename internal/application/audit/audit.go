package audit

import (
	"encoding/json"

	"brixa-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entry is one audit record before serialization. OldValue/NewValue are
// marshaled to JSON columns; nil values produce empty columns, not "null".
type Entry struct {
	ActorID    *uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	OldValue   interface{}
	NewValue   interface{}
	Reason     string
}

// Append writes one AuditLog row inside the caller's transaction. Every
// state-changing operation on distributions and payouts goes through here.
func Append(tx *gorm.DB, e Entry) error {
	row := domain.AuditLog{
		ActorID:    e.ActorID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Reason:     e.Reason,
	}
	if e.OldValue != nil {
		b, err := json.Marshal(e.OldValue)
		if err != nil {
			return err
		}
		row.OldValue = datatypes.JSON(b)
	}
	if e.NewValue != nil {
		b, err := json.Marshal(e.NewValue)
		if err != nil {
			return err
		}
		row.NewValue = datatypes.JSON(b)
	}
	return tx.Create(&row).Error
}
