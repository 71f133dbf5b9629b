package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records every state-changing operation on distributions and payouts
// with before/after snapshots. ActorID is nil for system-initiated actions
// (e.g. reconciliation runs without an operator).
type AuditLog struct {
	AuditID    uuid.UUID      `gorm:"column:audit_id;type:uuid;primaryKey" json:"audit_id"`
	ActorID    *uuid.UUID     `gorm:"column:actor_id;type:uuid" json:"actor_id"`
	Action     string         `gorm:"column:action;not null;index" json:"action"`
	EntityType string         `gorm:"column:entity_type;not null" json:"entity_type"`
	EntityID   uuid.UUID      `gorm:"column:entity_id;type:uuid;index" json:"entity_id"`
	OldValue   datatypes.JSON `gorm:"column:old_value;type:jsonb" json:"old_value"`
	NewValue   datatypes.JSON `gorm:"column:new_value;type:jsonb" json:"new_value"`
	Reason     string         `gorm:"column:reason" json:"reason"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "AuditLogs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.AuditID == uuid.Nil {
		a.AuditID = uuid.New()
	}
	return nil
}
