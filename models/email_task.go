package models

import (
	"time"

	"gorm.io/datatypes"
)

// Email task states.
const (
	TaskPending = "pending"
	TaskSent    = "sent"
	TaskFailed  = "failed"
)

// EmailTask is a persisted unit of work for the mail worker.
type EmailTask struct {
	ID            string         `gorm:"primaryKey;size:36"`
	Kind          string         `gorm:"size:64;not null"`
	Recipient     string         `gorm:"not null"`
	Payload       datatypes.JSON `gorm:"not null"`
	Status        string         `gorm:"size:16;not null;index;default:'pending'"`
	Attempts      int            `gorm:"not null;default:0"`
	MaxAttempts   int            `gorm:"not null;default:1"`
	LastError     string
	NextAttemptAt time.Time `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
