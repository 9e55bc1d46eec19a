package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientAssignment is one interval in the append-only resident assignment
// ledger. EndedAt == nil marks the open (active) interval. Entries are
// closed when superseded, never deleted. A partial unique index on
// (patient_id) WHERE ended_at IS NULL guarantees at most one open interval
// per patient (see db/migrations).
type PatientAssignment struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	ResidentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"resident_id"`
	AssignedAt time.Time  `gorm:"not null;index" json:"assigned_at"`
	EndedAt    *time.Time `gorm:"index" json:"ended_at,omitempty"`

	// Relationships
	Patient  Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Resident Doctor  `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
}

func (PatientAssignment) TableName() string {
	return "patient_assignments"
}

// IsOpen checks if this is the active assignment interval
func (a *PatientAssignment) IsOpen() bool {
	return a.EndedAt == nil
}
