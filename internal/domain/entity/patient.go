package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents a patient record. A patient is permanently owned by one
// consultant and currently assigned to at most one resident. The
// CurrentResidentID column is a projection of the open ledger entry in
// patient_assignments and is only rewritten inside the assign transaction.
type Patient struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name   string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Age    int       `gorm:"not null;default:0" json:"age"`
	Gender string    `gorm:"type:varchar(10)" json:"gender,omitempty"`

	ConsultantID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"consultant_id"`
	CurrentResidentID *uuid.UUID `gorm:"type:uuid;index" json:"current_resident_id,omitempty"`

	RiskFactors     JSON `gorm:"type:jsonb" json:"risk_factors,omitempty"`
	FamilyHistory   JSON `gorm:"type:jsonb" json:"family_history,omitempty"`
	SurgicalHistory JSON `gorm:"type:jsonb" json:"surgical_history,omitempty"`
	AdditionalNotes JSON `gorm:"type:jsonb" json:"additional_notes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Consultant      Doctor           `gorm:"foreignKey:ConsultantID" json:"consultant,omitempty"`
	CurrentResident *Doctor          `gorm:"foreignKey:CurrentResidentID" json:"current_resident,omitempty"`
	ClinicalRecords []ClinicalRecord `gorm:"foreignKey:PatientID" json:"clinical_records,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// HasCurrentResident checks whether a resident is currently assigned
func (p *Patient) HasCurrentResident() bool {
	return p.CurrentResidentID != nil
}

// IsCurrentResident checks whether the given doctor is the currently
// assigned resident
func (p *Patient) IsCurrentResident(doctorID uuid.UUID) bool {
	return p.CurrentResidentID != nil && *p.CurrentResidentID == doctorID
}

// IsOwnedBy checks whether the given doctor is the owning consultant
func (p *Patient) IsOwnedBy(doctorID uuid.UUID) bool {
	return p.ConsultantID == doctorID
}
