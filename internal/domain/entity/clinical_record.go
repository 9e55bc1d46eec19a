package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingStatus represents the NLP processing state of a clinical record
type ProcessingStatus string

const (
	ProcessingStatusPending   ProcessingStatus = "pending"
	ProcessingStatusProcessed ProcessingStatus = "processed"
	ProcessingStatusFailed    ProcessingStatus = "failed"
)

// ClinicalRecord is one audio-derived clinical history entry for a patient.
// Record identity is stable after creation; only the extracted data and
// processing status may be revised.
type ClinicalRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID   uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by_id"`

	AudioPath     string `gorm:"type:text" json:"audio_path,omitempty"`
	Transcription string `gorm:"type:text" json:"transcription,omitempty"`
	ExtractedData JSON   `gorm:"type:jsonb" json:"extracted_data,omitempty"`

	ProcessingStatus ProcessingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"processing_status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient   Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	CreatedBy Doctor  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

func (ClinicalRecord) TableName() string {
	return "clinical_records"
}

// IsPending checks if the record still awaits processing review
func (r *ClinicalRecord) IsPending() bool {
	return r.ProcessingStatus == ProcessingStatusPending
}

// MarkProcessed transitions the record to processed
func (r *ClinicalRecord) MarkProcessed() {
	r.ProcessingStatus = ProcessingStatusProcessed
}

// MarkFailed transitions the record to failed
func (r *ClinicalRecord) MarkFailed() {
	r.ProcessingStatus = ProcessingStatusFailed
}
