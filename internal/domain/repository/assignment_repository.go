package repository

import (
	"time"

	"clinical-data-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(db *gorm.DB, assignment *entity.PatientAssignment) error
	FindOpenByPatient(db *gorm.DB, patientID uuid.UUID) (*entity.PatientAssignment, error)
	// CloseOpen sets ended_at on the patient's open ledger entry.
	// Returns the number of entries closed (0 or 1).
	CloseOpen(db *gorm.DB, patientID uuid.UUID, endedAt time.Time) (int64, error)
	// FindByPatient returns ledger entries newest first.
	FindByPatient(db *gorm.DB, patientID uuid.UUID, skip, limit int) ([]entity.PatientAssignment, error)
}
