package repository

import (
	"clinical-data-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	// FindByIDForUpdate locks the patient row for the duration of the
	// surrounding transaction. Used by the assign flow to serialize
	// concurrent reassignments of the same patient.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindByConsultant(db *gorm.DB, consultantID uuid.UUID, skip, limit int) ([]entity.Patient, error)
	FindByCurrentResident(db *gorm.DB, residentID uuid.UUID, skip, limit int) ([]entity.Patient, error)
	Update(db *gorm.DB, patient *entity.Patient) error
	UpdateCurrentResident(db *gorm.DB, patientID uuid.UUID, residentID *uuid.UUID) error
}
