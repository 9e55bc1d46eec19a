package repository

import (
	"clinical-data-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClinicalRecordRepository interface {
	Create(db *gorm.DB, record *entity.ClinicalRecord) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.ClinicalRecord, error)
	FindByPatient(db *gorm.DB, patientID uuid.UUID, skip, limit int) ([]entity.ClinicalRecord, error)
	Update(db *gorm.DB, record *entity.ClinicalRecord) error
}
