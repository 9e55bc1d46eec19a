package repository

import (
	"errors"

	"clinical-data-api/internal/domain/entity"
	domainRepo "clinical-data-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clinicalRecordRepository struct{}

func NewClinicalRecordRepository() domainRepo.ClinicalRecordRepository {
	return &clinicalRecordRepository{}
}

func (r *clinicalRecordRepository) Create(db *gorm.DB, record *entity.ClinicalRecord) error {
	return db.Create(record).Error
}

func (r *clinicalRecordRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.ClinicalRecord, error) {
	var record entity.ClinicalRecord
	err := db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *clinicalRecordRepository) FindByPatient(db *gorm.DB, patientID uuid.UUID, skip, limit int) ([]entity.ClinicalRecord, error) {
	var records []entity.ClinicalRecord
	err := db.Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *clinicalRecordRepository) Update(db *gorm.DB, record *entity.ClinicalRecord) error {
	return db.Omit("Patient", "CreatedBy").Save(record).Error
}
