package repository

import (
	"errors"

	"clinical-data-api/internal/domain/entity"
	domainRepo "clinical-data-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Create(patient).Error
}

func (r *patientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

// FindByIDForUpdate takes a SELECT ... FOR UPDATE row lock so concurrent
// assigns on the same patient serialize through the transaction.
func (r *patientRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByConsultant(db *gorm.DB, consultantID uuid.UUID, skip, limit int) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := db.Where("consultant_id = ?", consultantID).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) FindByCurrentResident(db *gorm.DB, residentID uuid.UUID, skip, limit int) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := db.Where("current_resident_id = ?", residentID).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) Update(db *gorm.DB, patient *entity.Patient) error {
	return db.Omit("Consultant", "CurrentResident", "ClinicalRecords").Save(patient).Error
}

func (r *patientRepository) UpdateCurrentResident(db *gorm.DB, patientID uuid.UUID, residentID *uuid.UUID) error {
	return db.Model(&entity.Patient{}).
		Where("id = ?", patientID).
		Update("current_resident_id", residentID).Error
}
