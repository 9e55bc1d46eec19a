package repository

import (
	"errors"
	"time"

	"clinical-data-api/internal/domain/entity"
	domainRepo "clinical-data-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type assignmentRepository struct{}

func NewAssignmentRepository() domainRepo.AssignmentRepository {
	return &assignmentRepository{}
}

func (r *assignmentRepository) Create(db *gorm.DB, assignment *entity.PatientAssignment) error {
	return db.Create(assignment).Error
}

func (r *assignmentRepository) FindOpenByPatient(db *gorm.DB, patientID uuid.UUID) (*entity.PatientAssignment, error) {
	var assignment entity.PatientAssignment
	err := db.Where("patient_id = ? AND ended_at IS NULL", patientID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) CloseOpen(db *gorm.DB, patientID uuid.UUID, endedAt time.Time) (int64, error) {
	result := db.Model(&entity.PatientAssignment{}).
		Where("patient_id = ? AND ended_at IS NULL", patientID).
		Update("ended_at", endedAt)
	return result.RowsAffected, result.Error
}

func (r *assignmentRepository) FindByPatient(db *gorm.DB, patientID uuid.UUID, skip, limit int) ([]entity.PatientAssignment, error) {
	var assignments []entity.PatientAssignment
	err := db.Preload("Resident").
		Where("patient_id = ?", patientID).
		Order("assigned_at DESC, id DESC").
		Offset(skip).
		Limit(limit).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
