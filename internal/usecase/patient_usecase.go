package usecase

import (
	"context"
	"errors"
	"time"

	"clinical-data-api/internal/converter"
	"clinical-data-api/internal/delivery/dto"
	"clinical-data-api/internal/domain/access"
	"clinical-data-api/internal/domain/entity"
	"clinical-data-api/internal/domain/repository"
	"clinical-data-api/internal/infrastructure/database"
	"clinical-data-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrPatientForbidden    = errors.New("not allowed to act on this patient")
	ErrResidentNotFound    = errors.New("resident not found")
	ErrAssigneeNotResident = errors.New("assignee is not a resident")
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, consultantID uuid.UUID, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID) (*dto.PatientResponse, error)
	UpdatePatient(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	ListMyPatients(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, skip, limit int) (*dto.PatientListResponse, error)
	AssignResident(ctx context.Context, consultantID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, req *dto.AssignResidentRequest) (*dto.AssignmentResponse, error)
	GetAssignmentHistory(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, skip, limit int) (*dto.AssignmentListResponse, error)
}

type patientUsecase struct {
	txm            database.TxManager
	log            *logrus.Logger
	patientRepo    repository.PatientRepository
	doctorRepo     repository.DoctorRepository
	assignmentRepo repository.AssignmentRepository
	auditService   service.AuditService
}

func NewPatientUsecase(
	txm database.TxManager,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	assignmentRepo repository.AssignmentRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		txm:            txm,
		log:            log,
		patientRepo:    patientRepo,
		doctorRepo:     doctorRepo,
		assignmentRepo: assignmentRepo,
		auditService:   auditService,
	}
}

func (u *patientUsecase) CreatePatient(ctx context.Context, consultantID uuid.UUID, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	var created *entity.Patient
	err := u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		patient := &entity.Patient{
			Name:            req.Name,
			Age:             req.Age,
			Gender:          req.Gender,
			ConsultantID:    consultantID,
			RiskFactors:     req.RiskFactors,
			FamilyHistory:   req.FamilyHistory,
			SurgicalHistory: req.SurgicalHistory,
			AdditionalNotes: req.AdditionalNotes,
		}

		if err := u.patientRepo.Create(tx, patient); err != nil {
			u.log.Warnf("Failed to create patient: %+v", err)
			return err
		}

		created = patient
		return u.auditService.Log(ctx, tx, &consultantID, entity.AuditActionPatientCreate, entity.JSON{
			"patient_id": patient.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.PatientToResponse(created), nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.loadAuthorized(u.txm.WithContext(ctx), doctorID, doctorType, patientID, access.ActionReadPatient)
	if err != nil {
		return nil, err
	}
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	var updated *entity.Patient
	err := u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.loadAuthorized(tx, doctorID, doctorType, patientID, access.ActionUpdatePatient)
		if err != nil {
			return err
		}

		if req.Name != "" {
			patient.Name = req.Name
		}
		if req.Age != nil {
			patient.Age = *req.Age
		}
		if req.Gender != "" {
			patient.Gender = req.Gender
		}
		if req.RiskFactors != nil {
			patient.RiskFactors = req.RiskFactors
		}
		if req.FamilyHistory != nil {
			patient.FamilyHistory = req.FamilyHistory
		}
		if req.SurgicalHistory != nil {
			patient.SurgicalHistory = req.SurgicalHistory
		}
		if req.AdditionalNotes != nil {
			patient.AdditionalNotes = req.AdditionalNotes
		}

		if err := u.patientRepo.Update(tx, patient); err != nil {
			u.log.Warnf("Failed to update patient: %+v", err)
			return err
		}

		updated = patient
		return u.auditService.Log(ctx, tx, &doctorID, entity.AuditActionPatientUpdate, entity.JSON{
			"patient_id": patient.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.PatientToResponse(updated), nil
}

// ListMyPatients returns the caller's working set: owned patients for a
// consultant, currently assigned patients for a resident.
func (u *patientUsecase) ListMyPatients(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, skip, limit int) (*dto.PatientListResponse, error) {
	db := u.txm.WithContext(ctx)

	var patients []entity.Patient
	var err error
	switch doctorType {
	case entity.DoctorTypeConsultant:
		patients, err = u.patientRepo.FindByConsultant(db, doctorID, skip, limit)
	case entity.DoctorTypeResident:
		patients, err = u.patientRepo.FindByCurrentResident(db, doctorID, skip, limit)
	default:
		return nil, ErrPatientForbidden
	}
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    len(patients),
	}, nil
}

// AssignResident reassigns a patient to a resident atomically: the open
// ledger entry (if any) is closed and the new one opened with the same
// timestamp, then the patient's current resident pointer is updated. The
// patient row is locked for the duration so concurrent reassignments
// serialize and the ledger never holds two open entries per patient.
func (u *patientUsecase) AssignResident(ctx context.Context, consultantID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, req *dto.AssignResidentRequest) (*dto.AssignmentResponse, error) {
	residentID, err := uuid.Parse(req.ResidentID)
	if err != nil {
		return nil, ErrResidentNotFound
	}

	var assignment *entity.PatientAssignment
	err = u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.patientRepo.FindByIDForUpdate(tx, patientID)
		if err != nil {
			u.log.Warnf("Failed to lock patient: %+v", err)
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}

		resident, err := u.doctorRepo.FindByID(tx, residentID)
		if err != nil {
			return err
		}
		if resident == nil {
			return ErrResidentNotFound
		}
		if !resident.IsResident() {
			return ErrAssigneeNotResident
		}

		if !access.Can(consultantID, doctorType, patient, access.ActionAssignResident) {
			return ErrPatientForbidden
		}

		now := time.Now().UTC()
		if _, err := u.assignmentRepo.CloseOpen(tx, patientID, now); err != nil {
			u.log.Warnf("Failed to close open assignment: %+v", err)
			return err
		}

		assignment = &entity.PatientAssignment{
			PatientID:  patientID,
			ResidentID: residentID,
			AssignedAt: now,
		}
		if err := u.assignmentRepo.Create(tx, assignment); err != nil {
			u.log.Warnf("Failed to create assignment: %+v", err)
			return err
		}

		if err := u.patientRepo.UpdateCurrentResident(tx, patientID, &residentID); err != nil {
			u.log.Warnf("Failed to update current resident: %+v", err)
			return err
		}

		return u.auditService.Log(ctx, tx, &consultantID, entity.AuditActionPatientAssign, entity.JSON{
			"patient_id":  patientID.String(),
			"resident_id": residentID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.AssignmentToResponse(assignment), nil
}

func (u *patientUsecase) GetAssignmentHistory(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, skip, limit int) (*dto.AssignmentListResponse, error) {
	db := u.txm.WithContext(ctx)

	if _, err := u.loadAuthorized(db, doctorID, doctorType, patientID, access.ActionViewAssignments); err != nil {
		return nil, err
	}

	assignments, err := u.assignmentRepo.FindByPatient(db, patientID, skip, limit)
	if err != nil {
		u.log.Warnf("Failed to list assignments: %+v", err)
		return nil, err
	}

	return &dto.AssignmentListResponse{
		Assignments: converter.AssignmentsToResponses(assignments),
		Total:       len(assignments),
	}, nil
}

// loadAuthorized fetches a patient and applies the access gate. Existence
// is resolved first so callers without any relationship to a missing
// patient still get not found.
func (u *patientUsecase) loadAuthorized(db *gorm.DB, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, action access.Action) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	if !access.Can(doctorID, doctorType, patient, action) {
		return nil, ErrPatientForbidden
	}
	return patient, nil
}
