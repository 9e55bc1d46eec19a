package usecase

import (
	"context"
	"errors"

	"clinical-data-api/internal/converter"
	"clinical-data-api/internal/delivery/dto"
	"clinical-data-api/internal/domain/entity"
	"clinical-data-api/internal/domain/repository"
	"clinical-data-api/internal/infrastructure/database"
	"clinical-data-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrWrongOldPassword    = errors.New("old password does not match")
	ErrOldPasswordRequired = errors.New("old password is required to change password")
	ErrDoctorHasPatients   = errors.New("doctor is still referenced by patients")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, actorID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	ListByType(ctx context.Context, doctorType entity.DoctorType, skip, limit int) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, actorID, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateSelf(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateSelfRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, actorID, id uuid.UUID) error
}

type doctorUsecase struct {
	txm          database.TxManager
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
	hasher       PasswordHasher
}

func NewDoctorUsecase(
	txm database.TxManager,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	hasher PasswordHasher,
) DoctorUsecase {
	return &doctorUsecase{
		txm:          txm,
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
		hasher:       hasher,
	}
}

// CreateDoctor creates a doctor with an explicit role. Residents created
// this way must still reference a consultant supervisor; when the field is
// empty the creating consultant becomes the supervisor.
func (u *doctorUsecase) CreateDoctor(ctx context.Context, actorID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	hashedPassword, err := u.hasher.Hash(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	var created *entity.Doctor
	err = u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		var supervisorID *uuid.UUID
		if entity.DoctorType(req.DoctorType) == entity.DoctorTypeResident {
			id, err := u.resolveCreateSupervisor(tx, actorID, req.SupervisorID)
			if err != nil {
				return err
			}
			supervisorID = &id
		}

		active := true
		doctor := &entity.Doctor{
			Email:                req.Email,
			Password:             hashedPassword,
			FirstName:            req.FirstName,
			LastName:             req.LastName,
			DoctorType:           entity.DoctorType(req.DoctorType),
			Specialty:            req.Specialty,
			MedicalLicenseNumber: req.MedicalLicenseNumber,
			YearsOfExperience:    req.YearsOfExperience,
			Department:           req.Department,
			Bio:                  req.Bio,
			SupervisorID:         supervisorID,
			IsActive:             &active,
		}

		if err := u.doctorRepo.Create(tx, doctor); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			if isDuplicateKeyError(err, "medical_license_number") {
				return ErrLicenseAlreadyExists
			}
			u.log.Warnf("Failed to create doctor: %+v", err)
			return err
		}

		created = doctor
		return u.auditService.Log(ctx, tx, &actorID, entity.AuditActionDoctorCreate, entity.JSON{
			"doctor_id":   doctor.ID.String(),
			"doctor_type": string(doctor.DoctorType),
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.DoctorToResponse(created), nil
}

func (u *doctorUsecase) resolveCreateSupervisor(tx *gorm.DB, actorID uuid.UUID, supplied string) (uuid.UUID, error) {
	if supplied == "" {
		return actorID, nil
	}
	supervisorID, err := uuid.Parse(supplied)
	if err != nil {
		return uuid.Nil, ErrSupervisorNotFound
	}
	supervisor, err := u.doctorRepo.FindByID(tx, supervisorID)
	if err != nil {
		return uuid.Nil, err
	}
	if supervisor == nil {
		return uuid.Nil, ErrSupervisorNotFound
	}
	if !supervisor.IsConsultant() {
		return uuid.Nil, ErrSupervisorNotConsultant
	}
	return supervisor.ID, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.txm.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) ListByType(ctx context.Context, doctorType entity.DoctorType, skip, limit int) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindByType(u.txm.WithContext(ctx), doctorType, skip, limit)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}
	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, actorID, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	var updated *entity.Doctor
	err := u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		doctor, err := u.doctorRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find doctor: %+v", err)
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		if req.FirstName != "" {
			doctor.FirstName = req.FirstName
		}
		if req.LastName != "" {
			doctor.LastName = req.LastName
		}
		if req.Specialty != "" {
			doctor.Specialty = req.Specialty
		}
		if req.YearsOfExperience != nil {
			doctor.YearsOfExperience = *req.YearsOfExperience
		}
		if req.Department != "" {
			doctor.Department = req.Department
		}
		if req.Bio != "" {
			doctor.Bio = req.Bio
		}
		if req.IsActive != nil {
			doctor.IsActive = req.IsActive
		}

		if err := u.doctorRepo.Update(tx, doctor); err != nil {
			u.log.Warnf("Failed to update doctor: %+v", err)
			return err
		}

		updated = doctor
		return u.auditService.Log(ctx, tx, &actorID, entity.AuditActionDoctorUpdate, entity.JSON{
			"doctor_id": doctor.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.DoctorToResponse(updated), nil
}

func (u *doctorUsecase) UpdateSelf(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateSelfRequest) (*dto.DoctorResponse, error) {
	var updated *entity.Doctor
	err := u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		doctor, err := u.doctorRepo.FindByID(tx, doctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor: %+v", err)
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		if req.NewPassword != "" {
			if req.OldPassword == "" {
				return ErrOldPasswordRequired
			}
			if err := u.hasher.Compare(doctor.Password, req.OldPassword); err != nil {
				return ErrWrongOldPassword
			}
			hashed, err := u.hasher.Hash(req.NewPassword)
			if err != nil {
				return err
			}
			doctor.Password = hashed
		}

		if req.FirstName != "" {
			doctor.FirstName = req.FirstName
		}
		if req.LastName != "" {
			doctor.LastName = req.LastName
		}
		if req.Department != "" {
			doctor.Department = req.Department
		}
		if req.Bio != "" {
			doctor.Bio = req.Bio
		}

		if err := u.doctorRepo.Update(tx, doctor); err != nil {
			u.log.Warnf("Failed to update profile: %+v", err)
			return err
		}

		updated = doctor
		return u.auditService.Log(ctx, tx, &doctorID, entity.AuditActionDoctorUpdate, entity.JSON{
			"doctor_id": doctor.ID.String(),
			"self":      true,
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.DoctorToResponse(updated), nil
}

func (u *doctorUsecase) DeleteDoctor(ctx context.Context, actorID, id uuid.UUID) error {
	return u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		rows, err := u.doctorRepo.Delete(tx, id)
		if err != nil {
			if isForeignKeyError(err, "patients") || isForeignKeyError(err, "doctors") {
				return ErrDoctorHasPatients
			}
			u.log.Warnf("Failed to delete doctor: %+v", err)
			return err
		}
		if rows == 0 {
			return ErrDoctorNotFound
		}

		return u.auditService.Log(ctx, tx, &actorID, entity.AuditActionDoctorDelete, entity.JSON{
			"doctor_id": id.String(),
		})
	})
}
