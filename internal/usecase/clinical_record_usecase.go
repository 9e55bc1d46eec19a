package usecase

import (
	"context"
	"errors"

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
	ErrRecordNotFound      = errors.New("clinical record not found")
	ErrRecordForbidden     = errors.New("not allowed to act on this record")
	ErrNoTranscription     = errors.New("record has no transcription to reprocess")
	ErrInvalidRecordStatus = errors.New("invalid processing status")
	ErrEmptyAudioUpload    = errors.New("audio upload is empty")
)

type ClinicalRecordUsecase interface {
	CreateFromAudio(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, filename string, audio []byte) (*dto.ClinicalRecordResponse, error)
	ListByPatient(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, skip, limit int) (*dto.ClinicalRecordListResponse, error)
	GetRecord(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, recordID uuid.UUID) (*dto.ClinicalRecordResponse, error)
	UpdateStatus(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, recordID uuid.UUID, req *dto.UpdateRecordStatusRequest) (*dto.ClinicalRecordResponse, error)
	Reprocess(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, recordID uuid.UUID) (*dto.ClinicalRecordResponse, error)
}

type clinicalRecordUsecase struct {
	txm          database.TxManager
	log          *logrus.Logger
	recordRepo   repository.ClinicalRecordRepository
	patientRepo  repository.PatientRepository
	auditService service.AuditService
	audioStore   service.AudioStore
	transcriber  service.Transcriber
	extractor    service.MedicalExtractor
}

func NewClinicalRecordUsecase(
	txm database.TxManager,
	log *logrus.Logger,
	recordRepo repository.ClinicalRecordRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	audioStore service.AudioStore,
	transcriber service.Transcriber,
	extractor service.MedicalExtractor,
) ClinicalRecordUsecase {
	return &clinicalRecordUsecase{
		txm:          txm,
		log:          log,
		recordRepo:   recordRepo,
		patientRepo:  patientRepo,
		auditService: auditService,
		audioStore:   audioStore,
		transcriber:  transcriber,
		extractor:    extractor,
	}
}

// CreateFromAudio runs the ingest pipeline: store the audio, transcribe it,
// extract structured fields, persist the record as pending review. A failed
// transcription aborts the whole request; a failed extraction still keeps
// the record with its transcript, marked failed.
func (u *clinicalRecordUsecase) CreateFromAudio(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, filename string, audio []byte) (*dto.ClinicalRecordResponse, error) {
	if len(audio) == 0 {
		return nil, ErrEmptyAudioUpload
	}

	patient, err := u.authorizePatient(ctx, doctorID, doctorType, patientID, access.ActionCreateClinicalRecord)
	if err != nil {
		return nil, err
	}

	audioPath, err := u.audioStore.Save(patient.ID, filename, audio)
	if err != nil {
		u.log.Warnf("Failed to store audio: %+v", err)
		return nil, err
	}

	transcription, err := u.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		u.log.Warnf("Transcription failed for patient %s: %+v", patientID, err)
		return nil, err
	}

	record := &entity.ClinicalRecord{
		PatientID:        patientID,
		CreatedByID:      doctorID,
		AudioPath:        audioPath,
		Transcription:    transcription,
		ProcessingStatus: entity.ProcessingStatusPending,
	}

	extracted, err := u.extractor.Extract(ctx, transcription)
	if err != nil {
		u.log.Warnf("Extraction failed for patient %s: %+v", patientID, err)
		record.MarkFailed()
	} else {
		record.ExtractedData = extracted
	}

	err = u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		if err := u.recordRepo.Create(tx, record); err != nil {
			u.log.Warnf("Failed to create clinical record: %+v", err)
			return err
		}
		return u.auditService.Log(ctx, tx, &doctorID, entity.AuditActionRecordCreate, entity.JSON{
			"record_id":  record.ID.String(),
			"patient_id": patientID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.ClinicalRecordToResponse(record), nil
}

func (u *clinicalRecordUsecase) ListByPatient(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, skip, limit int) (*dto.ClinicalRecordListResponse, error) {
	if _, err := u.authorizePatient(ctx, doctorID, doctorType, patientID, access.ActionReadClinicalRecords); err != nil {
		return nil, err
	}

	records, err := u.recordRepo.FindByPatient(u.txm.WithContext(ctx), patientID, skip, limit)
	if err != nil {
		u.log.Warnf("Failed to list clinical records: %+v", err)
		return nil, err
	}

	return &dto.ClinicalRecordListResponse{
		Records: converter.ClinicalRecordsToResponses(records),
		Total:   len(records),
	}, nil
}

func (u *clinicalRecordUsecase) GetRecord(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, recordID uuid.UUID) (*dto.ClinicalRecordResponse, error) {
	record, err := u.loadAuthorizedRecord(ctx, u.txm.WithContext(ctx), doctorID, doctorType, recordID)
	if err != nil {
		return nil, err
	}
	return converter.ClinicalRecordToResponse(record), nil
}

// UpdateStatus records the review verdict on a pending record.
func (u *clinicalRecordUsecase) UpdateStatus(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, recordID uuid.UUID, req *dto.UpdateRecordStatusRequest) (*dto.ClinicalRecordResponse, error) {
	status := entity.ProcessingStatus(req.ProcessingStatus)
	if status != entity.ProcessingStatusProcessed && status != entity.ProcessingStatusFailed {
		return nil, ErrInvalidRecordStatus
	}

	var updated *entity.ClinicalRecord
	err := u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		record, err := u.loadAuthorizedRecord(ctx, tx, doctorID, doctorType, recordID)
		if err != nil {
			return err
		}

		record.ProcessingStatus = status
		if err := u.recordRepo.Update(tx, record); err != nil {
			u.log.Warnf("Failed to update record status: %+v", err)
			return err
		}

		updated = record
		return u.auditService.Log(ctx, tx, &doctorID, entity.AuditActionRecordStatus, entity.JSON{
			"record_id": record.ID.String(),
			"status":    string(status),
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.ClinicalRecordToResponse(updated), nil
}

// Reprocess re-runs extraction over the stored transcript, replacing the
// extracted data and returning the record to pending review. The audio is
// not transcribed again.
func (u *clinicalRecordUsecase) Reprocess(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, recordID uuid.UUID) (*dto.ClinicalRecordResponse, error) {
	var updated *entity.ClinicalRecord
	err := u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		record, err := u.loadAuthorizedRecord(ctx, tx, doctorID, doctorType, recordID)
		if err != nil {
			return err
		}
		if record.Transcription == "" {
			return ErrNoTranscription
		}

		extracted, err := u.extractor.Extract(ctx, record.Transcription)
		if err != nil {
			u.log.Warnf("Re-extraction failed for record %s: %+v", recordID, err)
			record.MarkFailed()
		} else {
			record.ExtractedData = extracted
			record.ProcessingStatus = entity.ProcessingStatusPending
		}

		if err := u.recordRepo.Update(tx, record); err != nil {
			u.log.Warnf("Failed to update record: %+v", err)
			return err
		}

		updated = record
		return u.auditService.Log(ctx, tx, &doctorID, entity.AuditActionRecordStatus, entity.JSON{
			"record_id":   record.ID.String(),
			"reprocessed": true,
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.ClinicalRecordToResponse(updated), nil
}

func (u *clinicalRecordUsecase) authorizePatient(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, action access.Action) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByID(u.txm.WithContext(ctx), patientID)
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

// loadAuthorizedRecord resolves a record, then applies the patient gate for
// reading clinical records. Missing records and missing patients both
// surface as not found before any permission check.
func (u *clinicalRecordUsecase) loadAuthorizedRecord(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, doctorType entity.DoctorType, recordID uuid.UUID) (*entity.ClinicalRecord, error) {
	record, err := u.recordRepo.FindByID(db, recordID)
	if err != nil {
		u.log.Warnf("Failed to find record: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	patient, err := u.patientRepo.FindByID(db, record.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrRecordNotFound
	}
	if !access.Can(doctorID, doctorType, patient, access.ActionReadClinicalRecords) {
		return nil, ErrRecordForbidden
	}
	return record, nil
}
