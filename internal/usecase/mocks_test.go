package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"clinical-data-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeTxManager runs transaction bodies directly; the mock repositories
// ignore the db handle entirely.
type fakeTxManager struct{}

func (fakeTxManager) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (fakeTxManager) WithContext(ctx context.Context) *gorm.DB { return nil }

type noopAuditService struct {
	actions []string
}

func (s *noopAuditService) Log(ctx context.Context, tx *gorm.DB, doctorID *uuid.UUID, action string, metadata entity.JSON) error {
	s.actions = append(s.actions, action)
	return nil
}

// plainHasher avoids bcrypt cost in tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hashed, password string) error {
	if hashed != "hashed:"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

// mockDoctorRepo

type mockDoctorRepo struct {
	doctors map[uuid.UUID]*entity.Doctor
	order   []uuid.UUID
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: map[uuid.UUID]*entity.Doctor{}}
}

func (r *mockDoctorRepo) add(d *entity.Doctor) *entity.Doctor {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.doctors[d.ID] = d
	r.order = append(r.order, d.ID)
	return d
}

func (r *mockDoctorRepo) Create(db *gorm.DB, doctor *entity.Doctor) error {
	for _, existing := range r.doctors {
		if existing.Email == doctor.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "doctors_email_key"}
		}
		if existing.MedicalLicenseNumber == doctor.MedicalLicenseNumber {
			return &pgconn.PgError{Code: "23505", ConstraintName: "doctors_medical_license_number_key"}
		}
	}
	r.add(doctor)
	return nil
}

func (r *mockDoctorRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	return r.doctors[id], nil
}

func (r *mockDoctorRepo) FindByEmail(db *gorm.DB, email string) (*entity.Doctor, error) {
	for _, d := range r.doctors {
		if d.Email == email {
			return d, nil
		}
	}
	return nil, nil
}

func (r *mockDoctorRepo) FindByType(db *gorm.DB, doctorType entity.DoctorType, skip, limit int) ([]entity.Doctor, error) {
	var result []entity.Doctor
	for _, id := range r.order {
		if r.doctors[id].DoctorType == doctorType {
			result = append(result, *r.doctors[id])
		}
	}
	return paginate(result, skip, limit), nil
}

func (r *mockDoctorRepo) FindFirstConsultant(db *gorm.DB) (*entity.Doctor, error) {
	for _, id := range r.order {
		d := r.doctors[id]
		if d.IsConsultant() && (d.IsActive == nil || *d.IsActive) {
			return d, nil
		}
	}
	return nil, nil
}

func (r *mockDoctorRepo) Update(db *gorm.DB, doctor *entity.Doctor) error {
	r.doctors[doctor.ID] = doctor
	return nil
}

func (r *mockDoctorRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	if _, ok := r.doctors[id]; !ok {
		return 0, nil
	}
	delete(r.doctors, id)
	return 1, nil
}

// mockPatientRepo

type mockPatientRepo struct {
	patients map[uuid.UUID]*entity.Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: map[uuid.UUID]*entity.Patient{}}
}

func (r *mockPatientRepo) add(p *entity.Patient) *entity.Patient {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.patients[p.ID] = p
	return p
}

func (r *mockPatientRepo) Create(db *gorm.DB, patient *entity.Patient) error {
	r.add(patient)
	return nil
}

func (r *mockPatientRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	return r.patients[id], nil
}

func (r *mockPatientRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	return r.patients[id], nil
}

func (r *mockPatientRepo) FindByConsultant(db *gorm.DB, consultantID uuid.UUID, skip, limit int) ([]entity.Patient, error) {
	var result []entity.Patient
	for _, p := range r.patients {
		if p.ConsultantID == consultantID {
			result = append(result, *p)
		}
	}
	return paginate(result, skip, limit), nil
}

func (r *mockPatientRepo) FindByCurrentResident(db *gorm.DB, residentID uuid.UUID, skip, limit int) ([]entity.Patient, error) {
	var result []entity.Patient
	for _, p := range r.patients {
		if p.CurrentResidentID != nil && *p.CurrentResidentID == residentID {
			result = append(result, *p)
		}
	}
	return paginate(result, skip, limit), nil
}

func (r *mockPatientRepo) Update(db *gorm.DB, patient *entity.Patient) error {
	r.patients[patient.ID] = patient
	return nil
}

func (r *mockPatientRepo) UpdateCurrentResident(db *gorm.DB, patientID uuid.UUID, residentID *uuid.UUID) error {
	p, ok := r.patients[patientID]
	if !ok {
		return nil
	}
	p.CurrentResidentID = residentID
	return nil
}

// mockAssignmentRepo

type mockAssignmentRepo struct {
	assignments []*entity.PatientAssignment
	nextID      int64
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{nextID: 1}
}

func (r *mockAssignmentRepo) Create(db *gorm.DB, assignment *entity.PatientAssignment) error {
	assignment.ID = r.nextID
	r.nextID++
	r.assignments = append(r.assignments, assignment)
	return nil
}

func (r *mockAssignmentRepo) FindOpenByPatient(db *gorm.DB, patientID uuid.UUID) (*entity.PatientAssignment, error) {
	for _, a := range r.assignments {
		if a.PatientID == patientID && a.IsOpen() {
			return a, nil
		}
	}
	return nil, nil
}

func (r *mockAssignmentRepo) CloseOpen(db *gorm.DB, patientID uuid.UUID, endedAt time.Time) (int64, error) {
	var closed int64
	for _, a := range r.assignments {
		if a.PatientID == patientID && a.IsOpen() {
			t := endedAt
			a.EndedAt = &t
			closed++
		}
	}
	return closed, nil
}

func (r *mockAssignmentRepo) FindByPatient(db *gorm.DB, patientID uuid.UUID, skip, limit int) ([]entity.PatientAssignment, error) {
	var result []entity.PatientAssignment
	for _, a := range r.assignments {
		if a.PatientID == patientID {
			result = append(result, *a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].AssignedAt.Equal(result[j].AssignedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].AssignedAt.After(result[j].AssignedAt)
	})
	return paginate(result, skip, limit), nil
}

// mockClinicalRecordRepo

type mockClinicalRecordRepo struct {
	records map[uuid.UUID]*entity.ClinicalRecord
}

func newMockClinicalRecordRepo() *mockClinicalRecordRepo {
	return &mockClinicalRecordRepo{records: map[uuid.UUID]*entity.ClinicalRecord{}}
}

func (r *mockClinicalRecordRepo) Create(db *gorm.DB, record *entity.ClinicalRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	r.records[record.ID] = record
	return nil
}

func (r *mockClinicalRecordRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.ClinicalRecord, error) {
	return r.records[id], nil
}

func (r *mockClinicalRecordRepo) FindByPatient(db *gorm.DB, patientID uuid.UUID, skip, limit int) ([]entity.ClinicalRecord, error) {
	var result []entity.ClinicalRecord
	for _, rec := range r.records {
		if rec.PatientID == patientID {
			result = append(result, *rec)
		}
	}
	return paginate(result, skip, limit), nil
}

func (r *mockClinicalRecordRepo) Update(db *gorm.DB, record *entity.ClinicalRecord) error {
	r.records[record.ID] = record
	return nil
}

// mockAuditLogRepo

type mockAuditLogRepo struct {
	logs   []*entity.AuditLog
	nextID int64
}

func newMockAuditLogRepo() *mockAuditLogRepo {
	return &mockAuditLogRepo{nextID: 1}
}

func (r *mockAuditLogRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	log.ID = r.nextID
	r.nextID++
	r.logs = append(r.logs, log)
	return nil
}

func (r *mockAuditLogRepo) FindAll(db *gorm.DB, skip, limit int) ([]entity.AuditLog, error) {
	var result []entity.AuditLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		result = append(result, *r.logs[i])
	}
	return paginate(result, skip, limit), nil
}

func (r *mockAuditLogRepo) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	for _, l := range r.logs {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, nil
}

// services

type fakeAudioStore struct {
	saved []string
}

func (s *fakeAudioStore) Save(patientID uuid.UUID, filename string, content []byte) (string, error) {
	path := fmt.Sprintf("/tmp/audio/%s_%s", patientID, filename)
	s.saved = append(s.saved, path)
	return path, nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (t *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return t.text, t.err
}

type fakeExtractor struct {
	data entity.JSON
	err  error
}

func (e *fakeExtractor) Extract(ctx context.Context, text string) (entity.JSON, error) {
	return e.data, e.err
}

func paginate[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return nil
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// helpers

func newConsultant(r *mockDoctorRepo) *entity.Doctor {
	active := true
	return r.add(&entity.Doctor{
		Email:                fmt.Sprintf("consultant-%s@hospital.test", uuid.New().String()[:8]),
		DoctorType:           entity.DoctorTypeConsultant,
		FirstName:            "Cora",
		LastName:             "Nguyen",
		MedicalLicenseNumber: "LIC-" + uuid.New().String()[:8],
		IsActive:             &active,
	})
}

func newResident(r *mockDoctorRepo, supervisorID uuid.UUID) *entity.Doctor {
	active := true
	return r.add(&entity.Doctor{
		Email:                fmt.Sprintf("resident-%s@hospital.test", uuid.New().String()[:8]),
		DoctorType:           entity.DoctorTypeResident,
		FirstName:            "Rey",
		LastName:             "Okafor",
		MedicalLicenseNumber: "LIC-" + uuid.New().String()[:8],
		SupervisorID:         &supervisorID,
		IsActive:             &active,
	})
}
