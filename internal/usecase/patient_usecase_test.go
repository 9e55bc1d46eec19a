package usecase

import (
	"context"
	"errors"
	"testing"

	"clinical-data-api/internal/delivery/dto"
	"clinical-data-api/internal/domain/entity"

	"github.com/google/uuid"
)

type patientFixture struct {
	doctorRepo     *mockDoctorRepo
	patientRepo    *mockPatientRepo
	assignmentRepo *mockAssignmentRepo
	audit          *noopAuditService
	uc             PatientUsecase
}

func newPatientFixture() *patientFixture {
	f := &patientFixture{
		doctorRepo:     newMockDoctorRepo(),
		patientRepo:    newMockPatientRepo(),
		assignmentRepo: newMockAssignmentRepo(),
		audit:          &noopAuditService{},
	}
	f.uc = NewPatientUsecase(fakeTxManager{}, testLogger(), f.patientRepo, f.doctorRepo, f.assignmentRepo, f.audit)
	return f
}

func (f *patientFixture) addPatient(consultantID uuid.UUID) *entity.Patient {
	return f.patientRepo.add(&entity.Patient{
		Name:         "Pat Doe",
		Age:          54,
		ConsultantID: consultantID,
	})
}

func TestCreatePatientSetsOwner(t *testing.T) {
	f := newPatientFixture()
	consultant := newConsultant(f.doctorRepo)

	resp, err := f.uc.CreatePatient(context.Background(), consultant.ID, &dto.CreatePatientRequest{
		Name: "Pat Doe",
		Age:  54,
	})
	if err != nil {
		t.Fatalf("CreatePatient() error = %v", err)
	}
	if resp.ConsultantID != consultant.ID {
		t.Errorf("ConsultantID = %v, want %v", resp.ConsultantID, consultant.ID)
	}
	if resp.CurrentResidentID != nil {
		t.Errorf("CurrentResidentID = %v, want nil", resp.CurrentResidentID)
	}
}

func TestGetPatientNotFoundBeforeForbidden(t *testing.T) {
	f := newPatientFixture()
	consultant := newConsultant(f.doctorRepo)

	_, err := f.uc.GetPatient(context.Background(), consultant.ID, entity.DoctorTypeConsultant, uuid.New())
	if !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("GetPatient() error = %v, want ErrPatientNotFound", err)
	}
}

func TestGetPatientForbiddenForOtherConsultant(t *testing.T) {
	f := newPatientFixture()
	owner := newConsultant(f.doctorRepo)
	other := newConsultant(f.doctorRepo)
	patient := f.addPatient(owner.ID)

	_, err := f.uc.GetPatient(context.Background(), other.ID, entity.DoctorTypeConsultant, patient.ID)
	if !errors.Is(err, ErrPatientForbidden) {
		t.Fatalf("GetPatient() error = %v, want ErrPatientForbidden", err)
	}
}

func TestAssignResidentOpensLedgerEntry(t *testing.T) {
	f := newPatientFixture()
	consultant := newConsultant(f.doctorRepo)
	resident := newResident(f.doctorRepo, consultant.ID)
	patient := f.addPatient(consultant.ID)

	resp, err := f.uc.AssignResident(context.Background(), consultant.ID, entity.DoctorTypeConsultant, patient.ID, &dto.AssignResidentRequest{
		ResidentID: resident.ID.String(),
	})
	if err != nil {
		t.Fatalf("AssignResident() error = %v", err)
	}
	if resp.ResidentID != resident.ID {
		t.Errorf("ResidentID = %v, want %v", resp.ResidentID, resident.ID)
	}
	if resp.EndedAt != nil {
		t.Errorf("EndedAt = %v, want nil", resp.EndedAt)
	}
	if patient.CurrentResidentID == nil || *patient.CurrentResidentID != resident.ID {
		t.Errorf("CurrentResidentID = %v, want %v", patient.CurrentResidentID, resident.ID)
	}
}

func TestReassignClosesPreviousEntryAtSameInstant(t *testing.T) {
	f := newPatientFixture()
	consultant := newConsultant(f.doctorRepo)
	first := newResident(f.doctorRepo, consultant.ID)
	second := newResident(f.doctorRepo, consultant.ID)
	patient := f.addPatient(consultant.ID)

	assign := func(residentID uuid.UUID) {
		t.Helper()
		if _, err := f.uc.AssignResident(context.Background(), consultant.ID, entity.DoctorTypeConsultant, patient.ID, &dto.AssignResidentRequest{
			ResidentID: residentID.String(),
		}); err != nil {
			t.Fatalf("AssignResident() error = %v", err)
		}
	}

	assign(first.ID)
	assign(second.ID)

	if len(f.assignmentRepo.assignments) != 2 {
		t.Fatalf("ledger entries = %d, want 2", len(f.assignmentRepo.assignments))
	}

	var open, closed int
	for _, a := range f.assignmentRepo.assignments {
		if a.IsOpen() {
			open++
			if a.ResidentID != second.ID {
				t.Errorf("open entry resident = %v, want %v", a.ResidentID, second.ID)
			}
		} else {
			closed++
			if a.ResidentID != first.ID {
				t.Errorf("closed entry resident = %v, want %v", a.ResidentID, first.ID)
			}
		}
	}
	if open != 1 || closed != 1 {
		t.Fatalf("open=%d closed=%d, want 1/1", open, closed)
	}

	// The handoff leaves no gap: the close time of the old entry equals
	// the start time of the new one.
	prev := f.assignmentRepo.assignments[0]
	next := f.assignmentRepo.assignments[1]
	if prev.EndedAt == nil || !prev.EndedAt.Equal(next.AssignedAt) {
		t.Errorf("EndedAt = %v, AssignedAt = %v, want equal", prev.EndedAt, next.AssignedAt)
	}
}

func TestReassignSameResidentOpensNewEntry(t *testing.T) {
	f := newPatientFixture()
	consultant := newConsultant(f.doctorRepo)
	resident := newResident(f.doctorRepo, consultant.ID)
	patient := f.addPatient(consultant.ID)

	req := &dto.AssignResidentRequest{ResidentID: resident.ID.String()}
	for i := 0; i < 2; i++ {
		if _, err := f.uc.AssignResident(context.Background(), consultant.ID, entity.DoctorTypeConsultant, patient.ID, req); err != nil {
			t.Fatalf("AssignResident() #%d error = %v", i+1, err)
		}
	}

	if len(f.assignmentRepo.assignments) != 2 {
		t.Fatalf("ledger entries = %d, want 2", len(f.assignmentRepo.assignments))
	}
	if !f.assignmentRepo.assignments[1].IsOpen() {
		t.Error("second entry should be open")
	}
	if f.assignmentRepo.assignments[0].IsOpen() {
		t.Error("first entry should be closed")
	}
}

func TestAssignResidentRejectsNonOwner(t *testing.T) {
	f := newPatientFixture()
	owner := newConsultant(f.doctorRepo)
	other := newConsultant(f.doctorRepo)
	resident := newResident(f.doctorRepo, owner.ID)
	patient := f.addPatient(owner.ID)

	_, err := f.uc.AssignResident(context.Background(), other.ID, entity.DoctorTypeConsultant, patient.ID, &dto.AssignResidentRequest{
		ResidentID: resident.ID.String(),
	})
	if !errors.Is(err, ErrPatientForbidden) {
		t.Fatalf("AssignResident() error = %v, want ErrPatientForbidden", err)
	}
	if len(f.assignmentRepo.assignments) != 0 {
		t.Errorf("ledger entries = %d, want 0", len(f.assignmentRepo.assignments))
	}
}

func TestAssignResidentRejectsResidentCaller(t *testing.T) {
	f := newPatientFixture()
	consultant := newConsultant(f.doctorRepo)
	resident := newResident(f.doctorRepo, consultant.ID)
	other := newResident(f.doctorRepo, consultant.ID)
	patient := f.addPatient(consultant.ID)
	patient.CurrentResidentID = &resident.ID

	_, err := f.uc.AssignResident(context.Background(), resident.ID, entity.DoctorTypeResident, patient.ID, &dto.AssignResidentRequest{
		ResidentID: other.ID.String(),
	})
	if !errors.Is(err, ErrPatientForbidden) {
		t.Fatalf("AssignResident() error = %v, want ErrPatientForbidden", err)
	}
}

func TestAssignResidentRejectsConsultantAssignee(t *testing.T) {
	f := newPatientFixture()
	consultant := newConsultant(f.doctorRepo)
	otherConsultant := newConsultant(f.doctorRepo)
	patient := f.addPatient(consultant.ID)

	_, err := f.uc.AssignResident(context.Background(), consultant.ID, entity.DoctorTypeConsultant, patient.ID, &dto.AssignResidentRequest{
		ResidentID: otherConsultant.ID.String(),
	})
	if !errors.Is(err, ErrAssigneeNotResident) {
		t.Fatalf("AssignResident() error = %v, want ErrAssigneeNotResident", err)
	}
}

func TestAssignResidentUnknownResident(t *testing.T) {
	f := newPatientFixture()
	consultant := newConsultant(f.doctorRepo)
	patient := f.addPatient(consultant.ID)

	_, err := f.uc.AssignResident(context.Background(), consultant.ID, entity.DoctorTypeConsultant, patient.ID, &dto.AssignResidentRequest{
		ResidentID: uuid.New().String(),
	})
	if !errors.Is(err, ErrResidentNotFound) {
		t.Fatalf("AssignResident() error = %v, want ErrResidentNotFound", err)
	}
}

func TestListMyPatientsByRole(t *testing.T) {
	f := newPatientFixture()
	consultant := newConsultant(f.doctorRepo)
	resident := newResident(f.doctorRepo, consultant.ID)

	owned := f.addPatient(consultant.ID)
	owned.CurrentResidentID = &resident.ID
	f.addPatient(consultant.ID)
	f.addPatient(newConsultant(f.doctorRepo).ID)

	consultantList, err := f.uc.ListMyPatients(context.Background(), consultant.ID, entity.DoctorTypeConsultant, 0, 50)
	if err != nil {
		t.Fatalf("ListMyPatients(consultant) error = %v", err)
	}
	if consultantList.Total != 2 {
		t.Errorf("consultant total = %d, want 2", consultantList.Total)
	}

	residentList, err := f.uc.ListMyPatients(context.Background(), resident.ID, entity.DoctorTypeResident, 0, 50)
	if err != nil {
		t.Fatalf("ListMyPatients(resident) error = %v", err)
	}
	if residentList.Total != 1 {
		t.Errorf("resident total = %d, want 1", residentList.Total)
	}
}

func TestGetAssignmentHistoryNewestFirst(t *testing.T) {
	f := newPatientFixture()
	consultant := newConsultant(f.doctorRepo)
	first := newResident(f.doctorRepo, consultant.ID)
	second := newResident(f.doctorRepo, consultant.ID)
	patient := f.addPatient(consultant.ID)

	for _, r := range []uuid.UUID{first.ID, second.ID} {
		if _, err := f.uc.AssignResident(context.Background(), consultant.ID, entity.DoctorTypeConsultant, patient.ID, &dto.AssignResidentRequest{
			ResidentID: r.String(),
		}); err != nil {
			t.Fatalf("AssignResident() error = %v", err)
		}
	}

	history, err := f.uc.GetAssignmentHistory(context.Background(), consultant.ID, entity.DoctorTypeConsultant, patient.ID, 0, 50)
	if err != nil {
		t.Fatalf("GetAssignmentHistory() error = %v", err)
	}
	if history.Total != 2 {
		t.Fatalf("history total = %d, want 2", history.Total)
	}
	if history.Assignments[0].ResidentID != second.ID {
		t.Errorf("first history entry resident = %v, want most recent %v", history.Assignments[0].ResidentID, second.ID)
	}

	page, err := f.uc.GetAssignmentHistory(context.Background(), consultant.ID, entity.DoctorTypeConsultant, patient.ID, 1, 1)
	if err != nil {
		t.Fatalf("GetAssignmentHistory(paged) error = %v", err)
	}
	if page.Total != 1 || page.Assignments[0].ResidentID != first.ID {
		t.Errorf("paged entry = %+v, want oldest entry", page.Assignments)
	}
}

func TestUpdatePatientByCurrentResident(t *testing.T) {
	f := newPatientFixture()
	consultant := newConsultant(f.doctorRepo)
	resident := newResident(f.doctorRepo, consultant.ID)
	patient := f.addPatient(consultant.ID)
	patient.CurrentResidentID = &resident.ID

	age := 61
	resp, err := f.uc.UpdatePatient(context.Background(), resident.ID, entity.DoctorTypeResident, patient.ID, &dto.UpdatePatientRequest{
		Age:         &age,
		RiskFactors: entity.JSON{"smoking": true},
	})
	if err != nil {
		t.Fatalf("UpdatePatient() error = %v", err)
	}
	if resp.Age != 61 {
		t.Errorf("Age = %d, want 61", resp.Age)
	}
	if resp.RiskFactors["smoking"] != true {
		t.Errorf("RiskFactors = %v", resp.RiskFactors)
	}
}
