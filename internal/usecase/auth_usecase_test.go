package usecase

import (
	"context"
	"errors"
	"testing"

	"clinical-data-api/internal/delivery/dto"
	"clinical-data-api/internal/domain/entity"
)

func newAuthFixture() (*mockDoctorRepo, *noopAuditService, AuthUsecase) {
	doctorRepo := newMockDoctorRepo()
	audit := &noopAuditService{}
	uc := NewAuthUsecase(fakeTxManager{}, testLogger(), doctorRepo, audit, nil, plainHasher{}, nil)
	return doctorRepo, audit, uc
}

func registerRequest(email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:                email,
		Password:             "Str0ngPass",
		FirstName:            "Dana",
		LastName:             "Silva",
		Specialty:            "cardiology",
		MedicalLicenseNumber: "LIC-" + email,
	}
}

func TestRegisterForcesResidentRole(t *testing.T) {
	doctorRepo, audit, uc := newAuthFixture()
	consultant := newConsultant(doctorRepo)

	resp, err := uc.Register(context.Background(), registerRequest("dana@hospital.test"))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.DoctorType != string(entity.DoctorTypeResident) {
		t.Errorf("DoctorType = %q, want resident", resp.DoctorType)
	}
	if resp.SupervisorID == nil || *resp.SupervisorID != consultant.ID {
		t.Errorf("SupervisorID = %v, want %v", resp.SupervisorID, consultant.ID)
	}
	if len(audit.actions) != 1 || audit.actions[0] != entity.AuditActionDoctorRegister {
		t.Errorf("audit actions = %v", audit.actions)
	}
}

func TestRegisterFailsWithoutConsultant(t *testing.T) {
	_, _, uc := newAuthFixture()

	_, err := uc.Register(context.Background(), registerRequest("orphan@hospital.test"))
	if !errors.Is(err, ErrNoConsultantAvailable) {
		t.Fatalf("Register() error = %v, want ErrNoConsultantAvailable", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	doctorRepo, _, uc := newAuthFixture()
	newConsultant(doctorRepo)

	if _, err := uc.Register(context.Background(), registerRequest("dup@hospital.test")); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	req := registerRequest("dup@hospital.test")
	req.MedicalLicenseNumber = "LIC-other"
	_, err := uc.Register(context.Background(), req)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("second Register() error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestRegisterWithExplicitSupervisor(t *testing.T) {
	doctorRepo, _, uc := newAuthFixture()
	newConsultant(doctorRepo)
	second := newConsultant(doctorRepo)

	req := registerRequest("picky@hospital.test")
	req.SupervisorID = second.ID.String()
	resp, err := uc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.SupervisorID == nil || *resp.SupervisorID != second.ID {
		t.Errorf("SupervisorID = %v, want %v", resp.SupervisorID, second.ID)
	}
}

func TestRegisterRejectsResidentSupervisor(t *testing.T) {
	doctorRepo, _, uc := newAuthFixture()
	consultant := newConsultant(doctorRepo)
	resident := newResident(doctorRepo, consultant.ID)

	req := registerRequest("bad-supervisor@hospital.test")
	req.SupervisorID = resident.ID.String()
	_, err := uc.Register(context.Background(), req)
	if !errors.Is(err, ErrSupervisorNotConsultant) {
		t.Fatalf("Register() error = %v, want ErrSupervisorNotConsultant", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	doctorRepo, _, uc := newAuthFixture()
	consultant := newConsultant(doctorRepo)
	consultant.Password = "hashed:Corr3ctPass"

	_, err := uc.Login(context.Background(), &dto.LoginRequest{
		Email:    consultant.Email,
		Password: "WrongPass1",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	_, _, uc := newAuthFixture()

	_, err := uc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ghost@hospital.test",
		Password: "whatever1A",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestGetCurrentDoctor(t *testing.T) {
	doctorRepo, _, uc := newAuthFixture()
	consultant := newConsultant(doctorRepo)

	resp, err := uc.GetCurrentDoctor(context.Background(), consultant.ID)
	if err != nil {
		t.Fatalf("GetCurrentDoctor() error = %v", err)
	}
	if resp.ID != consultant.ID {
		t.Errorf("ID = %v, want %v", resp.ID, consultant.ID)
	}
	if resp.Email != consultant.Email {
		t.Errorf("Email = %q, want %q", resp.Email, consultant.Email)
	}
}
