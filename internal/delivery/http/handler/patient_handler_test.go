package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinical-data-api/internal/delivery/dto"
	"clinical-data-api/internal/delivery/http/middleware"
	"clinical-data-api/internal/domain/entity"
	"clinical-data-api/internal/usecase"
	"clinical-data-api/pkg/response"
	"clinical-data-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// stubPatientUsecase returns canned values so handler tests exercise only
// decoding, validation, and error mapping.
type stubPatientUsecase struct {
	patient    *dto.PatientResponse
	assignment *dto.AssignmentResponse
	err        error
}

func (s *stubPatientUsecase) CreatePatient(ctx context.Context, consultantID uuid.UUID, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	return s.patient, s.err
}

func (s *stubPatientUsecase) GetPatient(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID) (*dto.PatientResponse, error) {
	return s.patient, s.err
}

func (s *stubPatientUsecase) UpdatePatient(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	return s.patient, s.err
}

func (s *stubPatientUsecase) ListMyPatients(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, skip, limit int) (*dto.PatientListResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PatientListResponse{}, nil
}

func (s *stubPatientUsecase) AssignResident(ctx context.Context, consultantID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, req *dto.AssignResidentRequest) (*dto.AssignmentResponse, error) {
	return s.assignment, s.err
}

func (s *stubPatientUsecase) GetAssignmentHistory(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType, patientID uuid.UUID, skip, limit int) (*dto.AssignmentListResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AssignmentListResponse{}, nil
}

func newPatientHandlerTest(stub *stubPatientUsecase) *PatientHandler {
	return NewPatientHandler(stub, validator.NewValidator())
}

func authedRequest(t *testing.T, method, target string, body interface{}, doctorType entity.DoctorType) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	ctx := middleware.WithIdentity(req.Context(), uuid.New(), doctorType)
	return req.WithContext(ctx)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestPatientHandlerCreate(t *testing.T) {
	patientID := uuid.New()
	h := newPatientHandlerTest(&stubPatientUsecase{
		patient: &dto.PatientResponse{ID: patientID, Name: "Pat Doe", Age: 54},
	})

	req := authedRequest(t, http.MethodPost, "/api/v1/patients", dto.CreatePatientRequest{
		Name: "Pat Doe",
		Age:  54,
	}, entity.DoctorTypeConsultant)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Errorf("Success = false, want true")
	}
}

func TestPatientHandlerCreateValidation(t *testing.T) {
	h := newPatientHandlerTest(&stubPatientUsecase{})

	req := authedRequest(t, http.MethodPost, "/api/v1/patients", dto.CreatePatientRequest{
		Name: "P",
		Age:  200,
	}, entity.DoctorTypeConsultant)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Error("Success = true, want false")
	}
}

func TestPatientHandlerGetNotFound(t *testing.T) {
	h := newPatientHandlerTest(&stubPatientUsecase{err: usecase.ErrPatientNotFound})

	req := authedRequest(t, http.MethodGet, "/api/v1/patients/"+uuid.NewString(), nil, entity.DoctorTypeConsultant)
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPatientHandlerGetForbidden(t *testing.T) {
	h := newPatientHandlerTest(&stubPatientUsecase{err: usecase.ErrPatientForbidden})

	req := authedRequest(t, http.MethodGet, "/api/v1/patients/"+uuid.NewString(), nil, entity.DoctorTypeResident)
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestPatientHandlerGetBadID(t *testing.T) {
	h := newPatientHandlerTest(&stubPatientUsecase{})

	req := authedRequest(t, http.MethodGet, "/api/v1/patients/not-a-uuid", nil, entity.DoctorTypeConsultant)
	req = mux.SetURLVars(req, map[string]string{"id": "not-a-uuid"})
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPatientHandlerAssignInvalidBody(t *testing.T) {
	h := newPatientHandlerTest(&stubPatientUsecase{})

	req := authedRequest(t, http.MethodPost, "/api/v1/patients/"+uuid.NewString()+"/assign", dto.AssignResidentRequest{
		ResidentID: "not-a-uuid",
	}, entity.DoctorTypeConsultant)
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	rec := httptest.NewRecorder()

	h.AssignResident(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPatientHandlerAssignUnknownResident(t *testing.T) {
	h := newPatientHandlerTest(&stubPatientUsecase{err: usecase.ErrResidentNotFound})

	req := authedRequest(t, http.MethodPost, "/api/v1/patients/"+uuid.NewString()+"/assign", dto.AssignResidentRequest{
		ResidentID: uuid.NewString(),
	}, entity.DoctorTypeConsultant)
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	rec := httptest.NewRecorder()

	h.AssignResident(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPatientHandlerUnauthenticated(t *testing.T) {
	h := newPatientHandlerTest(&stubPatientUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/my-patients", nil)
	rec := httptest.NewRecorder()

	h.ListMine(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
