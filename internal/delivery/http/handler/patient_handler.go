package handler

import (
	"encoding/json"
	"net/http"

	"clinical-data-api/internal/delivery/dto"
	"clinical-data-api/internal/delivery/http/middleware"
	"clinical-data-api/internal/usecase"
	"clinical-data-api/pkg/response"
	"clinical-data-api/pkg/validator"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

// Create handles patient creation by the owning consultant
// @Summary Create a patient
// @Description Create a patient record owned by the calling consultant
// @Tags Patients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePatientRequest true "Create Patient Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /patients [post]
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetDoctorIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req dto.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.CreatePatient(r.Context(), doctorID, &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

// ListMine returns the caller's working set of patients
// @Summary List my patients
// @Description Owned patients for consultants, currently assigned patients for residents
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /patients/my-patients [get]
func (h *PatientHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetDoctorIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}
	doctorType, ok := middleware.GetDoctorTypeFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	skip, limit := parsePagination(r)

	list, err := h.patientUsecase.ListMyPatients(r.Context(), doctorID, doctorType, skip, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to list patients")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", list, &response.Meta{
		Skip:  skip,
		Limit: limit,
		Count: list.Total,
	})
}

// Get returns a patient the caller is allowed to see
// @Summary Get a patient
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id} [get]
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	doctorID, doctorType, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, ok := parseUUIDVar(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), doctorID, doctorType, id)
	if err != nil {
		writePatientError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

// Update modifies a patient's clinical profile
// @Summary Update a patient
// @Tags Patients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Patient ID"
// @Param request body dto.UpdatePatientRequest true "Update Patient Request"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id} [put]
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	doctorID, doctorType, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, ok := parseUUIDVar(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req dto.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), doctorID, doctorType, id, &req)
	if err != nil {
		writePatientError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

// AssignResident hands a patient over to a resident
// @Summary Assign a resident to a patient
// @Description Close the current assignment (if any) and open a new ledger entry atomically
// @Tags Patients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Patient ID"
// @Param request body dto.AssignResidentRequest true "Assign Resident Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id}/assign [post]
func (h *PatientHandler) AssignResident(w http.ResponseWriter, r *http.Request) {
	doctorID, doctorType, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, ok := parseUUIDVar(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req dto.AssignResidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	assignment, err := h.patientUsecase.AssignResident(r.Context(), doctorID, doctorType, id, &req)
	if err != nil {
		switch err {
		case usecase.ErrResidentNotFound:
			response.NotFound(w, "Resident not found")
		case usecase.ErrAssigneeNotResident:
			response.BadRequest(w, "Assignee is not a resident")
		default:
			writePatientError(w, err, "Failed to assign resident")
		}
		return
	}

	response.Success(w, http.StatusOK, "Resident assigned successfully", assignment)
}

// AssignmentHistory returns the patient's assignment ledger, newest first
// @Summary Get assignment history
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Patient ID"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id}/assignments [get]
func (h *PatientHandler) AssignmentHistory(w http.ResponseWriter, r *http.Request) {
	doctorID, doctorType, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, ok := parseUUIDVar(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	skip, limit := parsePagination(r)

	history, err := h.patientUsecase.GetAssignmentHistory(r.Context(), doctorID, doctorType, id, skip, limit)
	if err != nil {
		writePatientError(w, err, "Failed to get assignment history")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Assignment history retrieved successfully", history, &response.Meta{
		Skip:  skip,
		Limit: limit,
		Count: history.Total,
	})
}

func writePatientError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrPatientNotFound:
		response.NotFound(w, "Patient not found")
	case usecase.ErrPatientForbidden:
		response.Forbidden(w, "Not allowed to act on this patient")
	default:
		response.InternalServerError(w, fallback)
	}
}
