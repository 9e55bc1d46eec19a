package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"clinical-data-api/internal/delivery/dto"
	"clinical-data-api/internal/service"
	"clinical-data-api/internal/usecase"
	"clinical-data-api/pkg/response"
	"clinical-data-api/pkg/validator"
)

// maxAudioUploadBytes bounds the multipart form kept in memory per upload.
const maxAudioUploadBytes = 32 << 20

type ClinicalRecordHandler struct {
	recordUsecase usecase.ClinicalRecordUsecase
	validator     *validator.CustomValidator
}

func NewClinicalRecordHandler(recordUsecase usecase.ClinicalRecordUsecase, validator *validator.CustomValidator) *ClinicalRecordHandler {
	return &ClinicalRecordHandler{
		recordUsecase: recordUsecase,
		validator:     validator,
	}
}

// Upload ingests a clinical audio recording for a patient
// @Summary Upload clinical audio
// @Description Store the audio, transcribe it, extract structured clinical data, and create a pending record
// @Tags ClinicalRecords
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Patient ID"
// @Param audio_file formData file true "Audio recording"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /patients/{id}/clinical-records [post]
func (h *ClinicalRecordHandler) Upload(w http.ResponseWriter, r *http.Request) {
	doctorID, doctorType, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	patientID, ok := parseUUIDVar(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		response.BadRequest(w, "audio_file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		response.InternalServerError(w, "Failed to read uploaded file")
		return
	}

	record, err := h.recordUsecase.CreateFromAudio(r.Context(), doctorID, doctorType, patientID, header.Filename, audio)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyAudioUpload):
			response.BadRequest(w, "Audio upload is empty")
		case errors.Is(err, service.ErrTranscriptionFailed):
			response.Error(w, http.StatusBadGateway, "Transcription failed", nil)
		default:
			writePatientError(w, err, "Failed to create clinical record")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Clinical record created successfully", record)
}

// ListByPatient returns a patient's clinical records
// @Summary List clinical records
// @Tags ClinicalRecords
// @Produce json
// @Security BearerAuth
// @Param id path string true "Patient ID"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id}/clinical-records [get]
func (h *ClinicalRecordHandler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	doctorID, doctorType, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	patientID, ok := parseUUIDVar(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	skip, limit := parsePagination(r)

	list, err := h.recordUsecase.ListByPatient(r.Context(), doctorID, doctorType, patientID, skip, limit)
	if err != nil {
		writePatientError(w, err, "Failed to list clinical records")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Clinical records retrieved successfully", list, &response.Meta{
		Skip:  skip,
		Limit: limit,
		Count: list.Total,
	})
}

// Get returns one clinical record
// @Summary Get a clinical record
// @Tags ClinicalRecords
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clinical-records/{id} [get]
func (h *ClinicalRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	doctorID, doctorType, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	recordID, ok := parseUUIDVar(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid record ID")
		return
	}

	record, err := h.recordUsecase.GetRecord(r.Context(), doctorID, doctorType, recordID)
	if err != nil {
		writeRecordError(w, err, "Failed to get clinical record")
		return
	}

	response.Success(w, http.StatusOK, "Clinical record retrieved successfully", record)
}

// UpdateStatus records the review verdict on a clinical record
// @Summary Update record status
// @Tags ClinicalRecords
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Param request body dto.UpdateRecordStatusRequest true "Status Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clinical-records/{id}/status [patch]
func (h *ClinicalRecordHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	doctorID, doctorType, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	recordID, ok := parseUUIDVar(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid record ID")
		return
	}

	var req dto.UpdateRecordStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.recordUsecase.UpdateStatus(r.Context(), doctorID, doctorType, recordID, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidRecordStatus:
			response.BadRequest(w, "Invalid processing status")
		default:
			writeRecordError(w, err, "Failed to update record status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Record status updated successfully", record)
}

// Reprocess re-runs extraction over the stored transcript
// @Summary Reprocess a clinical record
// @Tags ClinicalRecords
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clinical-records/{id}/reprocess [post]
func (h *ClinicalRecordHandler) Reprocess(w http.ResponseWriter, r *http.Request) {
	doctorID, doctorType, ok := identity(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	recordID, ok := parseUUIDVar(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid record ID")
		return
	}

	record, err := h.recordUsecase.Reprocess(r.Context(), doctorID, doctorType, recordID)
	if err != nil {
		switch err {
		case usecase.ErrNoTranscription:
			response.BadRequest(w, "Record has no transcription to reprocess")
		default:
			writeRecordError(w, err, "Failed to reprocess record")
		}
		return
	}

	response.Success(w, http.StatusOK, "Record reprocessed successfully", record)
}

func writeRecordError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrRecordNotFound:
		response.NotFound(w, "Clinical record not found")
	case usecase.ErrRecordForbidden:
		response.Forbidden(w, "Not allowed to act on this record")
	default:
		writePatientError(w, err, fallback)
	}
}
