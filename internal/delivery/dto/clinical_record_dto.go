package dto

import (
	"time"

	"clinical-data-api/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type UpdateRecordStatusRequest struct {
	ProcessingStatus string `json:"processing_status" validate:"required,oneof=processed failed"`
}

// Response DTOs

type ClinicalRecordResponse struct {
	ID               uuid.UUID   `json:"id"`
	PatientID        uuid.UUID   `json:"patient_id"`
	CreatedByID      uuid.UUID   `json:"created_by_id"`
	AudioPath        string      `json:"audio_path,omitempty"`
	Transcription    string      `json:"transcription,omitempty"`
	ExtractedData    entity.JSON `json:"extracted_data,omitempty"`
	ProcessingStatus string      `json:"processing_status"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type ClinicalRecordListResponse struct {
	Records []ClinicalRecordResponse `json:"records"`
	Total   int                      `json:"total"`
}
