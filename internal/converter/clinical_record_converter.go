package converter

import (
	"clinical-data-api/internal/delivery/dto"
	"clinical-data-api/internal/domain/entity"
)

// ClinicalRecordToResponse converts a ClinicalRecord entity to DTO
func ClinicalRecordToResponse(record *entity.ClinicalRecord) *dto.ClinicalRecordResponse {
	if record == nil {
		return nil
	}

	return &dto.ClinicalRecordResponse{
		ID:               record.ID,
		PatientID:        record.PatientID,
		CreatedByID:      record.CreatedByID,
		AudioPath:        record.AudioPath,
		Transcription:    record.Transcription,
		ExtractedData:    record.ExtractedData,
		ProcessingStatus: string(record.ProcessingStatus),
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
	}
}

// ClinicalRecordsToResponses converts a slice of ClinicalRecord entities to DTOs
func ClinicalRecordsToResponses(records []entity.ClinicalRecord) []dto.ClinicalRecordResponse {
	responses := make([]dto.ClinicalRecordResponse, len(records))
	for i := range records {
		responses[i] = *ClinicalRecordToResponse(&records[i])
	}
	return responses
}
