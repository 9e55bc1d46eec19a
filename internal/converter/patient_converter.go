package converter

import (
	"clinical-data-api/internal/delivery/dto"
	"clinical-data-api/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:                patient.ID,
		Name:              patient.Name,
		Age:               patient.Age,
		Gender:            patient.Gender,
		ConsultantID:      patient.ConsultantID,
		CurrentResidentID: patient.CurrentResidentID,
		RiskFactors:       patient.RiskFactors,
		FamilyHistory:     patient.FamilyHistory,
		SurgicalHistory:   patient.SurgicalHistory,
		AdditionalNotes:   patient.AdditionalNotes,
		CreatedAt:         patient.CreatedAt,
		UpdatedAt:         patient.UpdatedAt,
	}
}

// PatientsToResponses converts a slice of Patient entities to DTOs
func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
