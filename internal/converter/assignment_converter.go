package converter

import (
	"clinical-data-api/internal/delivery/dto"
	"clinical-data-api/internal/domain/entity"

	"github.com/google/uuid"
)

// AssignmentToResponse converts a PatientAssignment entity to DTO
func AssignmentToResponse(assignment *entity.PatientAssignment) *dto.AssignmentResponse {
	if assignment == nil {
		return nil
	}

	resp := &dto.AssignmentResponse{
		ID:         assignment.ID,
		PatientID:  assignment.PatientID,
		ResidentID: assignment.ResidentID,
		AssignedAt: assignment.AssignedAt,
		EndedAt:    assignment.EndedAt,
	}
	if assignment.Resident.ID != uuid.Nil {
		resp.ResidentName = assignment.Resident.FullName()
	}
	return resp
}

// AssignmentsToResponses converts a slice of ledger entries to DTOs
func AssignmentsToResponses(assignments []entity.PatientAssignment) []dto.AssignmentResponse {
	responses := make([]dto.AssignmentResponse, len(assignments))
	for i := range assignments {
		responses[i] = *AssignmentToResponse(&assignments[i])
	}
	return responses
}
