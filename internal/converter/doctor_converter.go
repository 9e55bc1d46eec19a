package converter

import (
	"clinical-data-api/internal/delivery/dto"
	"clinical-data-api/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:                   doctor.ID,
		Email:                doctor.Email,
		FirstName:            doctor.FirstName,
		LastName:             doctor.LastName,
		DoctorType:           string(doctor.DoctorType),
		Specialty:            doctor.Specialty,
		MedicalLicenseNumber: doctor.MedicalLicenseNumber,
		YearsOfExperience:    doctor.YearsOfExperience,
		Department:           doctor.Department,
		Bio:                  doctor.Bio,
		SupervisorID:         doctor.SupervisorID,
		IsActive:             doctor.IsActive,
		CreatedAt:            doctor.CreatedAt,
		UpdatedAt:            doctor.UpdatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
