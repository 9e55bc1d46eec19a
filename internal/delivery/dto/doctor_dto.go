package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateDoctorRequest is the consultant-only doctor creation payload.
// Unlike self-registration, the role may be chosen here.
type CreateDoctorRequest struct {
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,password"`
	FirstName            string `json:"first_name" validate:"required,min=2,max=50"`
	LastName             string `json:"last_name" validate:"required,min=2,max=50"`
	DoctorType           string `json:"doctor_type" validate:"required,oneof=consultant resident"`
	Specialty            string `json:"specialty" validate:"required"`
	MedicalLicenseNumber string `json:"medical_license_number" validate:"required"`
	YearsOfExperience    int    `json:"years_of_experience" validate:"gte=0"`
	Department           string `json:"department" validate:"omitempty"`
	Bio                  string `json:"bio" validate:"omitempty"`
	SupervisorID         string `json:"supervisor_id" validate:"omitempty,uuid"`
}

type UpdateDoctorRequest struct {
	FirstName         string `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName          string `json:"last_name" validate:"omitempty,min=2,max=50"`
	Specialty         string `json:"specialty" validate:"omitempty"`
	YearsOfExperience *int   `json:"years_of_experience" validate:"omitempty,gte=0"`
	Department        string `json:"department" validate:"omitempty"`
	Bio               string `json:"bio" validate:"omitempty"`
	IsActive          *bool  `json:"is_active" validate:"omitempty"`
}

type UpdateSelfRequest struct {
	FirstName   string `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName    string `json:"last_name" validate:"omitempty,min=2,max=50"`
	Department  string `json:"department" validate:"omitempty"`
	Bio         string `json:"bio" validate:"omitempty"`
	OldPassword string `json:"old_password" validate:"omitempty"`
	NewPassword string `json:"new_password" validate:"omitempty,password"`
}

// Response DTOs

type DoctorResponse struct {
	ID                   uuid.UUID  `json:"id"`
	Email                string     `json:"email"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	DoctorType           string     `json:"doctor_type"`
	Specialty            string     `json:"specialty"`
	MedicalLicenseNumber string     `json:"medical_license_number"`
	YearsOfExperience    int        `json:"years_of_experience"`
	Department           string     `json:"department,omitempty"`
	Bio                  string     `json:"bio,omitempty"`
	SupervisorID         *uuid.UUID `json:"supervisor_id,omitempty"`
	IsActive             *bool      `json:"is_active,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
