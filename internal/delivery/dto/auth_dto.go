package dto

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegisterRequest is the public self-registration payload. The server
// forces the created account to the resident role; any doctor_type supplied
// by the client is ignored.
type RegisterRequest struct {
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,password"`
	FirstName            string `json:"first_name" validate:"required,min=2,max=50"`
	LastName             string `json:"last_name" validate:"required,min=2,max=50"`
	Specialty            string `json:"specialty" validate:"required"`
	MedicalLicenseNumber string `json:"medical_license_number" validate:"required"`
	YearsOfExperience    int    `json:"years_of_experience" validate:"gte=0"`
	Department           string `json:"department" validate:"omitempty"`
	Bio                  string `json:"bio" validate:"omitempty"`
	SupervisorID         string `json:"supervisor_id" validate:"omitempty,uuid"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	DoctorType   string `json:"doctor_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
