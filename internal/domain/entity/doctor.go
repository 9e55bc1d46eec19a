package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorType represents the role of a doctor
type DoctorType string

const (
	DoctorTypeConsultant DoctorType = "consultant"
	DoctorTypeResident   DoctorType = "resident"
)

// Doctor represents a registered doctor account.
// The type is fixed at creation; there is no role-change flow.
type Doctor struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email                string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password             string     `gorm:"type:text;not null" json:"-"`
	FirstName            string     `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName             string     `gorm:"type:varchar(50);not null" json:"last_name"`
	DoctorType           DoctorType `gorm:"type:varchar(20);not null;index" json:"doctor_type"`
	Specialty            string     `gorm:"type:varchar(100);not null" json:"specialty"`
	MedicalLicenseNumber string     `gorm:"column:medical_license_number;type:varchar(50);uniqueIndex;not null" json:"medical_license_number"`
	YearsOfExperience    int        `gorm:"not null;default:0" json:"years_of_experience"`
	Department           string     `gorm:"type:varchar(100)" json:"department,omitempty"`
	Bio                  string     `gorm:"type:text" json:"bio,omitempty"`

	// SupervisorID is required for residents and must reference a consultant.
	SupervisorID *uuid.UUID `gorm:"type:uuid;index" json:"supervisor_id,omitempty"`

	IsActive  *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Supervisor *Doctor  `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	Residents  []Doctor `gorm:"foreignKey:SupervisorID" json:"residents,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// IsConsultant checks if the doctor holds the consultant role
func (d *Doctor) IsConsultant() bool {
	return d.DoctorType == DoctorTypeConsultant
}

// IsResident checks if the doctor holds the resident role
func (d *Doctor) IsResident() bool {
	return d.DoctorType == DoctorTypeResident
}

// FullName returns the doctor's display name
func (d *Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}
