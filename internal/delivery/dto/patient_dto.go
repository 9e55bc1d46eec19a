package dto

import (
	"time"

	"clinical-data-api/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	Name            string      `json:"name" validate:"required,min=2,max=255"`
	Age             int         `json:"age" validate:"gte=0,lte=150"`
	Gender          string      `json:"gender" validate:"omitempty,oneof=male female other"`
	RiskFactors     entity.JSON `json:"risk_factors" validate:"omitempty"`
	FamilyHistory   entity.JSON `json:"family_history" validate:"omitempty"`
	SurgicalHistory entity.JSON `json:"surgical_history" validate:"omitempty"`
	AdditionalNotes entity.JSON `json:"additional_notes" validate:"omitempty"`
}

type UpdatePatientRequest struct {
	Name            string      `json:"name" validate:"omitempty,min=2,max=255"`
	Age             *int        `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender          string      `json:"gender" validate:"omitempty,oneof=male female other"`
	RiskFactors     entity.JSON `json:"risk_factors" validate:"omitempty"`
	FamilyHistory   entity.JSON `json:"family_history" validate:"omitempty"`
	SurgicalHistory entity.JSON `json:"surgical_history" validate:"omitempty"`
	AdditionalNotes entity.JSON `json:"additional_notes" validate:"omitempty"`
}

type AssignResidentRequest struct {
	ResidentID string `json:"resident_id" validate:"required,uuid"`
}

// Response DTOs

type PatientResponse struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	Age               int         `json:"age"`
	Gender            string      `json:"gender,omitempty"`
	ConsultantID      uuid.UUID   `json:"consultant_id"`
	CurrentResidentID *uuid.UUID  `json:"current_resident_id,omitempty"`
	RiskFactors       entity.JSON `json:"risk_factors,omitempty"`
	FamilyHistory     entity.JSON `json:"family_history,omitempty"`
	SurgicalHistory   entity.JSON `json:"surgical_history,omitempty"`
	AdditionalNotes   entity.JSON `json:"additional_notes,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}
