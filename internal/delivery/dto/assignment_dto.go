package dto

import (
	"time"

	"github.com/google/uuid"
)

// Response DTOs

type AssignmentResponse struct {
	ID           int64      `json:"id"`
	PatientID    uuid.UUID  `json:"patient_id"`
	ResidentID   uuid.UUID  `json:"resident_id"`
	ResidentName string     `json:"resident_name,omitempty"`
	AssignedAt   time.Time  `json:"assigned_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

type AssignmentListResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
	Total       int                  `json:"total"`
}
