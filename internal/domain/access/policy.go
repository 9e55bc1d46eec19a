// Package access holds the authorization gate: a pure mapping from
// (doctor role, doctor id, patient bindings) to permitted actions.
// Callers must resolve existence (NotFound) before consulting the gate.
package access

import (
	"clinical-data-api/internal/domain/entity"

	"github.com/google/uuid"
)

// Action is a patient-scoped operation subject to the gate
type Action string

const (
	ActionReadPatient          Action = "patient.read"
	ActionUpdatePatient        Action = "patient.update"
	ActionAssignResident       Action = "patient.assign"
	ActionViewAssignments      Action = "patient.assignments"
	ActionCreateClinicalRecord Action = "record.create"
	ActionReadClinicalRecords  Action = "record.read"
)

// Can reports whether the doctor may perform the action on the patient.
//
// Consultants act on patients they own; residents act on patients they are
// currently assigned to. Assigning is consultant-only; creating clinical
// records is resident-only.
func Can(doctorID uuid.UUID, doctorType entity.DoctorType, patient *entity.Patient, action Action) bool {
	if patient == nil {
		return false
	}

	switch doctorType {
	case entity.DoctorTypeConsultant:
		if action == ActionCreateClinicalRecord {
			return false
		}
		return patient.IsOwnedBy(doctorID)
	case entity.DoctorTypeResident:
		if action == ActionAssignResident {
			return false
		}
		return patient.IsCurrentResident(doctorID)
	}
	return false
}

// CanCreatePatient reports whether the role may create patients
func CanCreatePatient(doctorType entity.DoctorType) bool {
	return doctorType == entity.DoctorTypeConsultant
}

// CanManageDoctors reports whether the role may create, update, or delete
// other doctor accounts
func CanManageDoctors(doctorType entity.DoctorType) bool {
	return doctorType == entity.DoctorTypeConsultant
}
