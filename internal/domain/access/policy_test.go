package access

import (
	"testing"

	"clinical-data-api/internal/domain/entity"

	"github.com/google/uuid"
)

func TestCan(t *testing.T) {
	consultant := uuid.New()
	otherConsultant := uuid.New()
	resident := uuid.New()
	otherResident := uuid.New()

	patient := &entity.Patient{
		ID:                uuid.New(),
		ConsultantID:      consultant,
		CurrentResidentID: &resident,
	}
	unassigned := &entity.Patient{
		ID:           uuid.New(),
		ConsultantID: consultant,
	}

	allActions := []Action{
		ActionReadPatient,
		ActionUpdatePatient,
		ActionAssignResident,
		ActionViewAssignments,
		ActionCreateClinicalRecord,
		ActionReadClinicalRecords,
	}

	tests := []struct {
		name       string
		doctorID   uuid.UUID
		doctorType entity.DoctorType
		patient    *entity.Patient
		action     Action
		want       bool
	}{
		{"owning consultant reads", consultant, entity.DoctorTypeConsultant, patient, ActionReadPatient, true},
		{"owning consultant updates", consultant, entity.DoctorTypeConsultant, patient, ActionUpdatePatient, true},
		{"owning consultant assigns", consultant, entity.DoctorTypeConsultant, patient, ActionAssignResident, true},
		{"owning consultant views history", consultant, entity.DoctorTypeConsultant, patient, ActionViewAssignments, true},
		{"owning consultant reads records", consultant, entity.DoctorTypeConsultant, patient, ActionReadClinicalRecords, true},
		{"consultant cannot create records even when owner", consultant, entity.DoctorTypeConsultant, patient, ActionCreateClinicalRecord, false},
		{"non-owning consultant reads", otherConsultant, entity.DoctorTypeConsultant, patient, ActionReadPatient, false},
		{"non-owning consultant assigns", otherConsultant, entity.DoctorTypeConsultant, patient, ActionAssignResident, false},
		{"non-owning consultant views history", otherConsultant, entity.DoctorTypeConsultant, patient, ActionViewAssignments, false},
		{"current resident reads", resident, entity.DoctorTypeResident, patient, ActionReadPatient, true},
		{"current resident updates", resident, entity.DoctorTypeResident, patient, ActionUpdatePatient, true},
		{"current resident creates record", resident, entity.DoctorTypeResident, patient, ActionCreateClinicalRecord, true},
		{"current resident views history", resident, entity.DoctorTypeResident, patient, ActionViewAssignments, true},
		{"resident cannot assign even when current", resident, entity.DoctorTypeResident, patient, ActionAssignResident, false},
		{"non-current resident reads", otherResident, entity.DoctorTypeResident, patient, ActionReadPatient, false},
		{"non-current resident updates", otherResident, entity.DoctorTypeResident, patient, ActionUpdatePatient, false},
		{"non-current resident creates record", otherResident, entity.DoctorTypeResident, patient, ActionCreateClinicalRecord, false},
		{"resident on unassigned patient", resident, entity.DoctorTypeResident, unassigned, ActionReadPatient, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Can(tt.doctorID, tt.doctorType, tt.patient, tt.action)
			if got != tt.want {
				t.Errorf("Can(%s, %s) = %v, want %v", tt.doctorType, tt.action, got, tt.want)
			}
		})
	}

	t.Run("nil patient is never permitted", func(t *testing.T) {
		for _, action := range allActions {
			if Can(consultant, entity.DoctorTypeConsultant, nil, action) {
				t.Errorf("Can(nil patient, %s) = true, want false", action)
			}
		}
	})

	t.Run("unknown role is never permitted", func(t *testing.T) {
		for _, action := range allActions {
			if Can(consultant, entity.DoctorType("admin"), patient, action) {
				t.Errorf("Can(unknown role, %s) = true, want false", action)
			}
		}
	})
}

func TestRolePredicates(t *testing.T) {
	if !CanCreatePatient(entity.DoctorTypeConsultant) {
		t.Error("consultants should create patients")
	}
	if CanCreatePatient(entity.DoctorTypeResident) {
		t.Error("residents should not create patients")
	}
	if !CanManageDoctors(entity.DoctorTypeConsultant) {
		t.Error("consultants should manage doctors")
	}
	if CanManageDoctors(entity.DoctorTypeResident) {
		t.Error("residents should not manage doctors")
	}
}
