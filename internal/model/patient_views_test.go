package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func samplePatient() *Patient {
	return &Patient{
		ID: primitive.NewObjectID(),
		PersonalInfo: PersonalInfo{
			PatientID: "PAT000123",
			Name:      "Jane Doe",
			Gender:    "Female",
		},
		MedicalHistory: []MedicalHistoryEntry{{Condition: "Hypertension"}},
		Allergies:      []Allergy{{Allergen: "Penicillin"}, {Allergen: "Latex"}},
		Prescriptions:  []Prescription{{Medication: "Lisinopril"}},
		Visits:         []Visit{{Type: "Checkup"}, {Type: "Follow-up"}, {Type: "Emergency"}},
		LabReports:     []LabReport{},
		IsActive:       true,
	}
}

func TestClinicalRolesSeeFullDetail(t *testing.T) {
	p := samplePatient()

	for _, role := range []Role{RoleDoctor, RoleNurse} {
		view := ProjectPatient(p, role)
		detail, ok := view.(*PatientDetail)
		require.True(t, ok, role)
		assert.Equal(t, "Hypertension", detail.MedicalHistory[0].Condition)
		assert.Len(t, detail.Allergies, 2)
	}
}

func TestOtherRolesSeeCountsOnly(t *testing.T) {
	p := samplePatient()

	for _, role := range []Role{RoleAdmin, RoleReceptionist} {
		view := ProjectPatient(p, role)
		summary, ok := view.(*PatientSummary)
		require.True(t, ok, role)

		assert.Equal(t, "PAT000123", summary.PersonalInfo.PatientID)
		assert.Equal(t, 1, summary.MedicalHistoryCount)
		assert.Equal(t, 2, summary.AllergyCount)
		assert.Equal(t, 1, summary.PrescriptionCount)
		assert.Equal(t, 3, summary.VisitCount)
		assert.Equal(t, 0, summary.LabReportCount)
	}
}

func TestProjectPatientsKeepsOrder(t *testing.T) {
	first, second := samplePatient(), samplePatient()
	second.PersonalInfo.PatientID = "PAT000124"

	views := ProjectPatients([]*Patient{first, second}, RoleReceptionist)
	require.Len(t, views, 2)
	assert.Equal(t, "PAT000123", views[0].(*PatientSummary).PersonalInfo.PatientID)
	assert.Equal(t, "PAT000124", views[1].(*PatientSummary).PersonalInfo.PatientID)
}
