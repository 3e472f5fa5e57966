package model

// Clinical sub-record contents are a read-time projection: doctor and
// nurse see full entries, every other authorized role sees counts only.
// The projection never blocks the read, it only narrows the payload.

// PatientDetail is the clinical view served to doctor and nurse roles.
type PatientDetail struct {
	Patient
}

// PatientSummary is the counts-only view served to all other roles.
type PatientSummary struct {
	ID                  interface{}  `json:"_id"`
	PersonalInfo        PersonalInfo `json:"personalInfo"`
	Insurance           Insurance    `json:"insurance,omitempty"`
	IsActive            bool         `json:"isActive"`
	MedicalHistoryCount int          `json:"medicalHistoryCount"`
	AllergyCount        int          `json:"allergyCount"`
	PrescriptionCount   int          `json:"prescriptionCount"`
	VisitCount          int          `json:"visitCount"`
	LabReportCount      int          `json:"labReportCount"`
}

// ProjectPatient picks the response shape for a role.
func ProjectPatient(p *Patient, role Role) interface{} {
	if role.CanViewClinicalDetail() {
		return &PatientDetail{Patient: *p}
	}
	return &PatientSummary{
		ID:                  p.ID,
		PersonalInfo:        p.PersonalInfo,
		Insurance:           p.Insurance,
		IsActive:            p.IsActive,
		MedicalHistoryCount: len(p.MedicalHistory),
		AllergyCount:        len(p.Allergies),
		PrescriptionCount:   len(p.Prescriptions),
		VisitCount:          len(p.Visits),
		LabReportCount:      len(p.LabReports),
	}
}

// ProjectPatients applies the role projection to a result list.
func ProjectPatients(patients []*Patient, role Role) []interface{} {
	out := make([]interface{}, 0, len(patients))
	for _, p := range patients {
		out = append(out, ProjectPatient(p, role))
	}
	return out
}
