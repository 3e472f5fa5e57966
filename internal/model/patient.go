package model

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessAction is the closed set of audited patient-record operations.
type AccessAction string

const (
	AccessView   AccessAction = "View"
	AccessCreate AccessAction = "Create"
	AccessUpdate AccessAction = "Update"
	AccessDelete AccessAction = "Delete"
	AccessExport AccessAction = "Export"
)

// AccessLogEntry is one append-only audit trail entry embedded in the
// patient document. Entries are never edited or removed.
type AccessLogEntry struct {
	ID        string             `bson:"id" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Action    AccessAction       `bson:"action" json:"action"`
	Details   string             `bson:"details,omitempty" json:"details,omitempty"`
}

// NewAccessLogEntry stamps an audit entry for the acting account.
func NewAccessLogEntry(actor primitive.ObjectID, action AccessAction, details string) AccessLogEntry {
	return AccessLogEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		User:      actor,
		Action:    action,
		Details:   details,
	}
}

type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

type Contact struct {
	Phone   string  `bson:"phone,omitempty" json:"phone,omitempty"`
	Email   string  `bson:"email,omitempty" json:"email,omitempty"`
	Address Address `bson:"address,omitempty" json:"address,omitempty"`
}

type EmergencyContact struct {
	Name         string `bson:"name,omitempty" json:"name,omitempty"`
	Relationship string `bson:"relationship,omitempty" json:"relationship,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// PersonalInfo holds patient demographics. PatientID is the immutable
// human-facing code (three uppercase letters, six digits) and is unique
// across all records.
type PersonalInfo struct {
	PatientID        string           `bson:"patientId" json:"patientId"`
	Name             string           `bson:"name" json:"name"`
	DateOfBirth      time.Time        `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender           string           `bson:"gender" json:"gender"`
	Contact          Contact          `bson:"contact,omitempty" json:"contact,omitempty"`
	EmergencyContact EmergencyContact `bson:"emergencyContact,omitempty" json:"emergencyContact,omitempty"`
}

type MedicalHistoryEntry struct {
	Condition     string             `bson:"condition" json:"condition"`
	DiagnosisDate time.Time          `bson:"diagnosisDate" json:"diagnosisDate"`
	Status        string             `bson:"status" json:"status"`
	Severity      string             `bson:"severity" json:"severity"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	DiagnosedBy   primitive.ObjectID `bson:"diagnosedBy,omitempty" json:"diagnosedBy,omitempty"`
}

type Allergy struct {
	Allergen      string             `bson:"allergen" json:"allergen"`
	Severity      string             `bson:"severity" json:"severity"`
	Reaction      string             `bson:"reaction,omitempty" json:"reaction,omitempty"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	DiagnosedDate *time.Time         `bson:"diagnosedDate,omitempty" json:"diagnosedDate,omitempty"`
	RecordedBy    primitive.ObjectID `bson:"recordedBy,omitempty" json:"recordedBy,omitempty"`
}

type Refill struct {
	Date        time.Time          `bson:"date" json:"date"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	DispensedBy primitive.ObjectID `bson:"dispensedBy,omitempty" json:"dispensedBy,omitempty"`
}

type Prescription struct {
	Medication   string             `bson:"medication" json:"medication"`
	Dosage       string             `bson:"dosage" json:"dosage"`
	Frequency    string             `bson:"frequency" json:"frequency"`
	StartDate    time.Time          `bson:"startDate" json:"startDate"`
	EndDate      *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	PrescribedBy primitive.ObjectID `bson:"prescribedBy,omitempty" json:"prescribedBy,omitempty"`
	Status       string             `bson:"status" json:"status"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Refills      []Refill           `bson:"refills,omitempty" json:"refills,omitempty"`
}

type Attachment struct {
	Type        string             `bson:"type" json:"type"`
	URL         string             `bson:"url,omitempty" json:"url,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
	UploadedBy  primitive.ObjectID `bson:"uploadedBy,omitempty" json:"uploadedBy,omitempty"`
}

type Vitals struct {
	BloodPressure    string  `bson:"bloodPressure,omitempty" json:"bloodPressure,omitempty"`
	HeartRate        int     `bson:"heartRate,omitempty" json:"heartRate,omitempty"`
	Temperature      float64 `bson:"temperature,omitempty" json:"temperature,omitempty"`
	Weight           float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	Height           float64 `bson:"height,omitempty" json:"height,omitempty"`
	OxygenSaturation float64 `bson:"oxygenSaturation,omitempty" json:"oxygenSaturation,omitempty"`
}

type Visit struct {
	Date         time.Time          `bson:"date" json:"date"`
	Type         string             `bson:"type" json:"type"`
	Doctor       primitive.ObjectID `bson:"doctor,omitempty" json:"doctor,omitempty"`
	Department   string             `bson:"department" json:"department"`
	Diagnosis    string             `bson:"diagnosis,omitempty" json:"diagnosis,omitempty"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Attachments  []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Vitals       Vitals             `bson:"vitals,omitempty" json:"vitals,omitempty"`
	WaitTime     int                `bson:"waitTime,omitempty" json:"waitTime,omitempty"`
	FollowUpDate *time.Time         `bson:"followUpDate,omitempty" json:"followUpDate,omitempty"`
}

type LabReport struct {
	TestName    string             `bson:"testName" json:"testName"`
	Date        time.Time          `bson:"date" json:"date"`
	Results     string             `bson:"results,omitempty" json:"results,omitempty"`
	Status      string             `bson:"status" json:"status"`
	Attachments []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
	OrderedBy   primitive.ObjectID `bson:"orderedBy,omitempty" json:"orderedBy,omitempty"`
	ReviewedBy  primitive.ObjectID `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

type Insurance struct {
	Provider     string       `bson:"provider,omitempty" json:"provider,omitempty"`
	PolicyNumber string       `bson:"policyNumber,omitempty" json:"policyNumber,omitempty"`
	GroupNumber  string       `bson:"groupNumber,omitempty" json:"groupNumber,omitempty"`
	CoverageType string       `bson:"coverageType,omitempty" json:"coverageType,omitempty"`
	ValidFrom    *time.Time   `bson:"validFrom,omitempty" json:"validFrom,omitempty"`
	ValidTo      *time.Time   `bson:"validTo,omitempty" json:"validTo,omitempty"`
	Documents    []Attachment `bson:"documents,omitempty" json:"documents,omitempty"`
}

// PatientAudit tracks record provenance plus the embedded access log.
// Keeping the log inside the patient document means the audit append and
// the triggering write share one document-level operation.
type PatientAudit struct {
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	CreatedBy      primitive.ObjectID  `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy      primitive.ObjectID  `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	LastAccessedAt *time.Time          `bson:"lastAccessedAt,omitempty" json:"lastAccessedAt,omitempty"`
	LastAccessedBy *primitive.ObjectID `bson:"lastAccessedBy,omitempty" json:"lastAccessedBy,omitempty"`
	AccessLog      []AccessLogEntry    `bson:"accessLog" json:"accessLog"`
}

// AuditLogPage is what the audit-log endpoint returns: the record's
// provenance stamps plus one newest-first page of the access log.
type AuditLogPage struct {
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	CreatedBy      primitive.ObjectID  `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy      primitive.ObjectID  `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	LastAccessedAt *time.Time          `bson:"lastAccessedAt,omitempty" json:"lastAccessedAt,omitempty"`
	LastAccessedBy *primitive.ObjectID `bson:"lastAccessedBy,omitempty" json:"lastAccessedBy,omitempty"`
	Entries        []AccessLogEntry    `bson:"entries" json:"entries"`
	Total          int64               `bson:"total" json:"total"`
}

// Patient is the full record document.
type Patient struct {
	ID             primitive.ObjectID    `bson:"_id,omitempty" json:"_id"`
	PersonalInfo   PersonalInfo          `bson:"personalInfo" json:"personalInfo"`
	MedicalHistory []MedicalHistoryEntry `bson:"medicalHistory" json:"medicalHistory"`
	Allergies      []Allergy             `bson:"allergies" json:"allergies"`
	Prescriptions  []Prescription        `bson:"prescriptions" json:"prescriptions"`
	Visits         []Visit               `bson:"visits" json:"visits"`
	LabReports     []LabReport           `bson:"labReports" json:"labReports"`
	Insurance      Insurance             `bson:"insurance,omitempty" json:"insurance,omitempty"`
	IsActive       bool                  `bson:"isActive" json:"isActive"`
	Audit          PatientAudit          `bson:"audit" json:"audit"`
}

type CreatePatientRequest struct {
	PatientID   string `json:"patientId" binding:"required,patientcode"`
	FirstName   string `json:"firstName" binding:"required,personname"`
	LastName    string `json:"lastName" binding:"required,personname"`
	DateOfBirth string `json:"dateOfBirth" binding:"required"`
	Gender      string `json:"gender" binding:"required,oneof=Male Female Other"`
	Phone       string `json:"phone" binding:"omitempty,phonenumber"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address" binding:"omitempty,max=200"`
}

type UpdatePatientRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,personname"`
	LastName  *string `json:"lastName" binding:"omitempty,personname"`
	Gender    *string `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	Phone     *string `json:"phone" binding:"omitempty,phonenumber"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Address   *string `json:"address" binding:"omitempty,max=200"`
}

// SearchFilters compose into one query; zero values are ignored.
// Query matches either name or patient code, the others are
// field-specific.
type SearchFilters struct {
	Query     string     `form:"search"`
	Name      string     `form:"name"`
	Condition string     `form:"condition"`
	Allergy   string     `form:"allergy"`
	VisitFrom *time.Time `form:"-"`
	VisitTo   *time.Time `form:"-"`
}

type Pagination struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// SearchResult is a page of patients plus pagination metadata. Default
// sort is newest-created first.
type SearchResult struct {
	Patients   []*Patient     `json:"patients"`
	Pagination PaginationMeta `json:"pagination"`
}

type PaginationMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}
