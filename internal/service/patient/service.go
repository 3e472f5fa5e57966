package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/repository"
	mongorepo "github.com/Bhadra-Indranil/HealthCare-System/internal/repository/mongo"
	apperrors "github.com/Bhadra-Indranil/HealthCare-System/pkg/errors"
)

type PatientService interface {
	Create(ctx context.Context, actor *model.Account, req *model.CreatePatientRequest) (*model.Patient, error)
	Get(ctx context.Context, actor *model.Account, id primitive.ObjectID) (*model.Patient, error)
	GetByCode(ctx context.Context, actor *model.Account, code string) (*model.Patient, error)
	Search(ctx context.Context, filters *model.SearchFilters, page *model.Pagination) (*model.SearchResult, error)
	Update(ctx context.Context, actor *model.Account, id primitive.ObjectID, req *model.UpdatePatientRequest) (*model.Patient, error)
	Deactivate(ctx context.Context, actor *model.Account, id primitive.ObjectID) error
	AddMedicalHistory(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.MedicalHistoryEntry) error
	AddAllergy(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.Allergy) error
	AddPrescription(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.Prescription) error
	AddVisit(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.Visit) error
	AddLabReport(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.LabReport) error
	AccessLog(ctx context.Context, actor *model.Account, id primitive.ObjectID, page *model.Pagination) (*model.AuditLogPage, error)
	Export(ctx context.Context, actor *model.Account, id primitive.ObjectID) (*model.Patient, error)
}

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, actor *model.Account, req *model.CreatePatientRequest) (*model.Patient, error) {
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, apperrors.Validation("Validation failed", apperrors.FieldError{
			Field:   "dateOfBirth",
			Message: "must be a valid date in YYYY-MM-DD format",
		})
	}
	if dob.After(time.Now()) {
		return nil, apperrors.Validation("Validation failed", apperrors.FieldError{
			Field:   "dateOfBirth",
			Message: "cannot be in the future",
		})
	}

	now := time.Now().UTC()
	patient := &model.Patient{
		PersonalInfo: model.PersonalInfo{
			PatientID:   req.PatientID,
			Name:        req.FirstName + " " + req.LastName,
			DateOfBirth: dob,
			Gender:      req.Gender,
			Contact: model.Contact{
				Phone: req.Phone,
				Email: req.Email,
				Address: model.Address{
					Street: req.Address,
				},
			},
		},
		MedicalHistory: []model.MedicalHistoryEntry{},
		Allergies:      []model.Allergy{},
		Prescriptions:  []model.Prescription{},
		Visits:         []model.Visit{},
		LabReports:     []model.LabReport{},
		IsActive:       true,
		Audit: model.PatientAudit{
			CreatedAt: now,
			CreatedBy: actor.ID,
			UpdatedAt: now,
			UpdatedBy: actor.ID,
			AccessLog: []model.AccessLogEntry{
				model.NewAccessLogEntry(actor.ID, model.AccessCreate, "Patient record created"),
			},
		},
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		if errors.Is(err, mongorepo.ErrDuplicate) {
			return nil, apperrors.Conflict("Patient ID already exists")
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	log.Info().Str("patientId", patient.PersonalInfo.PatientID).Str("createdBy", actor.Email).Msg("patient record created")
	return patient, nil
}

// Get reads the record and appends a View entry to its access log. The
// audit append is best-effort; a failed append never blocks the read.
func (s *Service) Get(ctx context.Context, actor *model.Account, id primitive.ObjectID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, mongorepo.ErrNotFound) {
			return nil, apperrors.NotFound("Patient")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	s.logAccess(ctx, patient.ID, actor, model.AccessView, "Viewed patient record")
	return patient, nil
}

func (s *Service) GetByCode(ctx context.Context, actor *model.Account, code string) (*model.Patient, error) {
	patient, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongorepo.ErrNotFound) {
			return nil, apperrors.NotFound("Patient")
		}
		return nil, fmt.Errorf("failed to get patient by code: %w", err)
	}
	s.logAccess(ctx, patient.ID, actor, model.AccessView, "Viewed patient record")
	return patient, nil
}

// Search is a list operation and is not written to per-record access
// logs; only individual record reads are.
func (s *Service) Search(ctx context.Context, filters *model.SearchFilters, page *model.Pagination) (*model.SearchResult, error) {
	result, err := s.repo.Search(ctx, filters, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	return result, nil
}

func (s *Service) Update(ctx context.Context, actor *model.Account, id primitive.ObjectID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	set := map[string]interface{}{}
	if req.FirstName != nil || req.LastName != nil {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, mongorepo.ErrNotFound) {
				return nil, apperrors.NotFound("Patient")
			}
			return nil, fmt.Errorf("failed to get patient: %w", err)
		}
		first, last := splitName(current.PersonalInfo.Name)
		if req.FirstName != nil {
			first = *req.FirstName
		}
		if req.LastName != nil {
			last = *req.LastName
		}
		set["personalInfo.name"] = strings.TrimSpace(first + " " + last)
	}
	if req.Gender != nil {
		set["personalInfo.gender"] = *req.Gender
	}
	if req.Phone != nil {
		set["personalInfo.contact.phone"] = *req.Phone
	}
	if req.Email != nil {
		set["personalInfo.contact.email"] = *req.Email
	}
	if req.Address != nil {
		set["personalInfo.contact.address.street"] = *req.Address
	}
	if len(set) == 0 {
		return nil, apperrors.Validation("No fields to update")
	}

	audit := model.NewAccessLogEntry(actor.ID, model.AccessUpdate, "Updated personal information")
	if err := s.repo.UpdatePersonalInfo(ctx, id, set, audit); err != nil {
		if errors.Is(err, mongorepo.ErrNotFound) {
			return nil, apperrors.NotFound("Patient")
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Deactivate is the only delete operation; records are retained with
// their full audit history.
func (s *Service) Deactivate(ctx context.Context, actor *model.Account, id primitive.ObjectID) error {
	audit := model.NewAccessLogEntry(actor.ID, model.AccessDelete, "Patient record deactivated")
	if err := s.repo.Deactivate(ctx, id, audit); err != nil {
		if errors.Is(err, mongorepo.ErrNotFound) {
			return apperrors.NotFound("Patient")
		}
		return fmt.Errorf("failed to deactivate patient: %w", err)
	}
	log.Info().Str("patient", id.Hex()).Str("by", actor.Email).Msg("patient record deactivated")
	return nil
}

func (s *Service) AddMedicalHistory(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.MedicalHistoryEntry) error {
	entry.DiagnosedBy = actor.ID
	if entry.Status == "" {
		entry.Status = "Active"
	}
	return s.appendEntry(ctx, actor, id, "medicalHistory", entry, "Added medical history: "+entry.Condition)
}

func (s *Service) AddAllergy(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.Allergy) error {
	entry.RecordedBy = actor.ID
	return s.appendEntry(ctx, actor, id, "allergies", entry, "Added allergy: "+entry.Allergen)
}

func (s *Service) AddPrescription(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.Prescription) error {
	entry.PrescribedBy = actor.ID
	entry.Status = "Active"
	if entry.StartDate.IsZero() {
		entry.StartDate = time.Now().UTC()
	}
	return s.appendEntry(ctx, actor, id, "prescriptions", entry, "Added prescription: "+entry.Medication)
}

func (s *Service) AddVisit(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.Visit) error {
	if entry.Doctor.IsZero() {
		entry.Doctor = actor.ID
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}
	return s.appendEntry(ctx, actor, id, "visits", entry, "Added visit: "+entry.Type)
}

func (s *Service) AddLabReport(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.LabReport) error {
	entry.OrderedBy = actor.ID
	entry.Status = "Pending"
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}
	return s.appendEntry(ctx, actor, id, "labReports", entry, "Added lab report: "+entry.TestName)
}

func (s *Service) AccessLog(ctx context.Context, actor *model.Account, id primitive.ObjectID, page *model.Pagination) (*model.AuditLogPage, error) {
	auditPage, err := s.repo.GetAccessLog(ctx, id, page)
	if err != nil {
		if errors.Is(err, mongorepo.ErrNotFound) {
			return nil, apperrors.NotFound("Patient")
		}
		return nil, fmt.Errorf("failed to read access log: %w", err)
	}
	s.logAccess(ctx, id, actor, model.AccessView, "Audit log accessed")
	return auditPage, nil
}

// Export returns the full record for download and stamps an Export
// entry in the access log.
func (s *Service) Export(ctx context.Context, actor *model.Account, id primitive.ObjectID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, mongorepo.ErrNotFound) {
			return nil, apperrors.NotFound("Patient")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	s.logAccess(ctx, patient.ID, actor, model.AccessExport, "Exported patient record")
	return patient, nil
}

// appendEntry pushes the sub-record and its audit entry in one
// repository call so they commit together.
func (s *Service) appendEntry(ctx context.Context, actor *model.Account, id primitive.ObjectID, field string, entry interface{}, details string) error {
	audit := model.NewAccessLogEntry(actor.ID, model.AccessUpdate, details)
	if err := s.repo.AppendSubEntry(ctx, id, field, entry, audit); err != nil {
		if errors.Is(err, mongorepo.ErrNotFound) {
			return apperrors.NotFound("Patient")
		}
		return fmt.Errorf("failed to append %s: %w", field, err)
	}
	return nil
}

func (s *Service) logAccess(ctx context.Context, id primitive.ObjectID, actor *model.Account, action model.AccessAction, details string) {
	audit := model.NewAccessLogEntry(actor.ID, action, details)
	if err := s.repo.LogAccess(ctx, id, audit); err != nil {
		log.Error().Err(err).Str("patient", id.Hex()).Msg("failed to append access log entry")
	}
}

func splitName(full string) (string, string) {
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return full, ""
}
