package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
)

// All repository interfaces in one file
type (
	// AccountRepository handles staff account persistence.
	AccountRepository interface {
		Create(ctx context.Context, account *model.Account) error
		Get(ctx context.Context, id primitive.ObjectID) (*model.Account, error)
		GetByEmail(ctx context.Context, email string) (*model.Account, error)
		EmailExists(ctx context.Context, email string) (bool, error)
		Update(ctx context.Context, account *model.Account) error
		List(ctx context.Context) ([]*model.Account, error)
		ListDoctors(ctx context.Context) ([]*model.DoctorRef, error)
		RecordLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	}

	// PatientRepository handles patient record persistence. Every write
	// takes the audit entry it must append so the data change and its
	// access-log entry land in one document operation.
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id primitive.ObjectID) (*model.Patient, error)
		GetByCode(ctx context.Context, patientCode string) (*model.Patient, error)
		Search(ctx context.Context, filters *model.SearchFilters, page *model.Pagination) (*model.SearchResult, error)
		UpdatePersonalInfo(ctx context.Context, id primitive.ObjectID, set map[string]interface{}, audit model.AccessLogEntry) error
		AppendSubEntry(ctx context.Context, id primitive.ObjectID, field string, entry interface{}, audit model.AccessLogEntry) error
		Deactivate(ctx context.Context, id primitive.ObjectID, audit model.AccessLogEntry) error
		LogAccess(ctx context.Context, id primitive.ObjectID, audit model.AccessLogEntry) error
		GetAccessLog(ctx context.Context, id primitive.ObjectID, page *model.Pagination) (*model.AuditLogPage, error)
	}

	// AppointmentRepository handles appointment scheduling persistence.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id primitive.ObjectID) (*model.AppointmentDetail, error)
		Update(ctx context.Context, id primitive.ObjectID, set map[string]interface{}) error
		Delete(ctx context.Context, id primitive.ObjectID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error)
	}

	// AnalyticsRepository runs read-only aggregations over the patient
	// and appointment collections.
	AnalyticsRepository interface {
		GenderDemographics(ctx context.Context) ([]*model.GenderDemographics, error)
		TopConditions(ctx context.Context, limit int) ([]*model.ConditionStats, error)
		PrescriptionStats(ctx context.Context) ([]*model.PrescriptionStats, error)
		VisitTrends(ctx context.Context, q *model.VisitTrendQuery) ([]*model.VisitTrendBucket, error)
		LabReportStats(ctx context.Context) ([]*model.LabReportStats, error)
		DepartmentMetrics(ctx context.Context) ([]*model.DepartmentMetrics, error)
		DashboardOverview(ctx context.Context) (*model.DashboardOverview, error)
		NursePatientCount(ctx context.Context, nurseID primitive.ObjectID) (int64, error)
		NurseActiveMedicationCount(ctx context.Context, nurseID primitive.ObjectID) (int64, error)
		PendingVitalsCount(ctx context.Context, since time.Time) (int64, error)
		NurseRecentActivity(ctx context.Context, nurseID primitive.ObjectID, limit int) ([]*model.NurseActivityEntry, error)
	}
)
