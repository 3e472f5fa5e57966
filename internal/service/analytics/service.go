package analytics

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/repository"
)

// pendingVitalsWindow bounds how far back the vitals-check counter
// looks for visits without recorded vitals.
const pendingVitalsWindow = 7 * 24 * time.Hour

// NurseStats backs the nurse dashboard tiles.
type NurseStats struct {
	PatientCareCount int64                       `json:"patientCareCount"`
	MedicationCount  int64                       `json:"medicationCount"`
	VitalsCheckCount int64                       `json:"vitalsCheckCount"`
	RecentActivity   []*model.NurseActivityEntry `json:"recentActivity"`
}

type AnalyticsService interface {
	Demographics(ctx context.Context) ([]*model.GenderDemographics, error)
	TopConditions(ctx context.Context, limit int) ([]*model.ConditionStats, error)
	PrescriptionStats(ctx context.Context) ([]*model.PrescriptionStats, error)
	VisitTrends(ctx context.Context, q *model.VisitTrendQuery) ([]*model.VisitTrendBucket, error)
	LabReportStats(ctx context.Context) ([]*model.LabReportStats, error)
	DepartmentMetrics(ctx context.Context) ([]*model.DepartmentMetrics, error)
	Dashboard(ctx context.Context) (*model.DashboardOverview, error)
	NurseDashboard(ctx context.Context, nurseID primitive.ObjectID) (*NurseStats, error)
	NursePatientCare(ctx context.Context, nurseID primitive.ObjectID) (int64, error)
	NurseMedications(ctx context.Context, nurseID primitive.ObjectID) (int64, error)
	NurseVitalsChecks(ctx context.Context) (int64, error)
	NurseRecentActivity(ctx context.Context, nurseID primitive.ObjectID, limit int) ([]*model.NurseActivityEntry, error)
}

type Service struct {
	repo repository.AnalyticsRepository
}

func NewService(repo repository.AnalyticsRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Demographics(ctx context.Context) ([]*model.GenderDemographics, error) {
	return s.repo.GenderDemographics(ctx)
}

func (s *Service) TopConditions(ctx context.Context, limit int) ([]*model.ConditionStats, error) {
	return s.repo.TopConditions(ctx, limit)
}

func (s *Service) PrescriptionStats(ctx context.Context) ([]*model.PrescriptionStats, error) {
	return s.repo.PrescriptionStats(ctx)
}

func (s *Service) VisitTrends(ctx context.Context, q *model.VisitTrendQuery) ([]*model.VisitTrendBucket, error) {
	return s.repo.VisitTrends(ctx, q)
}

func (s *Service) LabReportStats(ctx context.Context) ([]*model.LabReportStats, error) {
	return s.repo.LabReportStats(ctx)
}

// DepartmentMetrics scores each department from visit volume, unique
// patients, follow-up rate, and inverted average wait time.
func (s *Service) DepartmentMetrics(ctx context.Context) ([]*model.DepartmentMetrics, error) {
	metrics, err := s.repo.DepartmentMetrics(ctx)
	if err != nil {
		return nil, err
	}

	var maxVisits, maxPatients int64
	for _, m := range metrics {
		if m.TotalVisits > maxVisits {
			maxVisits = m.TotalVisits
		}
		if m.UniquePatients > maxPatients {
			maxPatients = m.UniquePatients
		}
	}

	for _, m := range metrics {
		var volume, reach float64
		if maxVisits > 0 {
			volume = float64(m.TotalVisits) / float64(maxVisits)
		}
		if maxPatients > 0 {
			reach = float64(m.UniquePatients) / float64(maxPatients)
		}
		// Wait times above an hour score zero.
		wait := 1 - m.AverageWaitTime/60
		if wait < 0 {
			wait = 0
		}
		m.PerformanceScore = round2(100 * (0.3*volume + 0.25*reach + 0.25*m.FollowUpRate + 0.2*wait))
	}
	return metrics, nil
}

func (s *Service) Dashboard(ctx context.Context) (*model.DashboardOverview, error) {
	return s.repo.DashboardOverview(ctx)
}

// NursePatientCare counts distinct patients whose record the nurse
// created or updated.
func (s *Service) NursePatientCare(ctx context.Context, nurseID primitive.ObjectID) (int64, error) {
	return s.repo.NursePatientCount(ctx, nurseID)
}

// NurseMedications counts active prescriptions among the nurse's
// patients.
func (s *Service) NurseMedications(ctx context.Context, nurseID primitive.ObjectID) (int64, error) {
	return s.repo.NurseActiveMedicationCount(ctx, nurseID)
}

// NurseVitalsChecks counts recent visits with no blood pressure on
// record.
func (s *Service) NurseVitalsChecks(ctx context.Context) (int64, error) {
	return s.repo.PendingVitalsCount(ctx, time.Now().UTC().Add(-pendingVitalsWindow))
}

func (s *Service) NurseRecentActivity(ctx context.Context, nurseID primitive.ObjectID, limit int) ([]*model.NurseActivityEntry, error) {
	return s.repo.NurseRecentActivity(ctx, nurseID, limit)
}

// NurseDashboard aggregates the nurse's counters from real record
// activity rather than static placeholders.
func (s *Service) NurseDashboard(ctx context.Context, nurseID primitive.ObjectID) (*NurseStats, error) {
	patients, err := s.NursePatientCare(ctx, nurseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}
	medications, err := s.NurseMedications(ctx, nurseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count medications: %w", err)
	}
	vitals, err := s.NurseVitalsChecks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending vitals: %w", err)
	}
	activity, err := s.NurseRecentActivity(ctx, nurseID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}

	return &NurseStats{
		PatientCareCount: patients,
		MedicationCount:  medications,
		VitalsCheckCount: vitals,
		RecentActivity:   activity,
	}, nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
