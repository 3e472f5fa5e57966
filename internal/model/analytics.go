package model

import "time"

// Fixed age buckets, computed from date of birth at query time.
var AgeBuckets = []string{"Under 18", "18-29", "30-44", "45-59", "60+"}

// GenderDemographics is one per-gender aggregation row.
type GenderDemographics struct {
	Gender          string         `bson:"gender" json:"gender"`
	Count           int64          `bson:"count" json:"count"`
	AverageAge      float64        `bson:"averageAge" json:"averageAge"`
	AgeDistribution map[string]int `bson:"ageDistribution" json:"ageDistribution"`
}

// ConditionStats ranks one medical condition by frequency.
type ConditionStats struct {
	Condition          string         `bson:"condition" json:"condition"`
	Count              int64          `bson:"count" json:"count"`
	SeverityBreakdown  map[string]int `bson:"severityBreakdown" json:"severityBreakdown"`
	StatusBreakdown    map[string]int `bson:"statusBreakdown" json:"statusBreakdown"`
	AverageAge         float64        `bson:"averageAge" json:"averageAge"`
	GenderDistribution map[string]int `bson:"genderDistribution" json:"genderDistribution"`
}

// PrescriptionStats ranks one medication by prescription volume.
type PrescriptionStats struct {
	Medication          string `bson:"medication" json:"medication"`
	TotalPrescriptions  int64  `bson:"totalPrescriptions" json:"totalPrescriptions"`
	ActivePrescriptions int64  `bson:"activePrescriptions" json:"activePrescriptions"`
	MostCommonDosage    string `bson:"mostCommonDosage" json:"mostCommonDosage"`
	MostCommonFrequency string `bson:"mostCommonFrequency" json:"mostCommonFrequency"`
}

// VisitTrendBucket is one day or month of visit volume.
type VisitTrendBucket struct {
	Period                 string         `bson:"period" json:"period"`
	Count                  int64          `bson:"count" json:"count"`
	TypeDistribution       map[string]int `bson:"typeDistribution" json:"typeDistribution"`
	DepartmentDistribution map[string]int `bson:"departmentDistribution" json:"departmentDistribution"`
}

// VisitTrendQuery bounds and buckets a visit-trend scan. Interval is
// "day" or "month".
type VisitTrendQuery struct {
	From     *time.Time
	To       *time.Time
	Interval string
}

// LabReportStats summarizes one test across all patients.
type LabReportStats struct {
	TestName        string         `bson:"testName" json:"testName"`
	TotalTests      int64          `bson:"totalTests" json:"totalTests"`
	StatusBreakdown map[string]int `bson:"statusBreakdown" json:"statusBreakdown"`
}

// DepartmentMetrics scores a department. PerformanceScore is a weighted
// combination of visit volume, unique-patient count, follow-up rate, and
// inverted average wait time, computed service-side.
type DepartmentMetrics struct {
	Department            string         `bson:"department" json:"department"`
	TotalVisits           int64          `bson:"totalVisits" json:"totalVisits"`
	UniquePatients        int64          `bson:"uniquePatients" json:"uniquePatients"`
	VisitTypeDistribution map[string]int `bson:"visitTypeDistribution" json:"visitTypeDistribution"`
	AverageWaitTime       float64        `bson:"averageWaitTime" json:"averageWaitTime"`
	FollowUpRate          float64        `bson:"followUpRate" json:"followUpRate"`
	PerformanceScore      float64        `bson:"-" json:"performanceScore"`
}

// CountBucket is a generic label/count aggregation row.
type CountBucket struct {
	Label string `bson:"label" json:"label"`
	Count int64  `bson:"count" json:"count"`
}

// DashboardOverview backs the combined analytics landing endpoint.
type DashboardOverview struct {
	GenderStats       []CountBucket `json:"genderStats"`
	AgeStats          []CountBucket `json:"ageStats"`
	DepartmentStats   []CountBucket `json:"departmentStats"`
	AppointmentTrends []CountBucket `json:"appointmentTrends"`
}

// NurseActivityEntry is one recent care action pulled from patient
// access logs.
type NurseActivityEntry struct {
	Type        string    `bson:"type" json:"type"`
	Description string    `bson:"description" json:"description"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}
