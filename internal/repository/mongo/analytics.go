package mongo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/repository"
)

type analyticsRepository struct {
	patients     *mongo.Collection
	appointments *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) repository.AnalyticsRepository {
	return &analyticsRepository{
		patients:     db.Collection(patientsCollection),
		appointments: db.Collection(appointmentsCollection),
	}
}

// ageExpr computes patient age in whole years at query time.
func ageExpr() bson.M {
	return bson.M{"$dateDiff": bson.M{
		"startDate": "$personalInfo.dateOfBirth",
		"endDate":   "$$NOW",
		"unit":      "year",
	}}
}

// ageGroupExpr maps an age onto the fixed reporting buckets.
func ageGroupExpr() bson.M {
	return bson.M{"$switch": bson.M{
		"branches": bson.A{
			bson.M{"case": bson.M{"$lt": bson.A{"$age", 18}}, "then": "Under 18"},
			bson.M{"case": bson.M{"$lt": bson.A{"$age", 30}}, "then": "18-29"},
			bson.M{"case": bson.M{"$lt": bson.A{"$age", 45}}, "then": "30-44"},
			bson.M{"case": bson.M{"$lt": bson.A{"$age", 60}}, "then": "45-59"},
		},
		"default": "60+",
	}}
}

func (r *analyticsRepository) GenderDemographics(ctx context.Context) ([]*model.GenderDemographics, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$addFields", Value: bson.M{"age": ageExpr()}}},
		{{Key: "$addFields", Value: bson.M{"ageGroup": ageGroupExpr()}}},
		{{Key: "$group", Value: bson.M{
			"_id":      bson.M{"gender": "$personalInfo.gender", "ageGroup": "$ageGroup"},
			"count":    bson.M{"$sum": 1},
			"totalAge": bson.M{"$sum": "$age"},
		}}},
	}

	cursor, err := r.patients.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate demographics: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID struct {
			Gender   string `bson:"gender"`
			AgeGroup string `bson:"ageGroup"`
		} `bson:"_id"`
		Count    int64 `bson:"count"`
		TotalAge int64 `bson:"totalAge"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode demographics: %w", err)
	}

	byGender := map[string]*model.GenderDemographics{}
	totalAges := map[string]int64{}
	for _, row := range rows {
		g, ok := byGender[row.ID.Gender]
		if !ok {
			g = &model.GenderDemographics{
				Gender:          row.ID.Gender,
				AgeDistribution: map[string]int{},
			}
			byGender[row.ID.Gender] = g
		}
		g.Count += row.Count
		g.AgeDistribution[row.ID.AgeGroup] += int(row.Count)
		totalAges[row.ID.Gender] += row.TotalAge
	}

	out := make([]*model.GenderDemographics, 0, len(byGender))
	for gender, g := range byGender {
		if g.Count > 0 {
			g.AverageAge = float64(totalAges[gender]) / float64(g.Count)
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (r *analyticsRepository) TopConditions(ctx context.Context, limit int) ([]*model.ConditionStats, error) {
	if limit <= 0 {
		limit = 10
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$addFields", Value: bson.M{"age": ageExpr()}}},
		{{Key: "$unwind", Value: "$medicalHistory"}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$medicalHistory.condition",
			"count":      bson.M{"$sum": 1},
			"averageAge": bson.M{"$avg": "$age"},
			"severities": bson.M{"$push": "$medicalHistory.severity"},
			"statuses":   bson.M{"$push": "$medicalHistory.status"},
			"genders":    bson.M{"$push": "$personalInfo.gender"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.patients.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate conditions: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID         string   `bson:"_id"`
		Count      int64    `bson:"count"`
		AverageAge float64  `bson:"averageAge"`
		Severities []string `bson:"severities"`
		Statuses   []string `bson:"statuses"`
		Genders    []string `bson:"genders"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode conditions: %w", err)
	}

	out := make([]*model.ConditionStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, &model.ConditionStats{
			Condition:          row.ID,
			Count:              row.Count,
			AverageAge:         row.AverageAge,
			SeverityBreakdown:  tally(row.Severities),
			StatusBreakdown:    tally(row.Statuses),
			GenderDistribution: tally(row.Genders),
		})
	}
	return out, nil
}

func (r *analyticsRepository) PrescriptionStats(ctx context.Context) ([]*model.PrescriptionStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$unwind", Value: "$prescriptions"}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$prescriptions.medication",
			"total": bson.M{"$sum": 1},
			"active": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$prescriptions.status", "Active"}}, 1, 0,
			}}},
			"dosages":     bson.M{"$push": "$prescriptions.dosage"},
			"frequencies": bson.M{"$push": "$prescriptions.frequency"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}}}},
	}

	cursor, err := r.patients.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate prescriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID          string   `bson:"_id"`
		Total       int64    `bson:"total"`
		Active      int64    `bson:"active"`
		Dosages     []string `bson:"dosages"`
		Frequencies []string `bson:"frequencies"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode prescriptions: %w", err)
	}

	out := make([]*model.PrescriptionStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, &model.PrescriptionStats{
			Medication:          row.ID,
			TotalPrescriptions:  row.Total,
			ActivePrescriptions: row.Active,
			MostCommonDosage:    mostCommon(row.Dosages),
			MostCommonFrequency: mostCommon(row.Frequencies),
		})
	}
	return out, nil
}

func (r *analyticsRepository) VisitTrends(ctx context.Context, q *model.VisitTrendQuery) ([]*model.VisitTrendBucket, error) {
	format := "%Y-%m-%d"
	if q != nil && q.Interval == "month" {
		format = "%Y-%m"
	}

	visitMatch := bson.M{}
	if q != nil {
		dateRange := bson.M{}
		if q.From != nil {
			dateRange["$gte"] = *q.From
		}
		if q.To != nil {
			dateRange["$lte"] = *q.To
		}
		if len(dateRange) > 0 {
			visitMatch["visits.date"] = dateRange
		}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$unwind", Value: "$visits"}},
	}
	if len(visitMatch) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: visitMatch}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": format,
				"date":   "$visits.date",
			}},
			"count":       bson.M{"$sum": 1},
			"types":       bson.M{"$push": "$visits.type"},
			"departments": bson.M{"$push": "$visits.department"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	)

	cursor, err := r.patients.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate visit trends: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID          string   `bson:"_id"`
		Count       int64    `bson:"count"`
		Types       []string `bson:"types"`
		Departments []string `bson:"departments"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode visit trends: %w", err)
	}

	out := make([]*model.VisitTrendBucket, 0, len(rows))
	for _, row := range rows {
		out = append(out, &model.VisitTrendBucket{
			Period:                 row.ID,
			Count:                  row.Count,
			TypeDistribution:       tally(row.Types),
			DepartmentDistribution: tally(row.Departments),
		})
	}
	return out, nil
}

func (r *analyticsRepository) LabReportStats(ctx context.Context) ([]*model.LabReportStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$unwind", Value: "$labReports"}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$labReports.testName",
			"total":    bson.M{"$sum": 1},
			"statuses": bson.M{"$push": "$labReports.status"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}}}},
	}

	cursor, err := r.patients.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate lab reports: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID       string   `bson:"_id"`
		Total    int64    `bson:"total"`
		Statuses []string `bson:"statuses"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode lab reports: %w", err)
	}

	out := make([]*model.LabReportStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, &model.LabReportStats{
			TestName:        row.ID,
			TotalTests:      row.Total,
			StatusBreakdown: tally(row.Statuses),
		})
	}
	return out, nil
}

func (r *analyticsRepository) DepartmentMetrics(ctx context.Context) ([]*model.DepartmentMetrics, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$unwind", Value: "$visits"}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$visits.department",
			"totalVisits": bson.M{"$sum": 1},
			"patients":    bson.M{"$addToSet": "$_id"},
			"types":       bson.M{"$push": "$visits.type"},
			"avgWait":     bson.M{"$avg": "$visits.waitTime"},
			"followUps": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$ifNull": bson.A{"$visits.followUpDate", false}}, 1, 0,
			}}},
		}}},
		{{Key: "$project", Value: bson.M{
			"totalVisits":    1,
			"uniquePatients": bson.M{"$size": "$patients"},
			"types":          1,
			"avgWait":        1,
			"followUps":      1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalVisits", Value: -1}}}},
	}

	cursor, err := r.patients.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate department metrics: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID             string   `bson:"_id"`
		TotalVisits    int64    `bson:"totalVisits"`
		UniquePatients int64    `bson:"uniquePatients"`
		Types          []string `bson:"types"`
		AvgWait        float64  `bson:"avgWait"`
		FollowUps      int64    `bson:"followUps"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode department metrics: %w", err)
	}

	out := make([]*model.DepartmentMetrics, 0, len(rows))
	for _, row := range rows {
		m := &model.DepartmentMetrics{
			Department:            row.ID,
			TotalVisits:           row.TotalVisits,
			UniquePatients:        row.UniquePatients,
			VisitTypeDistribution: tally(row.Types),
			AverageWaitTime:       row.AvgWait,
		}
		if row.TotalVisits > 0 {
			m.FollowUpRate = float64(row.FollowUps) / float64(row.TotalVisits)
		}
		out = append(out, m)
	}
	return out, nil
}

// appointmentTrendWindow bounds the dashboard's appointment trend to the
// last seven days.
const appointmentTrendWindow = 7 * 24 * time.Hour

// appointmentTrendsPipeline buckets appointments per day over the trend
// window ending at now.
func appointmentTrendsPipeline(now time.Time) mongo.Pipeline {
	since := now.Add(-appointmentTrendWindow)
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"date": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$date"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func (r *analyticsRepository) DashboardOverview(ctx context.Context) (*model.DashboardOverview, error) {
	genderStats, err := r.countBuckets(ctx, r.patients, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$personalInfo.gender", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	})
	if err != nil {
		return nil, err
	}

	ageStats, err := r.countBuckets(ctx, r.patients, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$addFields", Value: bson.M{"age": ageExpr()}}},
		{{Key: "$addFields", Value: bson.M{"ageGroup": ageGroupExpr()}}},
		{{Key: "$group", Value: bson.M{"_id": "$ageGroup", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}

	departmentStats, err := r.countBuckets(ctx, r.patients, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$unwind", Value: "$visits"}},
		{{Key: "$group", Value: bson.M{"_id": "$visits.department", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	})
	if err != nil {
		return nil, err
	}

	appointmentTrends, err := r.countBuckets(ctx, r.appointments, appointmentTrendsPipeline(time.Now().UTC()))
	if err != nil {
		return nil, err
	}

	return &model.DashboardOverview{
		GenderStats:       genderStats,
		AgeStats:          ageStats,
		DepartmentStats:   departmentStats,
		AppointmentTrends: appointmentTrends,
	}, nil
}

func (r *analyticsRepository) countBuckets(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]model.CountBucket, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode counts: %w", err)
	}

	out := make([]model.CountBucket, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.CountBucket{Label: row.ID, Count: row.Count})
	}
	return out, nil
}

// NursePatientCount counts distinct patients with at least one care
// action recorded by the nurse.
func (r *analyticsRepository) NursePatientCount(ctx context.Context, nurseID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"isActive": true,
		"audit.accessLog": bson.M{"$elemMatch": bson.M{
			"user":   nurseID,
			"action": bson.M{"$in": bson.A{model.AccessCreate, model.AccessUpdate}},
		}},
	}
	count, err := r.patients.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count nurse patients: %w", err)
	}
	return count, nil
}

// NurseActiveMedicationCount counts active prescriptions among the
// patients the nurse has cared for.
func (r *analyticsRepository) NurseActiveMedicationCount(ctx context.Context, nurseID primitive.ObjectID) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"isActive": true,
			"audit.accessLog": bson.M{"$elemMatch": bson.M{
				"user":   nurseID,
				"action": bson.M{"$in": bson.A{model.AccessCreate, model.AccessUpdate}},
			}},
		}}},
		{{Key: "$unwind", Value: "$prescriptions"}},
		{{Key: "$match", Value: bson.M{"prescriptions.status": "Active"}}},
		{{Key: "$count", Value: "count"}},
	}
	return r.pipelineCount(ctx, pipeline)
}

// PendingVitalsCount counts recent visits with no vitals recorded.
func (r *analyticsRepository) PendingVitalsCount(ctx context.Context, since time.Time) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$unwind", Value: "$visits"}},
		{{Key: "$match", Value: bson.M{
			"visits.date": bson.M{"$gte": since},
			"$or": bson.A{
				bson.M{"visits.vitals": bson.M{"$exists": false}},
				bson.M{"visits.vitals.bloodPressure": bson.M{"$in": bson.A{nil, ""}}},
			},
		}}},
		{{Key: "$count", Value: "count"}},
	}
	return r.pipelineCount(ctx, pipeline)
}

func (r *analyticsRepository) pipelineCount(ctx context.Context, pipeline mongo.Pipeline) (int64, error) {
	cursor, err := r.patients.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate count: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode count: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Count, nil
}

// NurseRecentActivity pulls the nurse's latest access-log entries across
// all patient records.
func (r *analyticsRepository) NurseRecentActivity(ctx context.Context, nurseID primitive.ObjectID, limit int) ([]*model.NurseActivityEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"audit.accessLog.user": nurseID}}},
		{{Key: "$unwind", Value: "$audit.accessLog"}},
		{{Key: "$match", Value: bson.M{"audit.accessLog.user": nurseID}}},
		{{Key: "$sort", Value: bson.D{{Key: "audit.accessLog.timestamp", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{
			"type": "$audit.accessLog.action",
			"description": bson.M{"$concat": bson.A{
				"$audit.accessLog.details",
				" (", "$personalInfo.name", ")",
			}},
			"timestamp": "$audit.accessLog.timestamp",
		}}},
	}

	cursor, err := r.patients.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate nurse activity: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*model.NurseActivityEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode nurse activity: %w", err)
	}
	return entries, nil
}

// tally counts occurrences of each value.
func tally(values []string) map[string]int {
	out := map[string]int{}
	for _, v := range values {
		if v != "" {
			out[v]++
		}
	}
	return out
}

// mostCommon returns the highest-frequency value, ties broken by first
// occurrence.
func mostCommon(values []string) string {
	counts := map[string]int{}
	best, bestCount := "", 0
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}
