package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/repository"
)

type patientRepository struct {
	coll *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) repository.PatientRepository {
	return &patientRepository{coll: db.Collection(patientsCollection)}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	res, err := r.coll.InsertOne(ctx, patient)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		patient.ID = oid
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id primitive.ObjectID) (*model.Patient, error) {
	var patient model.Patient
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&patient)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByCode(ctx context.Context, patientCode string) (*model.Patient, error) {
	var patient model.Patient
	err := r.coll.FindOne(ctx, bson.M{"personalInfo.patientId": patientCode}).Decode(&patient)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient by code: %w", err)
	}
	return &patient, nil
}

// Search composes all non-zero filters into one query and returns a
// page sorted newest-created first.
func (r *patientRepository) Search(ctx context.Context, filters *model.SearchFilters, page *model.Pagination) (*model.SearchResult, error) {
	filter := bson.M{"isActive": true}
	if filters != nil {
		if filters.Query != "" {
			re := bson.M{"$regex": filters.Query, "$options": "i"}
			filter["$or"] = []bson.M{
				{"personalInfo.name": re},
				{"personalInfo.patientId": re},
			}
		}
		if filters.Name != "" {
			filter["personalInfo.name"] = bson.M{"$regex": filters.Name, "$options": "i"}
		}
		if filters.Condition != "" {
			filter["medicalHistory.condition"] = bson.M{"$regex": filters.Condition, "$options": "i"}
		}
		if filters.Allergy != "" {
			filter["allergies.allergen"] = bson.M{"$regex": filters.Allergy, "$options": "i"}
		}
		if filters.VisitFrom != nil || filters.VisitTo != nil {
			dateRange := bson.M{}
			if filters.VisitFrom != nil {
				dateRange["$gte"] = *filters.VisitFrom
			}
			if filters.VisitTo != nil {
				dateRange["$lte"] = *filters.VisitTo
			}
			filter["visits"] = bson.M{"$elemMatch": bson.M{"date": dateRange}}
		}
	}

	pageNum, limit := 1, 10
	if page != nil {
		if page.Page > 0 {
			pageNum = page.Page
		}
		if page.Limit > 0 {
			limit = page.Limit
		}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "audit.createdAt", Value: -1}}).
		SetSkip(int64((pageNum - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	defer cursor.Close(ctx)

	patients := []*model.Patient{}
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("failed to decode patients: %w", err)
	}

	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return &model.SearchResult{
		Patients: patients,
		Pagination: model.PaginationMeta{
			Total: total,
			Page:  pageNum,
			Limit: limit,
			Pages: pages,
		},
	}, nil
}

func (r *patientRepository) UpdatePersonalInfo(ctx context.Context, id primitive.ObjectID, set map[string]interface{}, audit model.AccessLogEntry) error {
	setDoc := bson.M{
		"audit.updatedAt": time.Now().UTC(),
		"audit.updatedBy": audit.User,
	}
	for k, v := range set {
		setDoc[k] = v
	}
	update := bson.M{
		"$set":  setDoc,
		"$push": bson.M{"audit.accessLog": audit},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendSubEntry pushes a clinical sub-record and its access-log entry
// in one update, so the write and its audit entry are atomic.
func (r *patientRepository) AppendSubEntry(ctx context.Context, id primitive.ObjectID, field string, entry interface{}, audit model.AccessLogEntry) error {
	update := bson.M{
		"$push": bson.M{
			field:             entry,
			"audit.accessLog": audit,
		},
		"$set": bson.M{
			"audit.updatedAt": time.Now().UTC(),
			"audit.updatedBy": audit.User,
		},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to append %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepository) Deactivate(ctx context.Context, id primitive.ObjectID, audit model.AccessLogEntry) error {
	update := bson.M{
		"$set": bson.M{
			"isActive":        false,
			"audit.updatedAt": time.Now().UTC(),
			"audit.updatedBy": audit.User,
		},
		"$push": bson.M{"audit.accessLog": audit},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to deactivate patient: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepository) LogAccess(ctx context.Context, id primitive.ObjectID, audit model.AccessLogEntry) error {
	update := bson.M{
		"$push": bson.M{"audit.accessLog": audit},
		"$set": bson.M{
			"audit.lastAccessedAt": audit.Timestamp,
			"audit.lastAccessedBy": audit.User,
		},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to log access: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAccessLog returns the record's provenance stamps plus a
// newest-first page of the embedded access log.
func (r *patientRepository) GetAccessLog(ctx context.Context, id primitive.ObjectID, page *model.Pagination) (*model.AuditLogPage, error) {
	pageNum, limit := 1, 20
	if page != nil {
		if page.Page > 0 {
			pageNum = page.Page
		}
		if page.Limit > 0 {
			limit = page.Limit
		}
	}
	skip := (pageNum - 1) * limit

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$project", Value: bson.M{
			"createdAt":      "$audit.createdAt",
			"createdBy":      "$audit.createdBy",
			"updatedAt":      "$audit.updatedAt",
			"updatedBy":      "$audit.updatedBy",
			"lastAccessedAt": "$audit.lastAccessedAt",
			"lastAccessedBy": "$audit.lastAccessedBy",
			"total":          bson.M{"$size": "$audit.accessLog"},
			"entries": bson.M{"$slice": bson.A{
				bson.M{"$reverseArray": "$audit.accessLog"},
				skip,
				limit,
			}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to read access log: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*model.AuditLogPage
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode access log: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results[0], nil
}
