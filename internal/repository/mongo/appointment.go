package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/repository"
)

type appointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) repository.AppointmentRepository {
	return &appointmentRepository{coll: db.Collection(appointmentsCollection)}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	now := time.Now().UTC()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, appointment)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		appointment.ID = oid
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id primitive.ObjectID) (*model.AppointmentDetail, error) {
	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
	}, detailStages()...)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []*model.AppointmentDetail
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointment: %w", err)
	}
	if len(appointments) == 0 {
		return nil, ErrNotFound
	}
	return appointments[0], nil
}

func (r *appointmentRepository) Update(ctx context.Context, id primitive.ObjectID, set map[string]interface{}) error {
	setDoc := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range set {
		setDoc[k] = v
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": setDoc})
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	match := bson.M{}
	if filters != nil {
		if filters.DoctorID != nil {
			match["doctorId"] = *filters.DoctorID
		}
		if filters.PatientID != nil {
			match["patientId"] = *filters.PatientID
		}
		if filters.Status != "" {
			match["status"] = filters.Status
		}
		if filters.From != nil || filters.To != nil {
			dateRange := bson.M{}
			if filters.From != nil {
				dateRange["$gte"] = *filters.From
			}
			if filters.To != nil {
				dateRange["$lte"] = *filters.To
			}
			match["date"] = dateRange
		}
	}

	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}}},
	}, detailStages()...)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appointments := []*model.AppointmentDetail{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appointments, nil
}

// detailStages resolves patient and doctor names onto each appointment.
func detailStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         patientsCollection,
			"localField":   "patientId",
			"foreignField": "_id",
			"as":           "patient",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         accountsCollection,
			"localField":   "doctorId",
			"foreignField": "_id",
			"as":           "doctor",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"patientName":          bson.M{"$arrayElemAt": bson.A{"$patient.personalInfo.name", 0}},
			"doctorName":           bson.M{"$arrayElemAt": bson.A{"$doctor.name", 0}},
			"doctorSpecialization": bson.M{"$arrayElemAt": bson.A{"$doctor.specialization", 0}},
		}}},
		{{Key: "$project", Value: bson.M{"patient": 0, "doctor": 0}}},
	}
}
