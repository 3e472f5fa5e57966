package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

// Appointment links a patient and a doctor account to a date/time slot.
// Its lifecycle is independent from patient-record sub-entries.
type Appointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PatientID primitive.ObjectID `bson:"patientId" json:"patientId"`
	DoctorID  primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	Date      time.Time          `bson:"date" json:"date"`
	Time      string             `bson:"time" json:"time"`
	Status    AppointmentStatus  `bson:"status" json:"status"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AppointmentDetail carries the resolved patient and doctor names the way
// the list and get endpoints return them.
type AppointmentDetail struct {
	Appointment          `bson:",inline"`
	PatientName          string `bson:"patientName,omitempty" json:"patientName,omitempty"`
	DoctorName           string `bson:"doctorName,omitempty" json:"doctorName,omitempty"`
	DoctorSpecialization string `bson:"doctorSpecialization,omitempty" json:"doctorSpecialization,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID string `json:"patientId" binding:"required"`
	DoctorID  string `json:"doctorId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Status    string `json:"status" binding:"omitempty,oneof=scheduled completed cancelled no-show"`
	Notes     string `json:"notes" binding:"omitempty,max=1000"`
}

type UpdateAppointmentRequest struct {
	Date   *string `json:"date"`
	Time   *string `json:"time"`
	Status *string `json:"status" binding:"omitempty,oneof=scheduled completed cancelled no-show"`
	Notes  *string `json:"notes" binding:"omitempty,max=1000"`
}

// AppointmentFilters narrow list queries; zero values are ignored.
type AppointmentFilters struct {
	DoctorID  *primitive.ObjectID
	PatientID *primitive.ObjectID
	Status    AppointmentStatus
	From      *time.Time
	To        *time.Time
}
