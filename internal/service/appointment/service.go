package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/repository"
	mongorepo "github.com/Bhadra-Indranil/HealthCare-System/internal/repository/mongo"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/service/notification"
	apperrors "github.com/Bhadra-Indranil/HealthCare-System/pkg/errors"
)

type AppointmentService interface {
	Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.AppointmentDetail, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.AppointmentDetail, error)
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error)
	Update(ctx context.Context, id primitive.ObjectID, req *model.UpdateAppointmentRequest) (*model.AppointmentDetail, error)
	Cancel(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	accountRepo repository.AccountRepository
	notifier    notification.Notifier
}

func NewService(repo repository.AppointmentRepository, patientRepo repository.PatientRepository, accountRepo repository.AccountRepository, notifier notification.Notifier) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		accountRepo: accountRepo,
		notifier:    notifier,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.AppointmentDetail, error) {
	patientID, err := primitive.ObjectIDFromHex(req.PatientID)
	if err != nil {
		return nil, apperrors.Validation("Invalid patient ID")
	}
	doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
	if err != nil {
		return nil, apperrors.Validation("Invalid doctor ID")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.Validation("Validation failed", apperrors.FieldError{
			Field:   "date",
			Message: "must be a valid date in YYYY-MM-DD format",
		})
	}

	patient, err := s.patientRepo.Get(ctx, patientID)
	if err != nil {
		if errors.Is(err, mongorepo.ErrNotFound) {
			return nil, apperrors.NotFound("Patient")
		}
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}
	doctor, err := s.accountRepo.Get(ctx, doctorID)
	if err != nil {
		if errors.Is(err, mongorepo.ErrNotFound) {
			return nil, apperrors.NotFound("Doctor")
		}
		return nil, fmt.Errorf("failed to look up doctor: %w", err)
	}
	if doctor.Role != model.RoleDoctor {
		return nil, apperrors.NotFound("Doctor")
	}

	status := model.AppointmentStatusScheduled
	if req.Status != "" {
		status = model.AppointmentStatus(req.Status)
	}
	appointment := &model.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      req.Time,
		Status:    status,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	if email := patient.PersonalInfo.Contact.Email; email != "" {
		go func() {
			if err := s.notifier.SendAppointmentConfirmation(email, patient.PersonalInfo.Name, doctor.Name, req.Date, req.Time); err != nil {
				log.Error().Err(err).Str("appointment", appointment.ID.Hex()).Msg("failed to send confirmation email")
			}
		}()
	}

	return &model.AppointmentDetail{
		Appointment:          *appointment,
		PatientName:          patient.PersonalInfo.Name,
		DoctorName:           doctor.Name,
		DoctorSpecialization: doctor.Specialization,
	}, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*model.AppointmentDetail, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, mongorepo.ErrNotFound) {
			return nil, apperrors.NotFound("Appointment")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) Update(ctx context.Context, id primitive.ObjectID, req *model.UpdateAppointmentRequest) (*model.AppointmentDetail, error) {
	set := map[string]interface{}{}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, apperrors.Validation("Validation failed", apperrors.FieldError{
				Field:   "date",
				Message: "must be a valid date in YYYY-MM-DD format",
			})
		}
		set["date"] = date
	}
	if req.Time != nil {
		set["time"] = *req.Time
	}
	if req.Status != nil {
		set["status"] = model.AppointmentStatus(*req.Status)
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}
	if len(set) == 0 {
		return nil, apperrors.Validation("No fields to update")
	}

	if err := s.repo.Update(ctx, id, set); err != nil {
		if errors.Is(err, mongorepo.ErrNotFound) {
			return nil, apperrors.NotFound("Appointment")
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return s.Get(ctx, id)
}

// Cancel marks the appointment cancelled; the row is kept for the
// scheduling history.
func (s *Service) Cancel(ctx context.Context, id primitive.ObjectID) error {
	err := s.repo.Update(ctx, id, map[string]interface{}{"status": model.AppointmentStatusCancelled})
	if errors.Is(err, mongorepo.ErrNotFound) {
		return apperrors.NotFound("Appointment")
	}
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, mongorepo.ErrNotFound) {
		return apperrors.NotFound("Appointment")
	}
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}
