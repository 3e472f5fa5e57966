package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	mongorepo "github.com/Bhadra-Indranil/HealthCare-System/internal/repository/mongo"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/service/notification"
	apperrors "github.com/Bhadra-Indranil/HealthCare-System/pkg/errors"
)

type appointmentRepoMock struct {
	createFn func(ctx context.Context, appointment *model.Appointment) error
}

func (m *appointmentRepoMock) Create(ctx context.Context, appointment *model.Appointment) error {
	if m.createFn != nil {
		return m.createFn(ctx, appointment)
	}
	return nil
}

func (m *appointmentRepoMock) Get(ctx context.Context, id primitive.ObjectID) (*model.AppointmentDetail, error) {
	return nil, nil
}

func (m *appointmentRepoMock) Update(ctx context.Context, id primitive.ObjectID, set map[string]interface{}) error {
	return nil
}

func (m *appointmentRepoMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

func (m *appointmentRepoMock) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	return nil, nil
}

type patientLookupMock struct {
	getFn func(ctx context.Context, id primitive.ObjectID) (*model.Patient, error)
}

func (m *patientLookupMock) Create(ctx context.Context, patient *model.Patient) error { return nil }

func (m *patientLookupMock) Get(ctx context.Context, id primitive.ObjectID) (*model.Patient, error) {
	return m.getFn(ctx, id)
}

func (m *patientLookupMock) GetByCode(ctx context.Context, patientCode string) (*model.Patient, error) {
	return nil, nil
}

func (m *patientLookupMock) Search(ctx context.Context, filters *model.SearchFilters, page *model.Pagination) (*model.SearchResult, error) {
	return nil, nil
}

func (m *patientLookupMock) UpdatePersonalInfo(ctx context.Context, id primitive.ObjectID, set map[string]interface{}, audit model.AccessLogEntry) error {
	return nil
}

func (m *patientLookupMock) AppendSubEntry(ctx context.Context, id primitive.ObjectID, field string, entry interface{}, audit model.AccessLogEntry) error {
	return nil
}

func (m *patientLookupMock) Deactivate(ctx context.Context, id primitive.ObjectID, audit model.AccessLogEntry) error {
	return nil
}

func (m *patientLookupMock) LogAccess(ctx context.Context, id primitive.ObjectID, audit model.AccessLogEntry) error {
	return nil
}

func (m *patientLookupMock) GetAccessLog(ctx context.Context, id primitive.ObjectID, page *model.Pagination) (*model.AuditLogPage, error) {
	return nil, nil
}

type accountLookupMock struct {
	getFn func(ctx context.Context, id primitive.ObjectID) (*model.Account, error)
}

func (m *accountLookupMock) Create(ctx context.Context, account *model.Account) error { return nil }

func (m *accountLookupMock) Get(ctx context.Context, id primitive.ObjectID) (*model.Account, error) {
	return m.getFn(ctx, id)
}

func (m *accountLookupMock) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return nil, nil
}

func (m *accountLookupMock) EmailExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (m *accountLookupMock) Update(ctx context.Context, account *model.Account) error { return nil }

func (m *accountLookupMock) List(ctx context.Context) ([]*model.Account, error) { return nil, nil }

func (m *accountLookupMock) ListDoctors(ctx context.Context) ([]*model.DoctorRef, error) {
	return nil, nil
}

func (m *accountLookupMock) RecordLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return nil
}

func schedulingService(patients *patientLookupMock, accounts *accountLookupMock) *Service {
	return NewService(
		&appointmentRepoMock{},
		patients,
		accounts,
		notification.NewEmailNotifier(notification.Config{}),
	)
}

func admittedPatient() *model.Patient {
	return &model.Patient{
		ID: primitive.NewObjectID(),
		PersonalInfo: model.PersonalInfo{
			PatientID: "PAT000123",
			Name:      "Jane Doe",
		},
		IsActive: true,
	}
}

func scheduleRequest(patientID, doctorID primitive.ObjectID) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		PatientID: patientID.Hex(),
		DoctorID:  doctorID.Hex(),
		Date:      "2026-09-01",
		Time:      "10:30",
	}
}

func TestCreateUnknownDoctorIsNotFound(t *testing.T) {
	patients := &patientLookupMock{
		getFn: func(ctx context.Context, id primitive.ObjectID) (*model.Patient, error) {
			return admittedPatient(), nil
		},
	}
	accounts := &accountLookupMock{
		getFn: func(ctx context.Context, id primitive.ObjectID) (*model.Account, error) {
			return nil, mongorepo.ErrNotFound
		},
	}
	svc := schedulingService(patients, accounts)

	_, err := svc.Create(context.Background(), scheduleRequest(primitive.NewObjectID(), primitive.NewObjectID()))
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCreateDoctorLookupFailureIsNotNotFound(t *testing.T) {
	patients := &patientLookupMock{
		getFn: func(ctx context.Context, id primitive.ObjectID) (*model.Patient, error) {
			return admittedPatient(), nil
		},
	}
	accounts := &accountLookupMock{
		getFn: func(ctx context.Context, id primitive.ObjectID) (*model.Account, error) {
			return nil, assert.AnError
		},
	}
	svc := schedulingService(patients, accounts)

	_, err := svc.Create(context.Background(), scheduleRequest(primitive.NewObjectID(), primitive.NewObjectID()))
	require.Error(t, err)
	assert.False(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCreateNonDoctorAccountIsNotFound(t *testing.T) {
	patients := &patientLookupMock{
		getFn: func(ctx context.Context, id primitive.ObjectID) (*model.Patient, error) {
			return admittedPatient(), nil
		},
	}
	accounts := &accountLookupMock{
		getFn: func(ctx context.Context, id primitive.ObjectID) (*model.Account, error) {
			return &model.Account{ID: id, Role: model.RoleNurse, IsActive: true}, nil
		},
	}
	svc := schedulingService(patients, accounts)

	_, err := svc.Create(context.Background(), scheduleRequest(primitive.NewObjectID(), primitive.NewObjectID()))
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
