package patient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	mongorepo "github.com/Bhadra-Indranil/HealthCare-System/internal/repository/mongo"
	apperrors "github.com/Bhadra-Indranil/HealthCare-System/pkg/errors"
)

type patientRepoMock struct {
	createFn         func(ctx context.Context, patient *model.Patient) error
	getFn            func(ctx context.Context, id primitive.ObjectID) (*model.Patient, error)
	getByCodeFn      func(ctx context.Context, code string) (*model.Patient, error)
	searchFn         func(ctx context.Context, filters *model.SearchFilters, page *model.Pagination) (*model.SearchResult, error)
	updateFn         func(ctx context.Context, id primitive.ObjectID, set map[string]interface{}, audit model.AccessLogEntry) error
	appendSubEntryFn func(ctx context.Context, id primitive.ObjectID, field string, entry interface{}, audit model.AccessLogEntry) error
	deactivateFn     func(ctx context.Context, id primitive.ObjectID, audit model.AccessLogEntry) error
	logAccessFn      func(ctx context.Context, id primitive.ObjectID, audit model.AccessLogEntry) error
	getAccessLogFn   func(ctx context.Context, id primitive.ObjectID, page *model.Pagination) (*model.AuditLogPage, error)
}

func (m *patientRepoMock) Create(ctx context.Context, patient *model.Patient) error {
	return m.createFn(ctx, patient)
}

func (m *patientRepoMock) Get(ctx context.Context, id primitive.ObjectID) (*model.Patient, error) {
	return m.getFn(ctx, id)
}

func (m *patientRepoMock) GetByCode(ctx context.Context, code string) (*model.Patient, error) {
	return m.getByCodeFn(ctx, code)
}

func (m *patientRepoMock) Search(ctx context.Context, filters *model.SearchFilters, page *model.Pagination) (*model.SearchResult, error) {
	return m.searchFn(ctx, filters, page)
}

func (m *patientRepoMock) UpdatePersonalInfo(ctx context.Context, id primitive.ObjectID, set map[string]interface{}, audit model.AccessLogEntry) error {
	return m.updateFn(ctx, id, set, audit)
}

func (m *patientRepoMock) AppendSubEntry(ctx context.Context, id primitive.ObjectID, field string, entry interface{}, audit model.AccessLogEntry) error {
	return m.appendSubEntryFn(ctx, id, field, entry, audit)
}

func (m *patientRepoMock) Deactivate(ctx context.Context, id primitive.ObjectID, audit model.AccessLogEntry) error {
	return m.deactivateFn(ctx, id, audit)
}

func (m *patientRepoMock) LogAccess(ctx context.Context, id primitive.ObjectID, audit model.AccessLogEntry) error {
	if m.logAccessFn != nil {
		return m.logAccessFn(ctx, id, audit)
	}
	return nil
}

func (m *patientRepoMock) GetAccessLog(ctx context.Context, id primitive.ObjectID, page *model.Pagination) (*model.AuditLogPage, error) {
	return m.getAccessLogFn(ctx, id, page)
}

func testActor() *model.Account {
	return &model.Account{
		ID:    primitive.NewObjectID(),
		Name:  "Lisa Cuddy",
		Email: "cuddy@hospital.org",
		Role:  model.RoleAdmin,
	}
}

func validCreate() *model.CreatePatientRequest {
	return &model.CreatePatientRequest{
		PatientID:   "PAT000123",
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: "1990-04-15",
		Gender:      "Female",
		Phone:       "+1 555-123-4567",
		Email:       "jane@example.com",
	}
}

func TestCreateStampsInitialAuditEntry(t *testing.T) {
	actor := testActor()
	var created *model.Patient
	repo := &patientRepoMock{
		createFn: func(ctx context.Context, patient *model.Patient) error {
			patient.ID = primitive.NewObjectID()
			created = patient
			return nil
		},
	}
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), actor, validCreate())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "PAT000123", p.PersonalInfo.PatientID)
	assert.Equal(t, "Jane Doe", p.PersonalInfo.Name)
	assert.True(t, p.IsActive)
	assert.Equal(t, actor.ID, p.Audit.CreatedBy)

	require.Len(t, p.Audit.AccessLog, 1)
	entry := p.Audit.AccessLog[0]
	assert.Equal(t, model.AccessCreate, entry.Action)
	assert.Equal(t, actor.ID, entry.User)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestCreateDuplicateCodeConflicts(t *testing.T) {
	repo := &patientRepoMock{
		createFn: func(ctx context.Context, patient *model.Patient) error {
			return mongorepo.ErrDuplicate
		},
	}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), testActor(), validCreate())
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCreateRejectsFutureBirthDate(t *testing.T) {
	svc := NewService(&patientRepoMock{})

	req := validCreate()
	req.DateOfBirth = "2999-01-01"
	_, err := svc.Create(context.Background(), testActor(), req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestGetAppendsViewEntry(t *testing.T) {
	actor := testActor()
	id := primitive.NewObjectID()
	var logged []model.AccessLogEntry
	repo := &patientRepoMock{
		getFn: func(ctx context.Context, pid primitive.ObjectID) (*model.Patient, error) {
			return &model.Patient{ID: pid}, nil
		},
		logAccessFn: func(ctx context.Context, pid primitive.ObjectID, audit model.AccessLogEntry) error {
			logged = append(logged, audit)
			return nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Get(context.Background(), actor, id)
	require.NoError(t, err)

	require.Len(t, logged, 1)
	assert.Equal(t, model.AccessView, logged[0].Action)
	assert.Equal(t, actor.ID, logged[0].User)
}

func TestGetNotFound(t *testing.T) {
	repo := &patientRepoMock{
		getFn: func(ctx context.Context, id primitive.ObjectID) (*model.Patient, error) {
			return nil, mongorepo.ErrNotFound
		},
	}
	svc := NewService(repo)

	_, err := svc.Get(context.Background(), testActor(), primitive.NewObjectID())
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestAddPrescriptionForcesActiveStatus(t *testing.T) {
	actor := testActor()
	var gotField string
	var gotEntry interface{}
	var gotAudit model.AccessLogEntry
	repo := &patientRepoMock{
		appendSubEntryFn: func(ctx context.Context, id primitive.ObjectID, field string, entry interface{}, audit model.AccessLogEntry) error {
			gotField, gotEntry, gotAudit = field, entry, audit
			return nil
		},
	}
	svc := NewService(repo)

	entry := &model.Prescription{Medication: "Lisinopril", Status: "Completed"}
	err := svc.AddPrescription(context.Background(), actor, primitive.NewObjectID(), entry)
	require.NoError(t, err)

	assert.Equal(t, "prescriptions", gotField)
	assert.Equal(t, "Active", gotEntry.(*model.Prescription).Status)
	assert.Equal(t, actor.ID, gotEntry.(*model.Prescription).PrescribedBy)
	assert.Equal(t, model.AccessUpdate, gotAudit.Action)
}

func TestAddLabReportStartsPending(t *testing.T) {
	var gotEntry interface{}
	repo := &patientRepoMock{
		appendSubEntryFn: func(ctx context.Context, id primitive.ObjectID, field string, entry interface{}, audit model.AccessLogEntry) error {
			gotEntry = entry
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.AddLabReport(context.Background(), testActor(), primitive.NewObjectID(), &model.LabReport{TestName: "CBC"})
	require.NoError(t, err)
	assert.Equal(t, "Pending", gotEntry.(*model.LabReport).Status)
}

func TestDeactivateRecordsDeleteAction(t *testing.T) {
	var gotAudit model.AccessLogEntry
	repo := &patientRepoMock{
		deactivateFn: func(ctx context.Context, id primitive.ObjectID, audit model.AccessLogEntry) error {
			gotAudit = audit
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.Deactivate(context.Background(), testActor(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, model.AccessDelete, gotAudit.Action)
}

func TestExportRecordsExportAction(t *testing.T) {
	var logged []model.AccessLogEntry
	repo := &patientRepoMock{
		getFn: func(ctx context.Context, id primitive.ObjectID) (*model.Patient, error) {
			return &model.Patient{ID: id}, nil
		},
		logAccessFn: func(ctx context.Context, id primitive.ObjectID, audit model.AccessLogEntry) error {
			logged = append(logged, audit)
			return nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Export(context.Background(), testActor(), primitive.NewObjectID())
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, model.AccessExport, logged[0].Action)
}

func TestUpdateRequiresAtLeastOneField(t *testing.T) {
	svc := NewService(&patientRepoMock{})

	_, err := svc.Update(context.Background(), testActor(), primitive.NewObjectID(), &model.UpdatePatientRequest{})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestAuditLogIncludesProvenance(t *testing.T) {
	created := time.Now().UTC().Add(-48 * time.Hour)
	var logged []model.AccessLogEntry
	repo := &patientRepoMock{
		getAccessLogFn: func(ctx context.Context, id primitive.ObjectID, page *model.Pagination) (*model.AuditLogPage, error) {
			return &model.AuditLogPage{
				CreatedAt: created,
				Total:     3,
				Entries:   []model.AccessLogEntry{{Action: model.AccessCreate}},
			}, nil
		},
		logAccessFn: func(ctx context.Context, id primitive.ObjectID, audit model.AccessLogEntry) error {
			logged = append(logged, audit)
			return nil
		},
	}
	svc := NewService(repo)

	page, err := svc.AccessLog(context.Background(), testActor(), primitive.NewObjectID(), nil)
	require.NoError(t, err)
	assert.Equal(t, created, page.CreatedAt)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, logged, 1)
	assert.Equal(t, model.AccessView, logged[0].Action)
}

func storedPatient() *model.Patient {
	return &model.Patient{
		ID: primitive.NewObjectID(),
		PersonalInfo: model.PersonalInfo{
			PatientID: "PAT000123",
			Name:      "Jane Doe",
			Gender:    "Female",
		},
		MedicalHistory: []model.MedicalHistoryEntry{{Condition: "Hypertension"}},
		IsActive:       true,
	}
}

func TestUpdateFirstNameOnlyProducesTrimmedName(t *testing.T) {
	stored := storedPatient()
	stored.PersonalInfo.Name = "Cher"
	var captured map[string]interface{}
	repo := &patientRepoMock{
		getFn: func(ctx context.Context, id primitive.ObjectID) (*model.Patient, error) {
			return stored, nil
		},
		updateFn: func(ctx context.Context, id primitive.ObjectID, set map[string]interface{}, audit model.AccessLogEntry) error {
			captured = set
			return nil
		},
	}
	svc := NewService(repo)

	first := "Janet"
	_, err := svc.Update(context.Background(), testActor(), primitive.NewObjectID(), &model.UpdatePatientRequest{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Janet", captured["personalInfo.name"])
}

func TestGetByCodeIsIdempotent(t *testing.T) {
	stored := storedPatient()
	repo := &patientRepoMock{
		getByCodeFn: func(ctx context.Context, code string) (*model.Patient, error) {
			rec := *stored
			return &rec, nil
		},
	}
	svc := NewService(repo)
	actor := testActor()

	first, err := svc.GetByCode(context.Background(), actor, "PAT000123")
	require.NoError(t, err)
	second, err := svc.GetByCode(context.Background(), actor, "PAT000123")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearchIsIdempotent(t *testing.T) {
	stored := storedPatient()
	repo := &patientRepoMock{
		searchFn: func(ctx context.Context, filters *model.SearchFilters, page *model.Pagination) (*model.SearchResult, error) {
			rec := *stored
			return &model.SearchResult{
				Patients:   []*model.Patient{&rec},
				Pagination: model.PaginationMeta{Total: 1, Page: 1, Limit: 10, Pages: 1},
			}, nil
		},
	}
	svc := NewService(repo)
	filters := &model.SearchFilters{Name: "Jane"}
	page := &model.Pagination{Page: 1, Limit: 10}

	first, err := svc.Search(context.Background(), filters, page)
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), filters, page)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
