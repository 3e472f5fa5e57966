package patient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/pkg/validator"
)

type patientServiceMock struct {
	createFn    func(ctx context.Context, actor *model.Account, req *model.CreatePatientRequest) (*model.Patient, error)
	getFn       func(ctx context.Context, actor *model.Account, id primitive.ObjectID) (*model.Patient, error)
	getByCodeFn func(ctx context.Context, actor *model.Account, code string) (*model.Patient, error)
}

func (m *patientServiceMock) Create(ctx context.Context, actor *model.Account, req *model.CreatePatientRequest) (*model.Patient, error) {
	return m.createFn(ctx, actor, req)
}

func (m *patientServiceMock) Get(ctx context.Context, actor *model.Account, id primitive.ObjectID) (*model.Patient, error) {
	return m.getFn(ctx, actor, id)
}

func (m *patientServiceMock) GetByCode(ctx context.Context, actor *model.Account, code string) (*model.Patient, error) {
	return m.getByCodeFn(ctx, actor, code)
}

func (m *patientServiceMock) Search(ctx context.Context, filters *model.SearchFilters, page *model.Pagination) (*model.SearchResult, error) {
	return &model.SearchResult{}, nil
}

func (m *patientServiceMock) Update(ctx context.Context, actor *model.Account, id primitive.ObjectID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	return nil, nil
}

func (m *patientServiceMock) Deactivate(ctx context.Context, actor *model.Account, id primitive.ObjectID) error {
	return nil
}

func (m *patientServiceMock) AddMedicalHistory(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.MedicalHistoryEntry) error {
	return nil
}

func (m *patientServiceMock) AddAllergy(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.Allergy) error {
	return nil
}

func (m *patientServiceMock) AddPrescription(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.Prescription) error {
	return nil
}

func (m *patientServiceMock) AddVisit(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.Visit) error {
	return nil
}

func (m *patientServiceMock) AddLabReport(ctx context.Context, actor *model.Account, id primitive.ObjectID, entry *model.LabReport) error {
	return nil
}

func (m *patientServiceMock) AccessLog(ctx context.Context, actor *model.Account, id primitive.ObjectID, page *model.Pagination) (*model.AuditLogPage, error) {
	return nil, nil
}

func (m *patientServiceMock) Export(ctx context.Context, actor *model.Account, id primitive.ObjectID) (*model.Patient, error) {
	return nil, nil
}

func asRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("account", &model.Account{
			ID:       primitive.NewObjectID(),
			Role:     role,
			IsActive: true,
		})
		c.Next()
	}
}

func setupRouter(t *testing.T, svc *patientServiceMock, role model.Role) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.Register())

	r := gin.New()
	h := NewHandler(svc)

	group := r.Group("/", asRole(role))
	group.GET("/patients/:id", h.Get)
	group.POST("/patients", h.Create)
	return r
}

func storedPatient() *model.Patient {
	return &model.Patient{
		ID: primitive.NewObjectID(),
		PersonalInfo: model.PersonalInfo{
			PatientID: "PAT000123",
			Name:      "Jane Doe",
		},
		MedicalHistory: []model.MedicalHistoryEntry{{Condition: "Hypertension"}},
		Allergies:      []model.Allergy{{Allergen: "Penicillin"}},
		IsActive:       true,
	}
}

func TestGetReturnsCountsForReceptionist(t *testing.T) {
	svc := &patientServiceMock{
		getFn: func(ctx context.Context, actor *model.Account, id primitive.ObjectID) (*model.Patient, error) {
			return storedPatient(), nil
		},
	}
	r := setupRouter(t, svc, model.RoleReceptionist)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/"+primitive.NewObjectID().Hex(), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.Data["medicalHistoryCount"])
	assert.EqualValues(t, 1, resp.Data["allergyCount"])
	assert.NotContains(t, resp.Data, "medicalHistory")
	assert.NotContains(t, resp.Data, "allergies")
}

func TestGetReturnsFullRecordForDoctor(t *testing.T) {
	svc := &patientServiceMock{
		getFn: func(ctx context.Context, actor *model.Account, id primitive.ObjectID) (*model.Patient, error) {
			return storedPatient(), nil
		},
	}
	r := setupRouter(t, svc, model.RoleDoctor)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/"+primitive.NewObjectID().Hex(), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hypertension")
	assert.Contains(t, w.Body.String(), "Penicillin")
}

func TestGetRejectsMalformedID(t *testing.T) {
	r := setupRouter(t, &patientServiceMock{}, model.RoleDoctor)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/not-an-id", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRejectsBadPatientCode(t *testing.T) {
	r := setupRouter(t, &patientServiceMock{}, model.RoleReceptionist)

	body, _ := json.Marshal(map[string]string{
		"patientId":   "PAT12345",
		"firstName":   "Jane",
		"lastName":    "Doe",
		"dateOfBirth": "1990-04-15",
		"gender":      "Female",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/patients", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string `json:"error"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	require.NotEmpty(t, resp.Details)
	assert.Equal(t, "patientId", resp.Details[0].Field)
}

func TestAuditLogRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&patientServiceMock{})
	h.RegisterRoutes(r.Group("/", asRole(model.RoleAdmin)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/"+primitive.NewObjectID().Hex()+"/audit-log", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
