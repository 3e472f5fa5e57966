package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	apperrors "github.com/Bhadra-Indranil/HealthCare-System/pkg/errors"
)

type authServiceMock struct {
	verifyFn func(ctx context.Context, token string) (*model.Account, error)
}

func (m *authServiceMock) Verify(ctx context.Context, token string) (*model.Account, error) {
	return m.verifyFn(ctx, token)
}

func (m *authServiceMock) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	return nil, nil
}

func (m *authServiceMock) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	return nil, nil
}

func (m *authServiceMock) EmailExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (m *authServiceMock) GetProfile(ctx context.Context, id primitive.ObjectID) (*model.Account, error) {
	return nil, nil
}

func (m *authServiceMock) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *model.UpdateProfileRequest) (*model.Account, error) {
	return nil, nil
}

func (m *authServiceMock) ListDoctors(ctx context.Context) ([]*model.DoctorRef, error) {
	return nil, nil
}

func (m *authServiceMock) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	return nil, nil
}

func (m *authServiceMock) UpdateAccount(ctx context.Context, id primitive.ObjectID, req *model.UpdateAccountRequest) (*model.Account, error) {
	return nil, nil
}

func (m *authServiceMock) DeactivateAccount(ctx context.Context, id primitive.ObjectID) error {
	return nil
}

func setupRouter(svc *authServiceMock, roles ...model.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	group := r.Group("/", Authenticate(svc))
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}
	group.GET("/resource", func(c *gin.Context) {
		account, _ := CurrentAccount(c)
		c.JSON(http.StatusOK, gin.H{"role": account.Role})
	})
	return r
}

func request(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingHeader(t *testing.T) {
	r := setupRouter(&authServiceMock{})

	w := request(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization token required")
}

func TestAuthenticateNonBearerHeader(t *testing.T) {
	r := setupRouter(&authServiceMock{})

	w := request(r, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	svc := &authServiceMock{
		verifyFn: func(ctx context.Context, token string) (*model.Account, error) {
			return nil, apperrors.Unauthorized("Token expired")
		},
	}
	r := setupRouter(svc)

	w := request(r, "Bearer some-old-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")
}

func TestAuthenticateSetsAccount(t *testing.T) {
	svc := &authServiceMock{
		verifyFn: func(ctx context.Context, token string) (*model.Account, error) {
			return &model.Account{Role: model.RoleNurse, IsActive: true}, nil
		},
	}
	r := setupRouter(svc)

	w := request(r, "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "nurse")
}

func TestRequireRolesDeniesOutsiders(t *testing.T) {
	svc := &authServiceMock{
		verifyFn: func(ctx context.Context, token string) (*model.Account, error) {
			return &model.Account{Role: model.RoleReceptionist, IsActive: true}, nil
		},
	}
	r := setupRouter(svc, model.RoleAdmin, model.RoleDoctor)

	w := request(r, "Bearer good-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
}

func TestRequireRolesAllowsMembers(t *testing.T) {
	svc := &authServiceMock{
		verifyFn: func(ctx context.Context, token string) (*model.Account, error) {
			return &model.Account{Role: model.RoleDoctor, IsActive: true}, nil
		},
	}
	r := setupRouter(svc, model.RoleAdmin, model.RoleDoctor)

	w := request(r, "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code)
}
