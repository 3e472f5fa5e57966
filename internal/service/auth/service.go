package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/model"
	"github.com/Bhadra-Indranil/HealthCare-System/internal/repository"
	mongorepo "github.com/Bhadra-Indranil/HealthCare-System/internal/repository/mongo"
	"github.com/Bhadra-Indranil/HealthCare-System/pkg/auth"
	apperrors "github.com/Bhadra-Indranil/HealthCare-System/pkg/errors"
	"github.com/Bhadra-Indranil/HealthCare-System/pkg/security"
)

const (
	doctorsCacheKey = "doctors"
	doctorsCacheTTL = 5 * time.Minute
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	Verify(ctx context.Context, token string) (*model.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetProfile(ctx context.Context, id primitive.ObjectID) (*model.Account, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req *model.UpdateProfileRequest) (*model.Account, error)
	ListDoctors(ctx context.Context) ([]*model.DoctorRef, error)
	ListAccounts(ctx context.Context) ([]*model.Account, error)
	UpdateAccount(ctx context.Context, id primitive.ObjectID, req *model.UpdateAccountRequest) (*model.Account, error)
	DeactivateAccount(ctx context.Context, id primitive.ObjectID) error
}

type Service struct {
	repo   repository.AccountRepository
	hasher security.PasswordHasher
	tokens auth.TokenService
	cache  *gocache.Cache
}

func NewService(repo repository.AccountRepository, hasher security.PasswordHasher, tokens auth.TokenService) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		cache:  gocache.New(doctorsCacheTTL, 10*time.Minute),
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, apperrors.Validation("Validation failed", apperrors.FieldError{
			Field:   "role",
			Message: "Role must be one of: admin, doctor, nurse, receptionist",
		})
	}
	if fieldErrs := roleFieldErrors(role, req); len(fieldErrs) > 0 {
		return nil, apperrors.Validation("Validation failed", fieldErrs...)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.Account{
		Name:           req.FirstName + " " + req.LastName,
		Email:          req.Email,
		PasswordHash:   hash,
		Role:           role,
		Department:     req.Department,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, mongorepo.ErrDuplicate) {
			return nil, apperrors.Conflict("Email already registered")
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if role == model.RoleDoctor {
		s.cache.Delete(doctorsCacheKey)
	}

	token, err := s.tokens.Generate(account.ID.Hex(), account.Email, string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info().Str("email", account.Email).Str("role", string(account.Role)).Msg("account registered")
	return &model.AuthResponse{Token: token, User: account.Public()}, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	account, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongorepo.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := s.hasher.Compare(account.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	if !account.IsActive {
		return nil, apperrors.Forbidden("Account is deactivated")
	}

	now := time.Now().UTC()
	if err := s.repo.RecordLogin(ctx, account.ID, now); err != nil {
		log.Error().Err(err).Str("email", account.Email).Msg("failed to record login time")
	}
	account.LastLogin = &now

	token, err := s.tokens.Generate(account.ID.Hex(), account.Email, string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.AuthResponse{Token: token, User: account.Public()}, nil
}

// Verify validates the token signature and expiry, then re-checks the
// account so deactivation takes effect on the very next request.
func (s *Service) Verify(ctx context.Context, token string) (*model.Account, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperrors.Unauthorized("Token expired")
		}
		return nil, apperrors.Unauthorized("Invalid token")
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid token")
	}

	account, err := s.repo.Get(ctx, id)
	if err != nil || !account.IsActive {
		return nil, apperrors.Unauthorized("Invalid or inactive user")
	}
	return account, nil
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (s *Service) GetProfile(ctx context.Context, id primitive.ObjectID) (*model.Account, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, mongorepo.ErrNotFound) {
			return nil, apperrors.NotFound("Account not found")
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *model.UpdateProfileRequest) (*model.Account, error) {
	account, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Department != nil {
		account.Department = *req.Department
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		account.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// ListDoctors serves the doctor directory from a short-lived cache;
// account changes that affect the directory invalidate it.
func (s *Service) ListDoctors(ctx context.Context) ([]*model.DoctorRef, error) {
	if cached, ok := s.cache.Get(doctorsCacheKey); ok {
		return cached.([]*model.DoctorRef), nil
	}

	doctors, err := s.repo.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	s.cache.Set(doctorsCacheKey, doctors, doctorsCacheTTL)
	return doctors, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *Service) UpdateAccount(ctx context.Context, id primitive.ObjectID, req *model.UpdateAccountRequest) (*model.Account, error) {
	account, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		role, err := model.ParseRole(*req.Role)
		if err != nil {
			return nil, apperrors.Validation("Invalid role")
		}
		account.Role = role
	}
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Department != nil {
		account.Department = *req.Department
	}
	if req.Specialization != nil {
		account.Specialization = *req.Specialization
	}
	if req.LicenseNumber != nil {
		account.LicenseNumber = *req.LicenseNumber
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	s.cache.Delete(doctorsCacheKey)
	return account, nil
}

// DeactivateAccount bars the account from authenticating. Accounts are
// never physically removed.
func (s *Service) DeactivateAccount(ctx context.Context, id primitive.ObjectID) error {
	account, err := s.GetProfile(ctx, id)
	if err != nil {
		return err
	}
	account.IsActive = false
	if err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	s.cache.Delete(doctorsCacheKey)
	return nil
}

// roleFieldErrors enforces the role-conditional registration fields.
func roleFieldErrors(role model.Role, req *model.RegisterRequest) []apperrors.FieldError {
	var out []apperrors.FieldError
	switch role {
	case model.RoleDoctor:
		if req.Specialization == "" {
			out = append(out, apperrors.FieldError{Field: "specialization", Message: "Specialization is required for doctors"})
		}
		if req.LicenseNumber == "" {
			out = append(out, apperrors.FieldError{Field: "licenseNumber", Message: "License number is required for doctors"})
		}
	case model.RoleNurse:
		if req.LicenseNumber == "" {
			out = append(out, apperrors.FieldError{Field: "licenseNumber", Message: "License number is required for nurses"})
		}
	}
	return out
}
