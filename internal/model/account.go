package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is a staff login identity. Accounts are never physically deleted;
// deactivation clears IsActive, which bars authentication from then on.
type Account struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"password" json:"-"`
	Role           Role               `bson:"role" json:"role"`
	Department     string             `bson:"department" json:"department"`
	Specialization string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
	LicenseNumber  string             `bson:"licenseNumber,omitempty" json:"licenseNumber,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	LastLogin      *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
}

// PublicAccount is the account shape returned to clients after
// registration or login. The credential hash never leaves the server.
type PublicAccount struct {
	ID             primitive.ObjectID `json:"_id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Role           Role               `json:"role"`
	Department     string             `json:"department"`
	Specialization string             `json:"specialization,omitempty"`
}

// Public projects the account into its client-facing shape.
func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		Role:           a.Role,
		Department:     a.Department,
		Specialization: a.Specialization,
	}
}

// DoctorRef is the minimal doctor-directory entry exposed to scheduling
// roles.
type DoctorRef struct {
	ID             primitive.ObjectID `bson:"_id" json:"_id"`
	Name           string             `bson:"name" json:"name"`
	Specialization string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
}

type RegisterRequest struct {
	FirstName      string `json:"firstName" binding:"required,personname"`
	LastName       string `json:"lastName" binding:"required,personname"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,staffpassword"`
	Role           string `json:"role" binding:"required"`
	Department     string `json:"department" binding:"omitempty,min=2,max=50"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"licenseNumber" binding:"omitempty,licenseno"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the self-service profile fields. Role and
// active status are admin-only and travel in UpdateAccountRequest.
type UpdateProfileRequest struct {
	Name       *string `json:"name" binding:"omitempty,personname"`
	Password   *string `json:"password" binding:"omitempty,staffpassword"`
	Department *string `json:"department" binding:"omitempty,min=2,max=50"`
}

type UpdateAccountRequest struct {
	Name           *string `json:"name"`
	Role           *string `json:"role"`
	Department     *string `json:"department"`
	Specialization *string `json:"specialization"`
	LicenseNumber  *string `json:"licenseNumber"`
	IsActive       *bool   `json:"isActive"`
}

// AuthResponse is returned by register and login: a signed session token
// plus the public account fields.
type AuthResponse struct {
	Token string         `json:"token"`
	User  *PublicAccount `json:"user"`
}
