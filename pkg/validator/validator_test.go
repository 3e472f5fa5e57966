package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engine(t *testing.T) *playground.Validate {
	t.Helper()
	require.NoError(t, Register())
	v, ok := binding.Validator.Engine().(*playground.Validate)
	require.True(t, ok)
	return v
}

func TestPatientCode(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"PAT000000", true},
		{"ABC123456", true},
		{"PAT12345", false},
		{"PAT1234567", false},
		{"pat000001", false},
		{"PA0000001", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidPatientCode(tt.code), tt.code)
	}
}

func TestStaffPassword(t *testing.T) {
	v := engine(t)

	assert.NoError(t, v.Var("Str0ng!Pass", "staffpassword"))

	for _, weak := range []string{
		"alllowercase1!",
		"ALLUPPERCASE1!",
		"NoDigits!!",
		"NoSpecial123",
		"Sh0rt!.",
	} {
		assert.Error(t, v.Var(weak, "staffpassword"), weak)
	}
}

func TestPersonName(t *testing.T) {
	v := engine(t)

	assert.NoError(t, v.Var("Mary-Jane O'Neill", "personname"))
	assert.Error(t, v.Var("X", "personname"))
	assert.Error(t, v.Var("Robert; DROP TABLE", "personname"))
}

func TestPhoneNumber(t *testing.T) {
	v := engine(t)

	assert.NoError(t, v.Var("+1 555-123-4567", "phonenumber"))
	assert.Error(t, v.Var("12345", "phonenumber"))
	assert.Error(t, v.Var("call me maybe", "phonenumber"))
}

func TestLicenseNumber(t *testing.T) {
	v := engine(t)

	assert.NoError(t, v.Var("MD-12345", "licenseno"))
	assert.Error(t, v.Var("md 12345", "licenseno"))
}

func TestFieldErrorsFromNonValidatorError(t *testing.T) {
	errs := FieldErrors(assert.AnError)
	require.Len(t, errs, 1)
	assert.Equal(t, "body", errs[0].Field)
}
