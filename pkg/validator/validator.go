package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Bhadra-Indranil/HealthCare-System/pkg/errors"
)

var (
	patientCodeRe = regexp.MustCompile(`^[A-Z]{3}[0-9]{6}$`)
	personNameRe  = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
	phoneRe       = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
	licenseRe     = regexp.MustCompile(`^[A-Z0-9-]+$`)
)

// Register installs the domain validators on gin's binding engine. Call
// once at startup.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	for tag, fn := range map[string]validator.Func{
		"patientcode":   validPatientCode,
		"personname":    validPersonName,
		"staffpassword": validStaffPassword,
		"phonenumber":   validPhoneNumber,
		"licenseno":     validLicenseNumber,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// ValidPatientCode reports whether s matches the three-letter,
// six-digit patient code pattern. Lowercase codes are rejected.
func ValidPatientCode(s string) bool {
	return patientCodeRe.MatchString(s)
}

func validPatientCode(fl validator.FieldLevel) bool {
	return ValidPatientCode(fl.Field().String())
}

func validPersonName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return len(name) >= 2 && len(name) <= 50 && personNameRe.MatchString(name)
}

func validStaffPassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, c := range pw {
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune("!@#$%^&*", c):
			special = true
		}
	}
	return upper && lower && digit && special
}

func validPhoneNumber(fl validator.FieldLevel) bool {
	return phoneRe.MatchString(fl.Field().String())
}

func validLicenseNumber(fl validator.FieldLevel) bool {
	return licenseRe.MatchString(fl.Field().String())
}

var fieldMessages = map[string]string{
	"patientcode":   "Patient ID must be in format PAT000000",
	"personname":    "must contain only letters, spaces, hyphens, and apostrophes (2-50 characters)",
	"staffpassword": "must be at least 8 characters with uppercase, lowercase, number, and special character (!@#$%^&*)",
	"phonenumber":   "Invalid phone number format",
	"licenseno":     "can only contain uppercase letters, numbers, and hyphens",
	"email":         "Invalid email format",
	"required":      "is required",
	"oneof":         "has an invalid value",
	"min":           "is too short",
	"max":           "is too long",
}

// FieldErrors converts a binding error into structured field-level
// messages for the validation envelope. Non-validator errors collapse
// into a single generic entry.
func FieldErrors(err error) []errors.FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []errors.FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]errors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, found := fieldMessages[fe.Tag()]
		if !found {
			msg = "is invalid"
		}
		out = append(out, errors.FieldError{
			Field:   lowerFirst(fe.Field()),
			Message: msg,
		})
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
