package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for input, want := range map[string]Role{
		"admin":          RoleAdmin,
		"Doctor":         RoleDoctor,
		"NURSE":          RoleNurse,
		" receptionist ": RoleReceptionist,
	} {
		got, err := ParseRole(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRoleIn(t *testing.T) {
	assert.True(t, RoleDoctor.In(RoleAdmin, RoleDoctor))
	assert.False(t, RoleNurse.In(RoleAdmin, RoleDoctor))
	assert.False(t, RoleNurse.In())
}

func TestCanViewClinicalDetail(t *testing.T) {
	assert.True(t, RoleDoctor.CanViewClinicalDetail())
	assert.True(t, RoleNurse.CanViewClinicalDetail())
	assert.False(t, RoleAdmin.CanViewClinicalDetail())
	assert.False(t, RoleReceptionist.CanViewClinicalDetail())
}
