package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"siswa", RoleSiswa},
		{"guru", RoleGuru},
		{"admin", RoleAdmin},
		{" Admin ", RoleAdmin},
		{"SISWA", RoleSiswa},
		{"", RoleUnknown},
		{"superuser", RoleUnknown},
		{"administrator", RoleUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseRole(tc.raw), "raw %q", tc.raw)
	}
}

func TestRoleKnown(t *testing.T) {
	assert.True(t, RoleSiswa.Known())
	assert.True(t, RoleGuru.Known())
	assert.True(t, RoleAdmin.Known())
	assert.False(t, RoleUnknown.Known())
	assert.False(t, Role("root").Known())
}

func TestRequiresProfile(t *testing.T) {
	assert.True(t, RoleSiswa.RequiresProfile())
	assert.True(t, RoleGuru.RequiresProfile())
	assert.False(t, RoleAdmin.RequiresProfile())
	assert.False(t, RoleUnknown.RequiresProfile())
}
