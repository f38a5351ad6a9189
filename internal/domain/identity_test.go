package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{name: "driver", input: "driver", want: RoleDriver},
		{name: "uppercase", input: "ADMIN", want: RoleAdmin},
		{name: "padded", input: " it ", want: RoleIT},
		{name: "manager", input: "manager", want: RoleManager},
		{name: "viewer", input: "viewer", want: RoleViewer},
		{name: "unknown", input: "superuser", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRole)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}
}

func TestIdentity_HasRole(t *testing.T) {
	identity := &Identity{ID: "id-1", Email: "d@example.com", Role: RoleDriver}

	assert.True(t, identity.HasRole(RoleDriver))
	assert.False(t, identity.HasRole(RoleAdmin))
}

func TestIdentity_HasRole_NilIdentity(t *testing.T) {
	var identity *Identity

	// Absent identity must answer false, never panic.
	assert.False(t, identity.HasRole(RoleAdmin))
	assert.False(t, identity.HasRole(""))
}

func TestIdentity_HasRole_UnscopedUsesRoleOnly(t *testing.T) {
	// CompanyID absent means unrestricted scope; the role decision must
	// still come from Role alone, not from the scoping.
	unscoped := &Identity{ID: "id-1", Role: RoleViewer}

	assert.True(t, unscoped.HasRole(RoleViewer))
	assert.False(t, unscoped.HasRole(RoleAdmin))
	assert.False(t, unscoped.Scoped())
}

func TestIdentity_Scoped(t *testing.T) {
	company := "company-7"
	scoped := &Identity{ID: "id-2", Role: RoleDriver, CompanyID: &company}

	assert.True(t, scoped.Scoped())
}

func TestNewProfile(t *testing.T) {
	profile, err := NewProfile("ops@example.com", RoleIT)
	require.NoError(t, err)

	assert.Equal(t, "ops@example.com", profile.Email)
	assert.Equal(t, RoleIT, profile.Role)
	assert.Equal(t, "ops", profile.DisplayName)
	assert.False(t, profile.CreatedAt.IsZero())
	assert.Nil(t, profile.CompanyID)
}

func TestNewProfile_InvalidEmail(t *testing.T) {
	_, err := NewProfile("not-an-email", RoleIT)
	assert.Error(t, err)

	_, err = NewProfile("", RoleIT)
	assert.Error(t, err)
}

func TestProfile_Identity(t *testing.T) {
	profile, err := NewProfile("driver@example.com", RoleDriver)
	require.NoError(t, err)

	identity := profile.Identity("kratos-123")
	assert.Equal(t, "kratos-123", identity.ID)
	assert.Equal(t, "driver@example.com", identity.Email)
	assert.Equal(t, RoleDriver, identity.Role)
	assert.Equal(t, "driver", identity.DisplayName)
}
