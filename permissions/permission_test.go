package permissions_test

import (
	"testing"

	"hostel/permissions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_FindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)
	assert.False(t, data.Skip)

	tests := []struct {
		name   string
		path   string
		method string
		skip   bool
		roles  []string
	}{
		{name: "login is public", path: "/api/auth/login", method: "POST", skip: true},
		{name: "public booking", path: "/api/bookings/", method: "POST", skip: true},
		{name: "availability", path: "/api/available-rooms", method: "GET", skip: true},
		{name: "register is superadmin only", path: "/api/auth/register", method: "POST", roles: []string{"superadmin"}},
		{name: "room delete needs admin", path: "/api/rooms/{id}", method: "DELETE", roles: []string{"superadmin", "admin"}},
		{name: "booking list for staff", path: "/api/bookings/", method: "GET", roles: []string{"superadmin", "admin", "staff"}},
		{name: "unknown route", path: "/api/unknown", method: "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.skip, permission.Skip)

			if tt.roles == nil {
				assert.Empty(t, permission.Permissions)
			} else {
				assert.Equal(t, tt.roles, permission.Permissions)
			}
		})
	}
}

func TestFindPermissions_MethodIsCaseInsensitive(t *testing.T) {
	data := permissions.Get()

	assert.True(t, data.FindPermissions("/api/auth/login", "post").Skip)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{
			name: "valid",
			raw:  `{"endpoints":[{"path":"/api/rooms/","method":"GET","permissions":["admin"]}]}`,
		},
		{
			name:    "malformed json",
			raw:     `{"endpoints":`,
			wantErr: "failed to decode permissions",
		},
		{
			name:    "unknown role",
			raw:     `{"endpoints":[{"path":"/api/rooms/","method":"GET","permissions":["housekeeping"]}]}`,
			wantErr: "unknown role",
		},
		{
			name:    "missing method",
			raw:     `{"endpoints":[{"path":"/api/rooms/"}]}`,
			wantErr: "incomplete",
		},
		{
			name:    "duplicate route",
			raw:     `{"endpoints":[{"path":"/api/rooms/","method":"GET"},{"path":"/api/rooms/","method":"get"}]}`,
			wantErr: "declared twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := permissions.Load([]byte(tt.raw))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, []string{"admin"}, data.FindPermissions("/api/rooms/", "GET").Permissions)
		})
	}
}
