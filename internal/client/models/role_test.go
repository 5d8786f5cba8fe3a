package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_JSON(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{`"Taxpayer"`, RoleTaxpayer},
		{`"Municipal Officer"`, RoleMunicipalOfficer},
		{`"Administrator"`, RoleAdministrator},
		{`"Auditor"`, RoleUnknown},
		{`""`, RoleUnknown},
		{`42`, RoleUnknown},
	}
	for _, tt := range tests {
		var r Role
		require.NoError(t, json.Unmarshal([]byte(tt.in), &r), tt.in)
		assert.Equal(t, tt.want, r, tt.in)
	}

	b, err := json.Marshal(RoleMunicipalOfficer)
	require.NoError(t, err)
	assert.Equal(t, `"Municipal Officer"`, string(b))
}

func TestRole_StringParseRoundTrip(t *testing.T) {
	for _, r := range AllRoles {
		assert.Equal(t, r, ParseRole(r.String()))
	}
	assert.Equal(t, "Unknown", Role(99).String())
}

func TestUser_DecodesMeResponse(t *testing.T) {
	body := `{
		"id": 7, "email": "asha@example.tz", "role": "Taxpayer",
		"account_status": "Active",
		"last_login_time": "2025-03-01T08:15:00.123456Z",
		"date_joined": "2024-11-20T10:00:00Z",
		"profile": {"first_name": "Asha", "last_name": "Mushi", "full_name": "Asha Mushi", "ward": "Kariakoo"}
	}`
	var u User
	require.NoError(t, json.Unmarshal([]byte(body), &u))

	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, RoleTaxpayer, u.Role)
	require.NotNil(t, u.LastLoginTime)
	require.NotNil(t, u.Profile)
	assert.Equal(t, "Asha Mushi", u.DisplayName())
}
