package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanReportQuota(t *testing.T) {
	cases := []struct {
		name string
		user User
		want error
	}{
		{"under quota", User{TotalIssues: 1, MaxFreeIssues: 3}, nil},
		{"at quota", User{TotalIssues: 3, MaxFreeIssues: 3}, ErrQuotaExceeded},
		{"over quota", User{TotalIssues: 5, MaxFreeIssues: 3}, ErrQuotaExceeded},
		{"premium bypasses quota", User{IsPremium: true, TotalIssues: 10, MaxFreeIssues: 3}, nil},
		{"blocked", User{IsBlocked: true, TotalIssues: 0, MaxFreeIssues: 3}, ErrUserBlocked},
		{"blocked premium still refused", User{IsBlocked: true, IsPremium: true}, ErrUserBlocked},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.user.CanReport()
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	user := User{Password: "secret123"}

	err := user.HashPassword()
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", user.Password)

	assert.True(t, user.ComparePassword("secret123"))
	assert.False(t, user.ComparePassword("wrong"))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("citizen"))
	assert.True(t, ValidRole("staff"))
	assert.True(t, ValidRole("admin"))
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
}
