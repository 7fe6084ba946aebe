package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	all := []EnrollmentStatus{StatusEnrolled, StatusWaitlisted, StatusWithdrawn}

	allowed := map[[2]EnrollmentStatus]bool{
		{StatusEnrolled, StatusWithdrawn}:   true,
		{StatusWaitlisted, StatusWithdrawn}: true,
	}

	// Exhaustive: every (from, to) pair in the closed status set.
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]EnrollmentStatus{from, to}]
			assert.Equalf(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestDecideEnrollmentStatus(t *testing.T) {
	limit := func(n int) *int { return &n }

	tests := []struct {
		name          string
		seatLimit     *int
		enrolledCount int
		want          EnrollmentStatus
	}{
		{"no limit always enrolls", nil, 100, StatusEnrolled},
		{"seats available", limit(30), 29, StatusEnrolled},
		{"exactly full waitlists", limit(30), 30, StatusWaitlisted},
		{"over capacity waitlists", limit(30), 31, StatusWaitlisted},
		{"zero limit waitlists immediately", limit(0), 0, StatusWaitlisted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideEnrollmentStatus(tt.seatLimit, tt.enrolledCount))
		})
	}
}

func TestStatusActive(t *testing.T) {
	assert.True(t, StatusEnrolled.Active())
	assert.True(t, StatusWaitlisted.Active())
	assert.False(t, StatusWithdrawn.Active())
}

func TestRoleTypeValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleFaculty.Valid())
	assert.True(t, RoleStudent.Valid())
	assert.False(t, RoleType("SUPERUSER").Valid())
}
