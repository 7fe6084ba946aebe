package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
)

// TestCapabilityMatrix asserts the entire role-to-capability table in one
// place so any drift in access rights fails loudly.
func TestCapabilityMatrix(t *testing.T) {
	allCaps := []Capability{
		CapManageUsers,
		CapManageCourses,
		CapManageDepartments,
		CapManageAssignments,
		CapManageSeatLimits,
		CapViewAllEnrollments,
		CapViewAssignedEnrollments,
		CapViewOwnEnrollments,
		CapEnrollInCourse,
		CapWithdrawFromCourse,
		CapOverrideEnrollment,
		CapUpdateGrade,
		CapPostAnnouncements,
		CapViewAnnouncements,
		CapViewSystemAnalytics,
		CapViewCourseAnalytics,
		CapViewDepartmentAnalytics,
		CapViewEnrollmentTrends,
		CapViewAuditLogs,
	}

	granted := map[models.RoleType]map[Capability]bool{
		models.RoleAdmin: {
			CapManageUsers:             true,
			CapManageCourses:           true,
			CapManageDepartments:       true,
			CapManageAssignments:       true,
			CapManageSeatLimits:        true,
			CapViewAllEnrollments:      true,
			CapViewAssignedEnrollments: true,
			CapOverrideEnrollment:      true,
			CapWithdrawFromCourse:      true,
			CapUpdateGrade:             true,
			CapViewSystemAnalytics:     true,
			CapViewCourseAnalytics:     true,
			CapViewDepartmentAnalytics: true,
			CapViewEnrollmentTrends:    true,
			CapViewAuditLogs:           true,
		},
		models.RoleFaculty: {
			CapViewAssignedEnrollments: true,
			CapUpdateGrade:             true,
			CapPostAnnouncements:       true,
			CapViewAnnouncements:       true,
			CapViewCourseAnalytics:     true,
			CapViewDepartmentAnalytics: true,
			CapViewEnrollmentTrends:    true,
		},
		models.RoleStudent: {
			CapViewOwnEnrollments: true,
			CapEnrollInCourse:     true,
			CapWithdrawFromCourse: true,
			CapViewAnnouncements:  true,
		},
	}

	for _, role := range []models.RoleType{models.RoleAdmin, models.RoleFaculty, models.RoleStudent} {
		for _, cap := range allCaps {
			assert.Equalf(t, granted[role][cap], HasCapability(role, cap), "role=%s cap=%s", role, cap)
		}
	}

	// Unknown roles get nothing.
	for _, cap := range allCaps {
		assert.False(t, HasCapability(models.RoleType("GUEST"), cap))
	}
}

func TestAdminNeverGetsStudentOnlyCapabilities(t *testing.T) {
	// Admins cannot enroll themselves; withdrawal on behalf of a student
	// is allowed and goes through the same withdraw capability.
	assert.False(t, HasCapability(models.RoleAdmin, CapEnrollInCourse))
	assert.False(t, HasCapability(models.RoleAdmin, CapViewOwnEnrollments))
}

// Rosters are shared between admins and assigned faculty, so both roles
// must carry the guarding capability.
func TestRosterCapabilitySharedByAdminAndFaculty(t *testing.T) {
	assert.True(t, HasCapability(models.RoleAdmin, CapViewAssignedEnrollments))
	assert.True(t, HasCapability(models.RoleFaculty, CapViewAssignedEnrollments))
	assert.False(t, HasCapability(models.RoleStudent, CapViewAssignedEnrollments))
}
