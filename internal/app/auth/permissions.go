package auth

import (
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
)

// Capability is a permission tag granted to a role
type Capability string

// System capabilities
const (
	// User management
	CapManageUsers Capability = "users.manage"

	// Course and department management
	CapManageCourses     Capability = "courses.manage"
	CapManageDepartments Capability = "departments.manage"
	CapManageAssignments Capability = "assignments.manage"
	CapManageSeatLimits  Capability = "seat_limits.manage"

	// Enrollment management
	CapViewAllEnrollments      Capability = "enrollments.view_all"
	CapViewAssignedEnrollments Capability = "enrollments.view_assigned"
	CapViewOwnEnrollments      Capability = "enrollments.view_own"
	CapEnrollInCourse          Capability = "enrollments.enroll"
	CapWithdrawFromCourse      Capability = "enrollments.withdraw"
	CapOverrideEnrollment      Capability = "enrollments.override"
	CapUpdateGrade             Capability = "enrollments.update_grade"

	// Course announcements
	CapPostAnnouncements Capability = "announcements.post"
	CapViewAnnouncements Capability = "announcements.view"

	// Analytics
	CapViewSystemAnalytics     Capability = "analytics.view_system"
	CapViewCourseAnalytics     Capability = "analytics.view_course"
	CapViewDepartmentAnalytics Capability = "analytics.view_department"
	CapViewEnrollmentTrends    Capability = "analytics.view_trends"
	CapViewAuditLogs           Capability = "audit_logs.view"
)

// rolePermissions is the static role-to-capability table. It is the single
// place access rights are declared; route guards and services consult it
// through HasCapability.
var rolePermissions = map[models.RoleType]map[Capability]struct{}{
	models.RoleAdmin: capSet(
		CapManageUsers,
		CapManageCourses,
		CapManageDepartments,
		CapManageAssignments,
		CapManageSeatLimits,
		CapViewAllEnrollments,
		CapViewAssignedEnrollments,
		CapOverrideEnrollment,
		CapWithdrawFromCourse,
		CapUpdateGrade,
		CapViewSystemAnalytics,
		CapViewCourseAnalytics,
		CapViewDepartmentAnalytics,
		CapViewEnrollmentTrends,
		CapViewAuditLogs,
	),
	models.RoleFaculty: capSet(
		CapViewAssignedEnrollments,
		CapUpdateGrade,
		CapPostAnnouncements,
		CapViewAnnouncements,
		CapViewCourseAnalytics,
		CapViewDepartmentAnalytics,
		CapViewEnrollmentTrends,
	),
	models.RoleStudent: capSet(
		CapViewOwnEnrollments,
		CapEnrollInCourse,
		CapWithdrawFromCourse,
		CapViewAnnouncements,
	),
}

func capSet(caps ...Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// HasCapability reports whether the role is granted the capability.
func HasCapability(role models.RoleType, cap Capability) bool {
	caps, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = caps[cap]
	return ok
}

// Capabilities returns the capability set for a role.
func Capabilities(role models.RoleType) []Capability {
	caps := rolePermissions[role]
	out := make([]Capability, 0, len(caps))
	for c := range caps {
		out = append(out, c)
	}
	return out
}
