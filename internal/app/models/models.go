package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleFaculty RoleType = "FACULTY"
	RoleStudent RoleType = "STUDENT"
)

// Valid reports whether the role is one of the closed set.
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

// TrendGranularity defines the date bucket size for enrollment trends
type TrendGranularity string

const (
	GranularityDay   TrendGranularity = "day"
	GranularityWeek  TrendGranularity = "week"
	GranularityMonth TrendGranularity = "month"
)

// Valid reports whether the granularity is supported.
func (g TrendGranularity) Valid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}
