package models

import "time"

// CourseStats holds per-course enrollment aggregates. Courses with zero
// enrollments still produce a row with zero counts. UtilizationPct is nil
// when the course has no seat limit.
type CourseStats struct {
	CourseID        int64    `json:"courseId"`
	CourseName      string   `json:"courseName"`
	CourseCode      string   `json:"courseCode"`
	DepartmentName  string   `json:"departmentName"`
	SeatLimit       *int     `json:"seatLimit,omitempty"`
	EnrolledCount   int      `json:"enrolledCount"`
	WaitlistedCount int      `json:"waitlistedCount"`
	UtilizationPct  *float64 `json:"utilizationPct,omitempty"`
}

// DepartmentStats holds per-department aggregates summed over its courses.
type DepartmentStats struct {
	DepartmentID   int64  `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
	DepartmentCode string `json:"departmentCode"`
	CourseCount    int    `json:"courseCount"`
	EnrolledCount  int    `json:"enrolledCount"`
}

// TrendPoint is one date bucket in an enrollment trend series.
type TrendPoint struct {
	Date          time.Time `json:"date"`
	EnrolledCount int       `json:"enrolledCount"`
}

// DemandPartition splits courses into over- and under-threshold buckets by
// capacity utilization. Courses without a seat limit appear in neither.
type DemandPartition struct {
	HighDemand []CourseStats `json:"highDemand"`
	LowDemand  []CourseStats `json:"lowDemand"`
}

// StudentEnrollmentRow is one row of a student's own enrollment view.
type StudentEnrollmentRow struct {
	EnrollmentID   int64            `json:"enrollmentId"`
	CourseID       int64            `json:"courseId"`
	CourseName     string           `json:"courseName"`
	CourseCode     string           `json:"courseCode"`
	DepartmentName string           `json:"departmentName"`
	Credits        int              `json:"credits"`
	Status         EnrollmentStatus `json:"status"`
	Grade          *string          `json:"grade,omitempty"`
}
