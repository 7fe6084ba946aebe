package models

import "time"

// EnrollmentStatus defines the lifecycle state of an enrollment
type EnrollmentStatus string

const (
	StatusEnrolled   EnrollmentStatus = "enrolled"
	StatusWaitlisted EnrollmentStatus = "waitlisted"
	StatusWithdrawn  EnrollmentStatus = "withdrawn"
)

// Valid reports whether the status is one of the closed set.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case StatusEnrolled, StatusWaitlisted, StatusWithdrawn:
		return true
	}
	return false
}

// Active reports whether the enrollment occupies the (student, course) pair.
// Only active enrollments block a second enrollment attempt.
func (s EnrollmentStatus) Active() bool {
	return s == StatusEnrolled || s == StatusWaitlisted
}

// CanTransition reports whether a normal (non-override) transition from s to
// target is allowed. enrolled⇄withdrawn and waitlisted⇄withdrawn are the only
// normal moves; waitlisted→enrolled and enrolled→waitlisted require an admin
// override.
func (s EnrollmentStatus) CanTransition(target EnrollmentStatus) bool {
	if s == target {
		return false
	}
	switch s {
	case StatusEnrolled, StatusWaitlisted:
		return target == StatusWithdrawn
	case StatusWithdrawn:
		// Re-entry is a new enrollment row, never a reactivation.
		return false
	}
	return false
}

// DecideEnrollmentStatus applies the seat-limit rule: a nil limit always
// enrolls, a full course waitlists. enrolledCount is the number of rows with
// status 'enrolled' for the course at decision time.
func DecideEnrollmentStatus(seatLimit *int, enrolledCount int) EnrollmentStatus {
	if seatLimit != nil && enrolledCount >= *seatLimit {
		return StatusWaitlisted
	}
	return StatusEnrolled
}

// Enrollment links a student to a course
type Enrollment struct {
	ID         int64            `json:"id" db:"id"`
	StudentID  int64            `json:"studentId" db:"student_id"`
	CourseID   int64            `json:"courseId" db:"course_id"`
	Status     EnrollmentStatus `json:"status" db:"status" example:"enrolled"`
	Grade      *string          `json:"grade,omitempty" db:"grade" example:"A"`
	Remarks    *string          `json:"remarks,omitempty" db:"remarks"`
	EnrolledAt time.Time        `json:"enrolledAt" db:"enrolled_at"`
	UpdatedAt  time.Time        `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
	Course  *Course  `json:"course,omitempty"`
}

// RosterExportRow is one line of a roster export: an active enrollment
// joined with course and student identity.
type RosterExportRow struct {
	CourseCode  string
	CourseName  string
	StudentName string
	Email       string
	StudentNo   string
	Status      EnrollmentStatus
	Remarks     *string
}
