package models

import "time"

// CourseAssignment links a faculty member to a course they teach.
// The set of assignments defines the faculty visibility scope.
type CourseAssignment struct {
	ID         int64     `json:"id" db:"id"`
	FacultyID  int64     `json:"facultyId" db:"faculty_id"`
	CourseID   int64     `json:"courseId" db:"course_id"`
	AssignedAt time.Time `json:"assignedAt" db:"assigned_at"`

	// Relations (populated when needed)
	Faculty *Faculty `json:"faculty,omitempty"`
	Course  *Course  `json:"course,omitempty"`
}
