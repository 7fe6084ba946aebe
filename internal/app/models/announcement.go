package models

import "time"

// AnnouncementType classifies a course announcement
type AnnouncementType string

const (
	AnnouncementGeneral          AnnouncementType = "general"
	AnnouncementAcademicUpdate   AnnouncementType = "academic_update"
	AnnouncementEnrollmentStatus AnnouncementType = "enrollment_status"
)

// Valid reports whether the announcement type is a member of the closed set
func (t AnnouncementType) Valid() bool {
	switch t {
	case AnnouncementGeneral, AnnouncementAcademicUpdate, AnnouncementEnrollmentStatus:
		return true
	}
	return false
}

// Announcement is a faculty post addressed to the students of one course.
// CourseName and CourseCode are joined in on reads.
type Announcement struct {
	ID        int64            `json:"id" db:"id"`
	CourseID  int64            `json:"courseId" db:"course_id"`
	FacultyID int64            `json:"facultyId" db:"faculty_id"`
	Title     string           `json:"title" db:"title"`
	Body      *string          `json:"body,omitempty" db:"body"`
	Type      AnnouncementType `json:"type" db:"announcement_type" example:"general"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`

	CourseName string `json:"courseName,omitempty" db:"-"`
	CourseCode string `json:"courseCode,omitempty" db:"-"`
}
