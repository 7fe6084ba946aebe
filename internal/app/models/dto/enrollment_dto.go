package dto

import "github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"

// EnrollRequest represents a student's enrollment attempt
type EnrollRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1"`
}

// EnrollmentResult is returned from an enrollment attempt so the caller can
// show whether the student was enrolled or waitlisted.
type EnrollmentResult struct {
	EnrollmentID int64                   `json:"enrollmentId"`
	CourseID     int64                   `json:"courseId"`
	Status       models.EnrollmentStatus `json:"status" example:"waitlisted"`
	Message      string                  `json:"message"`
}

// OverrideRequest represents an admin enrollment override. The target
// status may be any member of the closed status set; the seat limit is
// deliberately bypassed.
type OverrideRequest struct {
	Status  models.EnrollmentStatus `json:"status" binding:"required"`
	Remarks *string                 `json:"remarks,omitempty"`
}

// GradeUpdateRequest represents a faculty grade/remarks update
type GradeUpdateRequest struct {
	Grade   *string `json:"grade,omitempty" binding:"omitempty,max=2"`
	Remarks *string `json:"remarks,omitempty"`
}

// AssignFacultyRequest links a faculty member to a course
type AssignFacultyRequest struct {
	FacultyID int64 `json:"facultyId" binding:"required,min=1"`
	CourseID  int64 `json:"courseId" binding:"required,min=1"`
}
