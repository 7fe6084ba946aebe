package models

import "time"

// Course represents a course offered by a department.
// SeatLimit is nil when the course has unlimited capacity.
type Course struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Code         string    `json:"code" db:"code" example:"CS101"`
	DepartmentID int64     `json:"departmentId" db:"department_id"`
	Credits      int       `json:"credits" db:"credits" example:"3"`
	SeatLimit    *int      `json:"seatLimit,omitempty" db:"seat_limit"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Syllabus     *string   `json:"syllabus,omitempty" db:"syllabus"`
	Schedule     *string   `json:"schedule,omitempty" db:"schedule" example:"Mon/Wed 10-11 AM"`
	Semester     *string   `json:"semester,omitempty" db:"semester" example:"Fall 2024"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Department *Department `json:"department,omitempty"`
}
