package dto

// CreateCourseRequest represents a course creation request
type CreateCourseRequest struct {
	Name         string  `json:"name" binding:"required"`
	Code         string  `json:"code" binding:"required"`
	DepartmentID int64   `json:"departmentId" binding:"required,min=1"`
	Credits      int     `json:"credits" binding:"omitempty,min=1"`
	SeatLimit    *int    `json:"seatLimit,omitempty" binding:"omitempty,min=0"`
	Description  *string `json:"description,omitempty"`
	Syllabus     *string `json:"syllabus,omitempty"`
	Schedule     *string `json:"schedule,omitempty"`
	Semester     *string `json:"semester,omitempty"`
}

// UpdateCourseRequest represents a course update request
type UpdateCourseRequest struct {
	Name        string  `json:"name" binding:"required"`
	Credits     int     `json:"credits" binding:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	Syllabus    *string `json:"syllabus,omitempty"`
	Schedule    *string `json:"schedule,omitempty"`
	Semester    *string `json:"semester,omitempty"`
}

// SetSeatLimitRequest represents a seat-limit change. A nil SeatLimit
// clears the limit (unlimited capacity).
type SetSeatLimitRequest struct {
	SeatLimit *int `json:"seatLimit" binding:"omitempty,min=0"`
}

// AvailableCourse is a catalog row shown to students, with seat status.
type AvailableCourse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Code            string  `json:"code"`
	DepartmentID    int64   `json:"departmentId"`
	DepartmentName  string  `json:"departmentName"`
	Credits         int     `json:"credits"`
	SeatLimit       *int    `json:"seatLimit,omitempty"`
	EnrolledCount   int     `json:"enrolledCount"`
	WaitlistedCount int     `json:"waitlistedCount"`
	SeatsAvailable  *int    `json:"seatsAvailable,omitempty"`
	Schedule        *string `json:"schedule,omitempty"`
	Semester        *string `json:"semester,omitempty"`
}
