package dto

// CreateAnnouncementRequest represents a faculty announcement for one of
// their assigned courses
type CreateAnnouncementRequest struct {
	CourseID int64   `json:"courseId" binding:"required,min=1"`
	Title    string  `json:"title" binding:"required,max=200"`
	Body     *string `json:"body,omitempty"`
	Type     string  `json:"type,omitempty" binding:"omitempty,oneof=general academic_update enrollment_status"`
}
