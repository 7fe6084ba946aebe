package models

import "time"

// Student defines the student profile based on the 'students' table
type Student struct {
	ID         int64     `json:"id" db:"id" example:"1"`                     // Unique identifier for the student record
	UserID     int64     `json:"userId" db:"user_id" example:"5"`            // ID of the associated user account
	StudentNo  string    `json:"studentNo" db:"student_no" example:"S24001"` // Student's unique registration number
	EnrolledAt time.Time `json:"enrolledAt" db:"enrolled_at"`                // When the profile was created

	// Relations (populated when needed)
	User *User `json:"user,omitempty"` // Associated user information
}
