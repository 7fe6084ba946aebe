package models

import "time"

// Faculty defines the faculty profile based on the 'faculty' table
type Faculty struct {
	ID           int64     `json:"id" db:"id" example:"1"`                       // Unique identifier for the faculty record
	UserID       int64     `json:"userId" db:"user_id" example:"3"`              // ID of the associated user account
	DepartmentID *int64    `json:"departmentId,omitempty" db:"department_id"`    // Department the faculty belongs to (nullable)
	EmployeeNo   string    `json:"employeeNo" db:"employee_no" example:"F24007"` // Faculty's unique employee number
	HiredAt      time.Time `json:"hiredAt" db:"hired_at"`                        // When the profile was created

	// Relations (populated when needed)
	User       *User       `json:"user,omitempty"`       // Associated user information
	Department *Department `json:"department,omitempty"` // Associated department
}
