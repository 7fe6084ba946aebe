package dto

import "github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"

// CreateUserRequest represents an admin user-creation request. Depending on
// the role a student or faculty profile is created alongside the account.
type CreateUserRequest struct {
	Email        string          `json:"email" binding:"required,email"`
	Password     string          `json:"password" binding:"required,min=8"`
	FirstName    string          `json:"firstName" binding:"required"`
	LastName     string          `json:"lastName" binding:"required"`
	RoleType     models.RoleType `json:"roleType" binding:"required"`
	StudentNo    string          `json:"studentNo,omitempty"`
	EmployeeNo   string          `json:"employeeNo,omitempty"`
	DepartmentID *int64          `json:"departmentId,omitempty"`
}

// UpdateUserRequest represents an admin user update
type UpdateUserRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	IsActive  *bool  `json:"isActive,omitempty"`
}
