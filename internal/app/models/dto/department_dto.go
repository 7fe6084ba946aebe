package dto

// CreateDepartmentRequest represents a department creation request
type CreateDepartmentRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	Description *string `json:"description,omitempty"`
}

// UpdateDepartmentRequest represents a department update request
type UpdateDepartmentRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	Description *string `json:"description,omitempty"`
}
