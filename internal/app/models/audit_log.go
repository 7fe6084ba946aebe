package models

import "time"

// Audit event types recorded by the enrollment engine and the scoping layer
const (
	AuditEventLogin              = "login_success"
	AuditEventLoginFailed        = "login_failed"
	AuditEventEnrollment         = "course_enrollment"
	AuditEventWaitlisted         = "course_enrollment_waitlisted"
	AuditEventWithdrawal         = "course_withdrawal"
	AuditEventOverride           = "enrollment_override"
	AuditEventSeatLimitChange    = "seat_limit_change"
	AuditEventGradeUpdate        = "enrollment_grade_update"
	AuditEventUnauthorizedAccess = "unauthorized_data_access"
)

// AuditLog is an append-only record of a security-relevant event.
// Rows are never updated or deleted by the application.
type AuditLog struct {
	ID        int64     `json:"id" db:"id"`
	EventType string    `json:"eventType" db:"event_type"`
	UserID    *int64    `json:"userId,omitempty" db:"user_id"`
	UserRole  *string   `json:"userRole,omitempty" db:"user_role"`
	Route     *string   `json:"route,omitempty" db:"route"`
	Method    *string   `json:"method,omitempty" db:"method"`
	Detail    *string   `json:"detail,omitempty" db:"detail"` // JSON-encoded payload
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
