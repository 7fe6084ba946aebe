package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/repositories"
)

// AuditSink records security-relevant events. Implemented by AuditService;
// kept as an interface so tests can capture events in memory.
type AuditSink interface {
	Record(ctx context.Context, event string, userID *int64, role *models.RoleType, detail map[string]interface{})
}

// AuditStore is the persistence surface the audit service needs
type AuditStore interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter repositories.AuditFilter) ([]*models.AuditLog, error)
}

// AuditService writes audit events. Recording never fails the caller's
// operation: insert errors are logged and swallowed.
type AuditService struct {
	store  AuditStore
	logger zerolog.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(store AuditStore, logger zerolog.Logger) *AuditService {
	return &AuditService{
		store:  store,
		logger: logger,
	}
}

// Record persists one audit event. The detail map is JSON-encoded into the
// detail column.
func (s *AuditService) Record(ctx context.Context, event string, userID *int64, role *models.RoleType, detail map[string]interface{}) {
	entry := &models.AuditLog{
		EventType: event,
		UserID:    userID,
	}
	if role != nil {
		r := string(*role)
		entry.UserRole = &r
	}
	if len(detail) > 0 {
		encoded, err := json.Marshal(detail)
		if err != nil {
			s.logger.Warn().Err(err).Str("event", event).Msg("Failed to encode audit detail")
		} else {
			str := string(encoded)
			entry.Detail = &str
		}
	}

	// The request context may already be cancelled when recording happens
	// after the response was written, so use a short detached timeout.
	insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.store.Insert(insertCtx, entry); err != nil {
		s.logger.Error().Err(err).Str("event", event).Msg("Failed to record audit event")
	}
}

// RecordRequest persists one audit event annotated with the HTTP route and
// method that triggered it.
func (s *AuditService) RecordRequest(ctx context.Context, event string, userID *int64, role *models.RoleType, route, method string, detail map[string]interface{}) {
	entry := &models.AuditLog{
		EventType: event,
		UserID:    userID,
		Route:     &route,
		Method:    &method,
	}
	if role != nil {
		r := string(*role)
		entry.UserRole = &r
	}
	if len(detail) > 0 {
		encoded, err := json.Marshal(detail)
		if err != nil {
			s.logger.Warn().Err(err).Str("event", event).Msg("Failed to encode audit detail")
		} else {
			str := string(encoded)
			entry.Detail = &str
		}
	}

	insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.store.Insert(insertCtx, entry); err != nil {
		s.logger.Error().Err(err).Str("event", event).Msg("Failed to record audit event")
	}
}

// List returns audit log entries for the admin audit view
func (s *AuditService) List(ctx context.Context, filter repositories.AuditFilter) ([]*models.AuditLog, error) {
	return s.store.List(ctx, filter)
}
