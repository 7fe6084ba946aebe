package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
)

// AuditRepository appends security-relevant events to the audit log.
// The table is append-only; there are no update or delete operations.
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{
		db: db,
	}
}

// Insert records a single audit event
func (r *AuditRepository) Insert(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (event_type, user_id, user_role, route, method, detail)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		entry.EventType, entry.UserID, entry.UserRole, entry.Route, entry.Method, entry.Detail)
	if err != nil {
		return fmt.Errorf("error inserting audit log: %w", err)
	}

	return nil
}

// AuditFilter narrows an audit log listing. Zero values mean no filter.
type AuditFilter struct {
	EventType string
	UserID    *int64
	Limit     int
}

// List retrieves audit log entries, newest first
func (r *AuditRepository) List(ctx context.Context, filter AuditFilter) ([]*models.AuditLog, error) {
	query := `SELECT id, event_type, user_id, user_role, route, method, detail, created_at FROM audit_logs`
	args := []interface{}{}

	where := ""
	if filter.EventType != "" {
		args = append(args, filter.EventType)
		where = fmt.Sprintf(" WHERE event_type = $%d", len(args))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		if where == "" {
			where = fmt.Sprintf(" WHERE user_id = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND user_id = $%d", len(args))
		}
	}
	query += where + ` ORDER BY created_at DESC, id DESC`

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(` LIMIT $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing audit logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		var entry models.AuditLog
		if err := rows.Scan(
			&entry.ID, &entry.EventType, &entry.UserID, &entry.UserRole,
			&entry.Route, &entry.Method, &entry.Detail, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
