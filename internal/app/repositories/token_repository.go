package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
)

// TokenRepository handles database operations for refresh tokens
type TokenRepository struct {
	db *pgxpool.Pool
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		db: db,
	}
}

// Create stores a refresh token
func (r *TokenRepository) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Exec(ctx, query, userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("error storing refresh token: %w", err)
	}

	return nil
}

// GetByToken retrieves a refresh token by its value
func (r *TokenRepository) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at, is_revoked
		FROM refresh_tokens WHERE token = $1
	`

	var rt models.RefreshToken
	err := r.db.QueryRow(ctx, query, token).
		Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.CreatedAt, &rt.IsRevoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error retrieving refresh token: %w", err)
	}

	return &rt, nil
}

// Revoke marks a refresh token as revoked
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	tag, err := r.db.Exec(ctx, `UPDATE refresh_tokens SET is_revoked = TRUE WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

// RevokeAllForUser marks all of a user's refresh tokens as revoked
func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE refresh_tokens SET is_revoked = TRUE WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("error revoking user tokens: %w", err)
	}
	return nil
}

// DeleteExpired removes tokens past their expiry
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
