package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/app/models"
	"github.com/preethikasudhagar/Course-Enrollment-Analytics/internal/pkg/apperrors"
)

func newTestService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "enrollment.test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService(time.Hour)
	user := &models.User{ID: 42, Email: "student@college.edu", RoleType: models.RoleStudent}

	access, refresh, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, int(time.Hour.Seconds()), expiresIn)
	assert.Equal(t, int((24 * time.Hour).Seconds()), refreshExpiresIn)

	claims, err := svc.ValidateAndExtractClaims(access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "student@college.edu", claims.Email)
	assert.Equal(t, string(models.RoleStudent), claims.RoleType)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)
	user := &models.User{ID: 1, Email: "a@college.edu", RoleType: models.RoleAdmin}

	access, _, _, _, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractClaims(access)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	svc := newTestService(time.Hour)
	user := &models.User{ID: 1, Email: "a@college.edu", RoleType: models.RoleAdmin}

	access, _, _, _, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "different", AccessTokenExp: time.Hour})
	_, err = other.ValidateAndExtractClaims(access)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)

	_, err = ExtractBearerToken("Basic abc")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
