package auth_test

import (
	"testing"
	"time"

	"tasktracker/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestIssueAndDecode(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, time.Hour)
	userID, sessionID := uuid.New(), uuid.New()

	token, err := codec.Issue(userID, sessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	gotUser, gotSession, err := codec.Decode(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, sessionID, gotSession)
}

func TestDecode_Malformed(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, time.Hour)

	_, _, err := codec.Decode("invalid-token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestDecode_WrongSecret(t *testing.T) {
	issuer := auth.NewTokenCodec("another-secret", time.Hour)
	token, err := issuer.Issue(uuid.New(), uuid.New())
	require.NoError(t, err)

	_, _, err = auth.NewTokenCodec(testSecret, time.Hour).Decode(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestDecode_Expired(t *testing.T) {
	claims := jwt.MapClaims{
		"userId":    uuid.NewString(),
		"sessionId": uuid.NewString(),
		"exp":       time.Now().Add(-1 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expired, _ := token.SignedString([]byte(testSecret))

	_, _, err := auth.NewTokenCodec(testSecret, time.Hour).Decode(expired)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestDecode_WithoutExpiry(t *testing.T) {
	claims := jwt.MapClaims{
		"userId":    uuid.NewString(),
		"sessionId": uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := token.SignedString([]byte(testSecret))

	_, _, err := auth.NewTokenCodec(testSecret, time.Hour).Decode(signed)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestDecode_MissingSession(t *testing.T) {
	claims := jwt.MapClaims{
		"userId": uuid.NewString(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := token.SignedString([]byte(testSecret))

	_, _, err := auth.NewTokenCodec(testSecret, time.Hour).Decode(signed)

	assert.ErrorIs(t, err, auth.ErrInvalidClaims)
}

func TestDecode_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{
		"userId":    uuid.NewString(),
		"sessionId": uuid.NewString(),
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, _ := token.SignedString([]byte(testSecret))

	_, _, err := auth.NewTokenCodec(testSecret, time.Hour).Decode(signed)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, "password123", hash)
	assert.True(t, auth.CheckPassword(hash, "password123"))
	assert.False(t, auth.CheckPassword(hash, "wrong_password"))
}

func TestCheckPassword_EmptyHashNeverMatches(t *testing.T) {
	assert.False(t, auth.CheckPassword("", ""))
	assert.False(t, auth.CheckPassword("", "anything"))
}
