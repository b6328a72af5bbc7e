package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken("secret", userID, "access", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateAndParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "access", claims.Scope)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateAndParseTokenErrors(t *testing.T) {
	userID := uuid.New()

	expired, err := GenerateToken("secret", userID, "access", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateAndParseToken("secret", expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	valid, err := GenerateToken("secret", userID, "access", time.Hour)
	require.NoError(t, err)
	_, err = ValidateAndParseToken("other", valid)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateAndParseToken("secret", "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateAndParseToken("", valid)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = GenerateToken("", userID, "access", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestGetTokenFromHeader(t *testing.T) {
	token, err := GetTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	token, err = GetTokenFromHeader("bearer   abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = GetTokenFromHeader("")
	assert.ErrorIs(t, err, ErrMissingToken)

	for _, bad := range []string{"Bearer", "Bearer   ", "Basic abc", "abc"} {
		_, err = GetTokenFromHeader(bad)
		assert.ErrorIs(t, err, ErrInvalidToken, bad)
	}
}
