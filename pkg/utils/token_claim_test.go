package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	id := uuid.New()
	token, err := GenerateAccessToken("secret", id, "a@b.test", AccountSchool, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UserID)
	assert.Equal(t, id.String(), claims.Subject)
	assert.Equal(t, AccountSchool, claims.AccountType)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestParseTokenRejects(t *testing.T) {
	id := uuid.New()
	expired, err := GenerateAccessToken("secret", id, "", AccountParent, -time.Hour)
	require.NoError(t, err)
	other, err := GenerateAccessToken("other", id, "", AccountParent, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong_secret", token: other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken("secret", tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	// a non-positive ttl leaves exp unset, so the token stays valid
	claims, err := ParseToken("secret", expired)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = BearerToken("Basic abc")
	assert.ErrorIs(t, err, ErrMissingToken)
	_, err = BearerToken("Bearer ")
	assert.ErrorIs(t, err, ErrMissingToken)
}
