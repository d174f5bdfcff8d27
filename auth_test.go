package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	u := &User{ID: 42, Role: RoleAdmin}

	token, err := GenerateToken(u)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)

	token, err := GenerateToken(&User{ID: 1, Role: RoleStudent})
	require.NoError(t, err)

	_, err = ParseToken(token + "tampered")
	assert.Error(t, err)
}
