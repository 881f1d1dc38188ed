package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken("user-42", "maria@example.com", UserMetadata{
		Firstname: "Maria",
		Lastname:  "Santos",
		Role:      "Administrator",
	})
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-42", claims.UserID())
	assert.Equal(t, "maria@example.com", claims.Email)
	assert.Equal(t, "Administrator", claims.Role())
}

func TestRoleDefaultsToRestricted(t *testing.T) {
	claims := &UserClaims{}
	assert.Equal(t, RoleUser, claims.Role())

	claims.Metadata.Role = "   "
	assert.Equal(t, RoleUser, claims.Role())
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	SetSecret("test-secret")
	token, err := GenerateToken("user-42", "maria@example.com", UserMetadata{})
	require.NoError(t, err)

	SetSecret("a-different-secret")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
