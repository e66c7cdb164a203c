package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markethub/internal/core/domain"
)

const testSecret = "test-signing-key"

func TestSessionToken_RoundTrip(t *testing.T) {
	p := domain.Principal{Identity: "alice", Role: domain.RoleCustomer}

	token, err := GenerateSessionToken(p, testSecret, 15)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := ValidateSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, p, *got)
}

func TestSessionToken_AdminPrincipal(t *testing.T) {
	token, err := GenerateSessionToken(domain.AdminPrincipal(), testSecret, 15)
	require.NoError(t, err)

	got, err := ValidateSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token, err := GenerateSessionToken(domain.Principal{Identity: "alice", Role: domain.RoleCustomer}, testSecret, 15)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSessionToken_Expired(t *testing.T) {
	token, err := GenerateSessionToken(domain.Principal{Identity: "alice", Role: domain.RoleCustomer}, testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSessionToken_Garbage(t *testing.T) {
	_, err := ValidateSessionToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestChallengeToken_RoundTrip(t *testing.T) {
	token, id, err := GenerateChallengeToken(testSecret, 2*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := ValidateChallengeToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestChallengeToken_IDsAreUnique(t *testing.T) {
	_, id1, err := GenerateChallengeToken(testSecret, 2*time.Minute)
	require.NoError(t, err)
	_, id2, err := GenerateChallengeToken(testSecret, 2*time.Minute)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
}

func TestChallengeToken_Expired(t *testing.T) {
	token, _, err := GenerateChallengeToken(testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateChallengeToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestChallengeToken_SessionTokenIsNotAChallenge(t *testing.T) {
	// A session token must never be accepted as a step-1 challenge.
	token, err := GenerateSessionToken(domain.AdminPrincipal(), testSecret, 15)
	require.NoError(t, err)

	_, err = ValidateChallengeToken(token, testSecret)
	assert.Error(t, err)
}
