package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/auth"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

const testSecret = "a-test-secret-that-is-long-enough-for-hs256"

var issuedAt = time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

func givenUser(role librarystore.Role) librarystore.User {
	return librarystore.User{
		ID:    uuid.New(),
		Name:  "Layla Haddad",
		Email: "layla@example.org",
		Role:  role,
	}
}

func givenTokens(t *testing.T, now time.Time) auth.Tokens {
	t.Helper()

	tokens, err := auth.NewTokens(testSecret, auth.WithTokenTTL(time.Hour), auth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	return tokens
}

func Test_PasswordHasher_Hash_And_Matches(t *testing.T) {
	// arrange
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	// act
	hash, err := hasher.Hash("s3cret!")

	// assert
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, hasher.Matches(hash, "s3cret!"))
	assert.False(t, hasher.Matches(hash, "S3cret!"))
	assert.False(t, hasher.Matches("not-a-bcrypt-hash", "s3cret!"))
}

func Test_PasswordHasher_Hash_Fails_ForOverlongPassword(t *testing.T) {
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("x", 73))

	assert.ErrorIs(t, err, auth.ErrHashingPasswordFailed)
}

func Test_Tokens_Verify_ReturnsActor_ForIssuedToken(t *testing.T) {
	// arrange
	user := givenUser(librarystore.RoleAdmin)
	tokens := givenTokens(t, issuedAt.Add(30*time.Minute))

	token, expiresAt, err := tokens.Issue(user, issuedAt)
	require.NoError(t, err)

	// act
	actor, err := tokens.Verify(token)

	// assert
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour), expiresAt)
	assert.Equal(t, user.ID, actor.UserID)
	assert.Equal(t, librarystore.RoleAdmin, actor.Role)
	assert.Equal(t, "Layla Haddad", actor.Name)
	assert.True(t, actor.IsAdmin())
}

func Test_Tokens_Verify_Fails(t *testing.T) {
	user := givenUser(librarystore.RoleUser)
	issuer := givenTokens(t, issuedAt)

	validToken, _, err := issuer.Issue(user, issuedAt)
	require.NoError(t, err)

	otherToken, _, err := issuer.Issue(givenUser(librarystore.RoleAdmin), issuedAt)
	require.NoError(t, err)

	validParts := strings.Split(validToken, ".")
	otherParts := strings.Split(otherToken, ".")
	tampered := strings.Join([]string{validParts[0], otherParts[1], validParts[2]}, ".")

	otherSecret, err := auth.NewTokens(testSecret+"-rotated", auth.WithClock(func() time.Time { return issuedAt }))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{
		Role: librarystore.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    auth.TokenIssuer,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		verifier auth.Tokens
		token    string
	}{
		{name: "expired", verifier: givenTokens(t, issuedAt.Add(2*time.Hour)), token: validToken},
		{name: "signed with another secret", verifier: otherSecret, token: validToken},
		{name: "tampered payload", verifier: issuer, token: tampered},
		{name: "alg none", verifier: issuer, token: unsigned},
		{name: "garbage", verifier: issuer, token: "not.a.token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, verifyErr := tc.verifier.Verify(tc.token)

			// assert
			assert.ErrorIs(t, verifyErr, core.ErrInvalidToken)
			assert.Equal(t, core.KindUnauthenticated, core.KindOf(verifyErr))
		})
	}
}

func Test_NewTokens_RejectsInvalidConfiguration(t *testing.T) {
	_, err := auth.NewTokens("too-short")
	assert.ErrorIs(t, err, auth.ErrSecretTooShort)

	_, err = auth.NewTokens(testSecret, auth.WithTokenTTL(0))
	assert.ErrorIs(t, err, auth.ErrInvalidTokenTTL)

	_, err = auth.NewTokens(testSecret, auth.WithClock(nil))
	assert.ErrorIs(t, err, auth.ErrNilClock)
}
