package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

const (
	// TokenIssuer is the "iss" claim of every token this service signs.
	TokenIssuer = "libraryd"

	// MinSecretLength is the minimum HS256 secret length in bytes.
	MinSecretLength = 32

	DefaultTokenTTL = 24 * time.Hour
)

var (
	ErrSecretTooShort      = errors.New("token secret must be at least 32 bytes")
	ErrInvalidTokenTTL     = errors.New("token ttl must be positive")
	ErrSigningTokenFailed  = errors.New("signing the token failed")
	ErrNilClock            = errors.New("clock must not be nil")
	errUnexpectedRoleClaim = errors.New("unexpected role claim")
)

// Claims is the payload of a bearer token.
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies bearer tokens with one shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	clock  func() time.Time
}

// TokensOption configures Tokens.
type TokensOption func(*Tokens) error

// WithTokenTTL sets how long issued tokens stay valid.
func WithTokenTTL(ttl time.Duration) TokensOption {
	return func(t *Tokens) error {
		if ttl <= 0 {
			return ErrInvalidTokenTTL
		}

		t.ttl = ttl

		return nil
	}
}

// WithClock replaces time.Now for expiry checks.
func WithClock(clock func() time.Time) TokensOption {
	return func(t *Tokens) error {
		if clock == nil {
			return ErrNilClock
		}

		t.clock = clock

		return nil
	}
}

// NewTokens creates Tokens for the given secret.
func NewTokens(secret string, options ...TokensOption) (Tokens, error) {
	if len(secret) < MinSecretLength {
		return Tokens{}, ErrSecretTooShort
	}

	tokens := Tokens{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		clock:  time.Now,
	}

	for _, option := range options {
		if err := option(&tokens); err != nil {
			return Tokens{}, err
		}
	}

	return tokens, nil
}

// Issue signs a token for user, valid from issuedAt for the configured TTL.
// It returns the token and its expiry.
func (t Tokens) Issue(user librarystore.User, issuedAt time.Time) (string, time.Time, error) {
	expiresAt := issuedAt.Add(t.ttl)

	claims := Claims{
		Role: user.Role,
		Name: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, errors.Join(ErrSigningTokenFailed, err)
	}

	return signed, expiresAt, nil
}

// Verify checks signature, algorithm, issuer and expiry and returns the actor the token was issued to.
// Any failure is reported as core.ErrInvalidToken, joined with the cause.
func (t Tokens) Verify(token string) (shell.Actor, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.clock),
	)
	if err != nil {
		return shell.Actor{}, errors.Join(core.ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return shell.Actor{}, errors.Join(core.ErrInvalidToken, err)
	}

	if claims.Role != librarystore.RoleUser && claims.Role != librarystore.RoleAdmin {
		return shell.Actor{}, errors.Join(core.ErrInvalidToken, errUnexpectedRoleClaim)
	}

	return shell.Actor{UserID: userID, Role: claims.Role, Name: claims.Name}, nil
}
