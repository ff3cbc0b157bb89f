// Package auth issues and validates the bearer tokens that carry a Session.
//
// Tokens are HS256 JWTs signed with the process-wide secret key. A token
// states the account id, issued-at, not-before (issue time) and expiry
// (issue time + SessionLifetime). Validation failures of any kind collapse
// into common.ErrCannotDecryptToken so callers cannot tell an expired token
// from a tampered or malformed one.
package auth

import (
	"context"
	"time"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionLifetime is the fixed validity window of an issued token.
const SessionLifetime = 24 * time.Hour

// Claims is the JWT payload: the registered claims plus the account id.
type Claims struct {
	jwt.RegisteredClaims
	AccountID models.AccountID `json:"account_id"`
}

// TokenService signs and verifies session tokens. It holds no mutable state
// after construction and is safe for concurrent use.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService returns a TokenService keyed by secretKey. An empty key is
// a fatal configuration error.
func NewTokenService(secretKey string) (*TokenService, error) {
	if secretKey == "" {
		return nil, common.ErrMissingSecretKey
	}
	return &TokenService{secret: []byte(secretKey), now: time.Now}, nil
}

// Issue returns a signed token for accountID valid from now for SessionLifetime.
func (s *TokenService) Issue(accountID models.AccountID) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionLifetime)),
		},
		AccountID: accountID,
	})

	return token.SignedString(s.secret)
}

// Validate verifies tokenString and returns the Session it carries.
// Any failure is reported as common.ErrCannotDecryptToken.
func (s *TokenService) Validate(tokenString string) (models.Session, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Session{}, common.ErrCannotDecryptToken
	}

	if claims.AccountID <= 0 || claims.NotBefore == nil || claims.IssuedAt == nil {
		return models.Session{}, common.ErrCannotDecryptToken
	}

	session := models.Session{
		AccountID: claims.AccountID,
		IssuedAt:  claims.IssuedAt.Time,
		NotBefore: claims.NotBefore.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if !session.ValidAt(s.now()) {
		return models.Session{}, common.ErrCannotDecryptToken
	}

	return session, nil
}

type ctxKey struct{}

// ContextWithSession returns a copy of ctx carrying session.
func ContextWithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, session)
}

// SessionFromContext returns the Session stored by ContextWithSession.
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(models.Session)
	return s, ok
}
