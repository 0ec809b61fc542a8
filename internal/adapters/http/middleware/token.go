package middleware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrBadToken is returned for tokens that fail signature or claim checks.
var ErrBadToken = errors.New("invalid session token")

// sessionClaims binds a server-side session to an account.
// ID carries the session id and Subject the account id.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// TokenSigner signs and verifies session cookies with HS256.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenSigner creates a signer.
// PRE: secret is non-empty
func NewTokenSigner(secret []byte, ttl time.Duration) *TokenSigner {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenSigner{secret: secret, ttl: ttl}
}

// Sign returns a token for the given session.
func (ts *TokenSigner) Sign(rec SessionRecord) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        rec.ID,
			Subject:   rec.AccountID,
			IssuedAt:  jwt.NewNumericDate(rec.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(rec.CreatedAt.Add(ts.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
}

// Verify parses raw and returns the session id and account id it carries.
func (ts *TokenSigner) Verify(raw string) (sessionID, accountID string, err error) {
	tok, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return ts.secret, nil
	})
	if err != nil {
		return "", "", errors.Join(ErrBadToken, err)
	}
	c, ok := tok.Claims.(*sessionClaims)
	if !ok || !tok.Valid || c.ID == "" || c.Subject == "" {
		return "", "", ErrBadToken
	}
	return c.ID, c.Subject, nil
}
