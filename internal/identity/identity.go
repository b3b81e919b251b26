// Package identity issues and verifies the anonymous learner identities the
// HTTP API uses in place of accounts.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/abhisek/sensei/internal/kv"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 365 * 24 * time.Hour

var (
	// ErrNoSecret is returned by NewIssuer for an empty signing secret.
	ErrNoSecret = errors.New("identity: signing secret is required")

	// ErrInvalidToken is returned for a token that fails verification.
	ErrInvalidToken = errors.New("identity: invalid or expired token")
)

// Identity is a freshly issued learner id and its bearer token.
type Identity struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Issuer signs HS256 tokens whose subject is the learner id.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. A non-positive ttl uses DefaultTTL.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue creates a new random learner id and signs a token for it.
func (i *Issuer) Issue() (Identity, error) {
	return i.IssueFor(uuid.NewString())
}

// IssueFor signs a token for an existing learner id.
func (i *Issuer) IssueFor(userID string) (Identity, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return Identity{}, fmt.Errorf("invalid user id: %w", err)
	}
	now := i.now()
	exp := now.Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Identity{}, fmt.Errorf("sign token: %w", err)
	}
	return Identity{UserID: userID, Token: token, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// Verify checks the token's signature and expiry and returns its learner id.
func (i *Issuer) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// Local returns the terminal client's learner id, creating and storing a
// new one under "<namespace>:identity" on first use.
func Local(ctx context.Context, store kv.Store, namespace string) (string, error) {
	key := namespace + ":identity"
	data, err := store.Get(ctx, key)
	switch {
	case err == nil:
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	case !errors.Is(err, kv.ErrNotFound):
		return "", fmt.Errorf("load local identity: %w", err)
	}

	id := uuid.NewString()
	if err := store.Set(ctx, key, []byte(id)); err != nil {
		return "", fmt.Errorf("save local identity: %w", err)
	}
	return id, nil
}
