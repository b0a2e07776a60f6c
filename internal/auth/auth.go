package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrBadToken is returned when a token fails verification for any reason.
// Callers surface it uniformly so expired, forged, and malformed tokens are
// indistinguishable to the client.
var ErrBadToken = errors.New("invalid token")

// Claims carries the authenticated user id inside the JWT.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Service issues and verifies bearer tokens for advisors.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service. secret must be non-empty; ttl is the
// access-token lifetime.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// IssueToken signs a new HS256 token for the given user id.
func (s *Service) IssueToken(userID string) (string, error) {
	now := time.Now()
	c := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// VerifyToken parses and validates a token, returning the user id it carries.
func (s *Service) VerifyToken(raw string) (string, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrBadToken
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || c.UserID == "" {
		return "", ErrBadToken
	}
	return c.UserID, nil
}
