package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/ports"
)

// ErrInvalidAPIKey is returned when the presented key doesn't match the
// configured one.
var ErrInvalidAPIKey = errors.New("invalid api key")

// ErrInvalidToken is returned for expired, malformed or mis-signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// claims is the JWT claim set issued for API clients.
type claims struct {
	jwt.RegisteredClaims
}

// Service exchanges the configured API key for short-lived HS256 JWTs and
// validates them on protected routes. There is no user database; the hotel
// dashboard is the only client.
type Service struct {
	apiKey   []byte
	secret   []byte
	issuer   string
	audience string
	tokenTTL time.Duration
	log      *zap.Logger
}

// Config holds the auth settings.
type Config struct {
	APIKey   string
	Secret   string
	Issuer   string
	Audience string
	TokenTTL time.Duration
}

// NewService wires the auth service.
func NewService(cfg Config, log *zap.Logger) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		apiKey:   []byte(cfg.APIKey),
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		tokenTTL: ttl,
		log:      log,
	}
}

// IssueToken exchanges a valid API key for a signed token. The key comparison
// is constant time.
func (s *Service) IssueToken(ctx context.Context, apiKey string) (string, time.Time, error) {
	if len(s.apiKey) == 0 {
		return "", time.Time{}, errors.New("api key authentication not configured")
	}
	if subtle.ConstantTimeCompare(s.apiKey, []byte(apiKey)) != 1 {
		s.log.Warn("token exchange with invalid api key")
		return "", time.Time{}, ErrInvalidAPIKey
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "api",
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*ports.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	out := &ports.TokenClaims{Subject: c.Subject}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out, nil
}
