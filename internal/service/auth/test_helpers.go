package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskvault/internal/config"
	"github.com/phrazzld/taskvault/internal/domain"
)

// DefaultJWTConfig returns a standard configuration for JWT authentication
// suitable for testing. This is the single source of truth for JWT test
// config.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long", // At least 32 chars
		TokenLifetimeMinutes: 60,
		Issuer:               "taskvault-test",
		Audience:             "taskvault-test-api",
	}
}

// NewTestJWTService creates a JWT service with the default test
// configuration and an injectable time function.
func NewTestJWTService(timeFunc func() time.Time) JWTService {
	cfg := DefaultJWTConfig()
	svc := &hmacJWTService{
		signingKey:    []byte(cfg.JWTSecret),
		tokenLifetime: cfg.TokenLifetime(),
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
		timeFunc:      time.Now,
		clockSkew:     0,
	}
	if timeFunc != nil {
		svc.timeFunc = timeFunc
	}
	return svc
}

// GenerateTokenForTesting creates a token for the given user ID without
// requiring the caller to assemble a service or a full user.
func GenerateTokenForTesting(userID uuid.UUID) (string, error) {
	svc := NewTestJWTService(nil)
	user := &domain.User{ID: userID, Email: "test@example.com"}
	token, err := svc.GenerateToken(context.Background(), user)
	if err != nil {
		return "", fmt.Errorf("failed to generate test token: %w", err)
	}
	return token, nil
}

// GenerateAuthHeaderForTesting creates an Authorization header value with
// Bearer prefix containing a valid JWT token for the specified user ID.
func GenerateAuthHeaderForTesting(userID uuid.UUID) (string, error) {
	token, err := GenerateTokenForTesting(userID)
	if err != nil {
		return "", err
	}
	return "Bearer " + token, nil
}
