package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskvault/internal/config"
	"github.com/phrazzld/taskvault/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    uuid.New(),
		Email: "ada@example.com",
	}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(DefaultJWTConfig())
		require.NoError(t, err)
		require.NotNil(t, svc)
	})

	t.Run("short secret rejected", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultJWTConfig()
		cfg.JWTSecret = "too-short"
		_, err := NewJWTService(cfg)
		assert.Error(t, err)
	})

	t.Run("missing issuer rejected", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultJWTConfig()
		cfg.Issuer = ""
		_, err := NewJWTService(cfg)
		assert.Error(t, err)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	user := testUser()
	cfg := DefaultJWTConfig()

	svc := NewTestJWTService(func() time.Time { return fixedTime })

	token, err := svc.GenerateToken(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.Equal(t, cfg.Audience, claims.Audience)
	// Compare Unix timestamps to avoid timezone issues.
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(cfg.TokenLifetime()).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := DefaultJWTConfig().TokenLifetime()
	user := testUser()

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := NewTestJWTService(func() time.Time { return fixedTime })
				token, err := svc.GenerateToken(context.Background(), user)
				require.NoError(t, err)
				return svc, token
			},
			wantErr: nil,
		},
		{
			name: "expired token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := NewTestJWTService(func() time.Time { return fixedTime })
				token, err := genSvc.GenerateToken(context.Background(), user)
				require.NoError(t, err)

				// Validate after expiry.
				valSvc := NewTestJWTService(func() time.Time {
					return fixedTime.Add(lifetime + time.Hour)
				})
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "wrong signing key",
			setupFunc: func(t *testing.T) (JWTService, string) {
				otherCfg := config.AuthConfig{
					JWTSecret:            "a-different-secret-also-32-chars-long!!",
					TokenLifetimeMinutes: 60,
					Issuer:               DefaultJWTConfig().Issuer,
					Audience:             DefaultJWTConfig().Audience,
				}
				genSvc, err := NewJWTService(otherCfg)
				require.NoError(t, err)
				token, err := genSvc.GenerateToken(context.Background(), user)
				require.NoError(t, err)

				return NewTestJWTService(func() time.Time { return fixedTime }), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong issuer",
			setupFunc: func(t *testing.T) (JWTService, string) {
				otherCfg := DefaultJWTConfig()
				otherCfg.Issuer = "someone-else"
				genSvc, err := NewJWTService(otherCfg)
				require.NoError(t, err)
				token, err := genSvc.GenerateToken(context.Background(), user)
				require.NoError(t, err)

				return NewTestJWTService(func() time.Time { return fixedTime }), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong audience",
			setupFunc: func(t *testing.T) (JWTService, string) {
				otherCfg := DefaultJWTConfig()
				otherCfg.Audience = "some-other-api"
				genSvc, err := NewJWTService(otherCfg)
				require.NoError(t, err)
				token, err := genSvc.GenerateToken(context.Background(), user)
				require.NoError(t, err)

				return NewTestJWTService(func() time.Time { return fixedTime }), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				return NewTestJWTService(func() time.Time { return fixedTime }), "not.a.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "empty token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				return NewTestJWTService(func() time.Time { return fixedTime }), ""
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, token := tc.setupFunc(t)
			claims, err := svc.ValidateToken(context.Background(), token)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, claims)
			assert.Equal(t, user.ID, claims.UserID)
		})
	}
}

func TestBcryptVerifier(t *testing.T) {
	t.Parallel()

	v := NewBcryptVerifier()

	hash, err := v.Hash("correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, v.Compare(hash, "correct horse battery"))
	assert.Error(t, v.Compare(hash, "wrong password"))
	assert.Error(t, v.Compare("not-a-hash", "anything"))
}
