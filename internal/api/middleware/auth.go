package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/taskvault/internal/api/shared"
	"github.com/phrazzld/taskvault/internal/redact"
	"github.com/phrazzld/taskvault/internal/service/auth"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates JWT tokens from the Authorization header and
// attaches the authenticated identity to the request context. Requests
// without a valid token are rejected with 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.identityFromRequest(r)
		if err != nil {
			m.respondUnauthenticated(w, r, err)
			return
		}

		ctx := shared.WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthenticateOptional attaches the identity when a valid token is present
// but lets the request through unauthenticated otherwise. Handlers behind
// it must check shared.IdentityFromContext themselves.
func (m *AuthMiddleware) AuthenticateOptional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.identityFromRequest(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := shared.WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize requires a prior successful authentication. No role policy is
// defined yet, so any authenticated request passes regardless of the
// requested roles.
func (m *AuthMiddleware) Authorize(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := shared.IdentityFromContext(r.Context()); !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized,
					"AUTHENTICATION_ERROR", "Access token required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// identityFromRequest extracts and validates the bearer token, returning
// the identity encoded in its claims.
func (m *AuthMiddleware) identityFromRequest(r *http.Request) (shared.Identity, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return shared.Identity{}, auth.ErrMissingToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return shared.Identity{}, auth.ErrInvalidToken
	}

	claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
	if err != nil {
		return shared.Identity{}, err
	}

	return shared.Identity{
		ID:    claims.UserID,
		Email: claims.Email,
	}, nil
}

// respondUnauthenticated translates token errors into 401 responses. All
// failures map to 401 with a message naming the problem; unexpected
// validation errors become a 500 and are logged redacted.
func (m *AuthMiddleware) respondUnauthenticated(w http.ResponseWriter, r *http.Request, err error) {
	const code = "AUTHENTICATION_ERROR"

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		shared.RespondWithError(w, r, http.StatusUnauthorized, code, "Access token required")
	case errors.Is(err, auth.ErrExpiredToken):
		shared.RespondWithError(w, r, http.StatusUnauthorized, code, "Token expired")
	case errors.Is(err, auth.ErrTokenNotYetValid):
		shared.RespondWithError(w, r, http.StatusUnauthorized, code, "Token not yet valid")
	case errors.Is(err, auth.ErrInvalidToken):
		shared.RespondWithError(w, r, http.StatusUnauthorized, code, "Invalid or expired token")
	default:
		slog.Error("failed to validate token", "error", redact.Error(err))
		shared.RespondWithError(
			w,
			r,
			http.StatusInternalServerError,
			"INTERNAL_ERROR",
			"Authentication error",
		)
	}
}

// GetIdentity extracts the authenticated identity from the request context.
// Returns the identity and a boolean indicating if it was found.
func GetIdentity(r *http.Request) (shared.Identity, bool) {
	return shared.IdentityFromContext(r.Context())
}
