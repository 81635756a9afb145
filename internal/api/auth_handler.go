package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/phrazzld/taskvault/internal/api/shared"
	"github.com/phrazzld/taskvault/internal/domain"
	"github.com/phrazzld/taskvault/internal/service"
	"github.com/phrazzld/taskvault/internal/service/auth"
	"github.com/phrazzld/taskvault/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userService   service.UserService
	jwtService    auth.JWTService
	tokenLifetime time.Duration
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	jwtService auth.JWTService,
	tokenLifetime time.Duration,
) *AuthHandler {
	return &AuthHandler{
		userService:   userService,
		jwtService:    jwtService,
		tokenLifetime: tokenLifetime,
	}
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeValidationError, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		HandleValidationError(w, r, err)
		return
	}

	user, err := h.userService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.Is(err, store.ErrEmailExists):
			shared.RespondWithError(w, r, http.StatusConflict, CodeConflict, "Email already exists")
		case errors.As(err, &validationErr):
			HandleValidationError(w, r, err)
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				CodeInternalError, "Failed to create user", err)
		}
		return
	}

	h.respondWithToken(w, r, user, http.StatusCreated)
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeValidationError, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		HandleValidationError(w, r, err)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			shared.RespondWithError(w, r, http.StatusUnauthorized,
				CodeAuthenticationError, "Invalid email or password",
				shared.WithElevatedLogLevel())
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			CodeInternalError, "Failed to authenticate user", err)
		return
	}

	h.respondWithToken(w, r, user, http.StatusOK)
}

// Verify handles the /auth/verify endpoint. The auth middleware has
// already validated the token, so reaching this handler means the token
// is good; it echoes back the identity it carries.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentityFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, VerifyResponse{
		UserID: identity.ID,
		Email:  identity.Email,
		Valid:  true,
	})
}

// respondWithToken issues a token for the user and writes the auth
// response envelope.
func (h *AuthHandler) respondWithToken(
	w http.ResponseWriter,
	r *http.Request,
	user *domain.User,
	status int,
) {
	token, err := h.jwtService.GenerateToken(r.Context(), user)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			CodeInternalError, "Failed to generate authentication token", err)
		return
	}

	resp := AuthResponse{
		UserID:      user.ID,
		Email:       user.Email,
		AccessToken: token,
	}
	if h.tokenLifetime > 0 {
		resp.ExpiresAt = time.Now().UTC().Add(h.tokenLifetime).Format(time.RFC3339)
	}

	shared.RespondWithData(w, r, status, resp)
}
