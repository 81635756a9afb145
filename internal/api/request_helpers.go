package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/taskvault/internal/api/shared"
	"github.com/phrazzld/taskvault/internal/domain"
	"github.com/phrazzld/taskvault/internal/platform/logger"
	"github.com/phrazzld/taskvault/internal/store"
)

// getIdentityFromContext extracts the authenticated identity from the
// request context. The identity is placed there by the auth middleware.
func getIdentityFromContext(r *http.Request) (shared.Identity, bool) {
	return shared.IdentityFromContext(r.Context())
}

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// handleIdentityAndPathUUID is a composite helper that extracts both the
// authenticated identity and a UUID from the path parameters. It writes an
// error response if either extraction fails.
func handleIdentityAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (shared.Identity, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	identity, ok := getIdentityFromContext(r)
	if !ok {
		log.Warn("identity not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return shared.Identity{}, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Warn("invalid "+paramName,
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return shared.Identity{}, uuid.Nil, false
	}

	return identity, pathID, true
}

// taskQueryFromRequest builds a store.TaskQuery from the listing endpoint's
// query string. Unknown sort fields and out-of-range pagination are
// normalized rather than rejected; malformed values for typed filters
// produce validation errors.
func taskQueryFromRequest(r *http.Request) (store.TaskQuery, error) {
	values := r.URL.Query()

	query := store.TaskQuery{
		Search:    values.Get("search"),
		SortBy:    values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
	}

	if raw := values.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return store.TaskQuery{}, domain.NewValidationError(
				"completed", "must be true or false", domain.ErrValidation)
		}
		query.Completed = &completed
	}

	if raw := values.Get("priority"); raw != "" {
		priority, err := domain.ParsePriority(raw)
		if err != nil {
			return store.TaskQuery{}, domain.NewValidationError(
				"priority", "must be one of LOW, MEDIUM, HIGH", domain.ErrInvalidPriority)
		}
		query.Priority = &priority
	}

	page, err := queryInt(values.Get("page"), "page")
	if err != nil {
		return store.TaskQuery{}, err
	}
	query.Page = page

	limit, err := queryInt(values.Get("limit"), "limit")
	if err != nil {
		return store.TaskQuery{}, err
	}
	query.Limit = limit

	query.Normalize()
	return query, nil
}

// pageLimitFromRequest extracts just the pagination parameters, for
// endpoints whose filters are fixed by the route.
func pageLimitFromRequest(r *http.Request) (page, limit int, err error) {
	values := r.URL.Query()

	page, err = queryInt(values.Get("page"), "page")
	if err != nil {
		return 0, 0, err
	}
	limit, err = queryInt(values.Get("limit"), "limit")
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

// queryInt parses an optional integer query parameter. An empty value
// yields zero, which the query normalization replaces with the default.
func queryInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", domain.ErrValidation)
	}
	return n, nil
}
