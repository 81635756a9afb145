package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskvault/internal/api/shared"
)

// decodeEnvelope unmarshals the recorded response body into the standard
// envelope, failing the test on malformed JSON.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) shared.Envelope {
	t.Helper()

	var env shared.Envelope
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "response body is not a valid envelope: %s", w.Body.String())
	return env
}

// decodeData re-marshals the envelope's data field into the given target
// struct, since json.Unmarshal leaves it as map[string]interface{}.
func decodeData(t *testing.T, env shared.Envelope, target interface{}) {
	t.Helper()

	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, target))
}

// newAuthedRequest builds a request carrying an authenticated identity,
// as the auth middleware would have attached it.
func newAuthedRequest(method, target string, body []byte, identity shared.Identity) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	return r.WithContext(shared.WithIdentity(r.Context(), identity))
}

// withChiParam attaches a chi route parameter to the request context, so
// handlers can be exercised without a full router.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// testIdentity returns a fixed identity for handler tests.
func testIdentity() shared.Identity {
	return shared.Identity{ID: uuid.New(), Email: "user@example.com"}
}
