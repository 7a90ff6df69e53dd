// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	healthy   = pingFunc(func(context.Context) error { return nil })
	unhealthy = pingFunc(func(context.Context) error { return errors.New("connection refused") })
)

func serve(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestLiveness(t *testing.T) {
	h := NewHandler("1.2.0")

	for _, path := range []string{"/healthz", "/livez"} {
		rec, body := serve(t, h, path)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "1.2.0", body["version"])
		assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
	}
}

func TestReadiness(t *testing.T) {
	t.Run("all dependencies up", func(t *testing.T) {
		h := NewHandler("1.2.0",
			Dependency{Name: "database", Checker: healthy},
			Dependency{Name: "redis", Checker: healthy},
		)
		rec, body := serve(t, h, "/readyz")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", body["status"])
		assert.Len(t, body["checks"], 2)
	})

	t.Run("one dependency down", func(t *testing.T) {
		h := NewHandler("1.2.0",
			Dependency{Name: "database", Checker: healthy},
			Dependency{Name: "redis", Checker: unhealthy},
		)
		rec, body := serve(t, h, "/readyz")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "degraded", body["status"])

		checks := body["checks"].([]any)
		redis := checks[1].(map[string]any)
		assert.Equal(t, "redis", redis["name"])
		assert.Equal(t, false, redis["healthy"])
		assert.Equal(t, "ping failed", redis["message"])
	})

	t.Run("missing checker", func(t *testing.T) {
		h := NewHandler("1.2.0", Dependency{Name: "database"})
		rec, _ := serve(t, h, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		h := NewHandler("1.2.0")
		h.SetReady(false)
		rec, body := serve(t, h, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "not_ready", body["status"])
	})
}

func TestShutdown(t *testing.T) {
	h := NewHandler("1.2.0", Dependency{Name: "database", Checker: healthy})
	h.SetShutdown(true)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec, body := serve(t, h, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "shutting_down", body["status"])
	}
}
