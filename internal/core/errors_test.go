// AngelaMos | 2026
// errors_test.go

package core

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      string
		message   string
		operation bool
	}{
		{
			name:      "app error passes through",
			err:       ValidationError(`"email" is required`),
			status:    http.StatusBadRequest,
			code:      CodeValidation,
			message:   `"email" is required`,
			operation: true,
		},
		{
			name:      "wrapped not found",
			err:       fmt.Errorf("get user: %w", ErrNotFound),
			status:    http.StatusNotFound,
			code:      CodeNotFound,
			message:   "Resource not found",
			operation: true,
		},
		{
			name:      "duplicate key is a 400 conflict",
			err:       fmt.Errorf("create: %w", ErrDuplicateKey),
			status:    http.StatusBadRequest,
			code:      CodeConflict,
			operation: true,
			message:   "Resource already exists",
		},
		{
			name:      "expired token",
			err:       fmt.Errorf("verify: %w", ErrTokenExpired),
			status:    http.StatusUnauthorized,
			code:      CodeTokenExpired,
			message:   MsgInvalidToken,
			operation: true,
		},
		{
			name:      "invalid token",
			err:       ErrTokenInvalid,
			status:    http.StatusUnauthorized,
			code:      CodeTokenInvalid,
			message:   MsgInvalidToken,
			operation: true,
		},
		{
			name:      "forbidden",
			err:       ErrForbidden,
			status:    http.StatusForbidden,
			code:      CodeForbidden,
			message:   MsgNoPermission,
			operation: true,
		},
		{
			name:   "unknown error is internal",
			err:    errors.New("connection reset"),
			status: http.StatusInternalServerError,
			code:   CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.err)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.operation, got.Operational)
			if tt.message != "" {
				assert.Equal(t, tt.message, got.Message)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := NotFoundError("Material not found")
	assert.ErrorIs(t, err, ErrNotFound)

	wrapped := fmt.Errorf("handler: %w", err)
	appErr, ok := IsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "Material not found", appErr.Message)
}

func TestMapStoreError(t *testing.T) {
	assert.NoError(t, MapStoreError("op", nil))
	assert.ErrorIs(t, MapStoreError("op", sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t,
		MapStoreError("op", &pgconn.PgError{Code: "23505"}),
		ErrDuplicateKey,
	)
	assert.ErrorIs(t,
		MapStoreError("op", &pgconn.PgError{Code: "23503"}),
		ErrForeignKey,
	)

	other := errors.New("boom")
	got := MapStoreError("op", other)
	assert.ErrorIs(t, got, other)
	assert.Equal(t, "op: boom", got.Error())
}

func TestJSONError_Envelope(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   ErrorResponse
	}{
		{
			name:   "client error is fail",
			err:    NotFoundError("Breakdown not found"),
			status: http.StatusNotFound,
			want: ErrorResponse{
				Status:  "fail",
				Message: "Breakdown not found",
				Code:    CodeNotFound,
			},
		},
		{
			name:   "unexpected error hides details",
			err:    errors.New("pq: relation does not exist"),
			status: http.StatusInternalServerError,
			want: ErrorResponse{
				Status:  "error",
				Message: MsgGeneric,
				Code:    CodeInternal,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)

			JSONError(rec, req, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

			var got ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []int{1, 2}, 2, 2, 5)

	var got PaginatedResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 3, got.TotalPages)
	assert.Equal(t, 5, got.Total)
	assert.Equal(t, 2, got.Page)
}
