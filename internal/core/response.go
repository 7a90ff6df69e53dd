// AngelaMos | 2026
// response.go

package core

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type PaginatedResponse struct {
	Items      any `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(data)
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Message(w http.ResponseWriter, msg string) {
	OK(w, MessageResponse{Message: msg})
}

func Paginated(w http.ResponseWriter, items any, page, pageSize, total int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	OK(w, PaginatedResponse{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	})
}

// JSONError writes err as the failure envelope. Operational errors keep their
// message; anything else is logged with request context and replaced by a
// generic message.
func JSONError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := Normalize(err)

	message := appErr.Message
	if !appErr.Operational {
		ctx := r.Context()
		SetSpanError(ctx, err)
		slog.ErrorContext(ctx, "unexpected error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(ctx),
		)
		message = MsgGeneric
	}

	JSON(w, appErr.StatusCode, ErrorResponse{
		Status:  statusText(appErr.StatusCode),
		Message: message,
		Code:    appErr.Code,
	})
}

func statusText(code int) string {
	if code >= 400 && code < 500 {
		return "fail"
	}
	return "error"
}
