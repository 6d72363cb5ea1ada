// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints. Every response uses the success envelope:
//
//	HTTP/1.1 200 OK
//	{ "success": true, "data": { ... } }
//
//	HTTP/1.1 404 Not Found
//	{
//	  "success":    false,
//	  "error":      "no client found with the provided phone number",
//	  "code":       "not_found",
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000"
//	}
//
// Conventions:
//   - All error responses return an ErrorResponse with a stable `code`.
//   - `fail()` centralizes error logging and formatting; 5xx responses are
//     logged with request context for observability.
//   - `ok()` and `okWith()` keep success responses in one shape across
//     handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valchyai/ops-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// This struct is used in OpenAPI documentation via Swagger annotations.
type ErrorResponse struct {
	// Always false for errors
	Success bool `json:"success" example:"false"`
	// Human-readable message (safe to show to operators)
	Error string `json:"error" example:"no client found with the provided phone number"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		Success:   false,
		Error:     msg,
		Code:      code,
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) call Fail to return consistent
// error envelopes without depending on unexported helpers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success envelope with data under the "data" key.
func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// okWith writes a success envelope with extra top-level fields (e.g. the
// "exists" flag on find-or-create). body must not contain "success".
func okWith(c *gin.Context, status int, body gin.H) {
	body["success"] = true
	c.JSON(status, body)
}
