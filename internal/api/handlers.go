package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/logging"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/repository"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Handler contains plain net/http handlers mounted outside the
// versioned API group.
type Handler struct {
	store repository.StateStore
}

// NewHandler creates a new Handler with required dependencies
func NewHandler(store repository.StateStore) *Handler {
	return &Handler{store: store}
}

// HandleHealth returns basic health status (always returns 200 OK).
// The database check is advisory and does not fail the probe.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": "ok"}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if h.store == nil {
		checks["database"] = "not configured"
	} else if err := h.store.Ping(ctx); err != nil {
		checks["database"] = "unreachable"
	}

	status := models.HealthStatus{
		Status:    "ok",
		Service:   "elevator-data-generator",
		Version:   Version,
		Timestamp: time.Now(),
		Checks:    checks,
	}
	writeJSON(w, http.StatusOK, status)
}

// ErrorHandler returns an echo error handler that renders failures as
// RFC 7807 problem+json instead of echo's default envelope.
func ErrorHandler(logger *logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		detail := err.Error()
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			detail = fmt.Sprintf("%v", httpErr.Message)
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method, "path", c.Request().URL.Path, "status", status, "error", detail)
		}

		if c.Request().Method == http.MethodHead {
			c.Response().WriteHeader(status)
			return
		}
		writeError(c.Response(), status, http.StatusText(status), detail)
	}
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log error but can't change response at this point
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeError writes an RFC 7807 Problem Details JSON error response
func writeError(w http.ResponseWriter, status int, title, detail string) {
	problem := models.ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(problem)
}
