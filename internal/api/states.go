// Package api contains the HTTP handlers for the elevator dataset service
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/repository"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/services"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

const (
	defaultStatesLimit = 100
	maxStatesLimit     = 1000
)

// Server holds the dependencies for the API server.
type Server struct {
	Store     repository.StateStore
	Generator *services.GeneratorService
	Analytics *services.AnalyticsService
	Predictor services.Predictor
}

// NewServer creates a new Server.
func NewServer(store repository.StateStore, generator *services.GeneratorService, analytics *services.AnalyticsService, predictor services.Predictor) *Server {
	return &Server{Store: store, Generator: generator, Analytics: analytics, Predictor: predictor}
}

// EchoRouter is the route-registration surface shared by echo.Echo and
// echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the router.
func RegisterHandlers(router EchoRouter, s *Server) {
	router.GET("/states", s.ListStates)
	router.GET("/states/latest", s.LatestState)
	router.GET("/stats", s.TrafficStats)
	router.POST("/generate", s.Generate)
	router.GET("/predict", s.PredictNext)
}

// ListStatesParams defines parameters for ListStates.
type ListStatesParams struct {
	From  *time.Time `form:"from" json:"from,omitempty"`
	To    *time.Time `form:"to" json:"to,omitempty"`
	Limit *int       `form:"limit" json:"limit,omitempty"`
}

// ListStates returns stored elevator states, most recent first
// (GET /api/v1/states)
func (s *Server) ListStates(c echo.Context) error {
	ctx := c.Request().Context()

	var params ListStatesParams
	if err := runtime.BindQueryParameter("form", true, false, "from", c.QueryParams(), &params.From); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter from: "+err.Error())
	}
	if err := runtime.BindQueryParameter("form", true, false, "to", c.QueryParams(), &params.To); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter to: "+err.Error())
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &params.Limit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter limit: "+err.Error())
	}

	query := models.StateQuery{From: params.From, To: params.To, Limit: defaultStatesLimit}
	if params.Limit != nil {
		if *params.Limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be positive")
		}
		query.Limit = *params.Limit
	}
	if query.Limit > maxStatesLimit {
		query.Limit = maxStatesLimit
	}
	if query.From != nil && query.To != nil && query.From.After(*query.To) {
		return echo.NewHTTPError(http.StatusBadRequest, "from must not be after to")
	}

	states, err := s.Store.List(ctx, query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if states == nil {
		states = []*models.ElevatorState{}
	}

	return c.JSON(http.StatusOK, states)
}

// LatestState returns the most recently recorded state
// (GET /api/v1/states/latest)
func (s *Server) LatestState(c echo.Context) error {
	ctx := c.Request().Context()

	state, err := s.Store.Last(ctx)
	if errors.Is(err, repository.ErrNoStates) {
		return echo.NewHTTPError(http.StatusNotFound, "no elevator states recorded yet")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, state)
}

// TrafficStats returns aggregate statistics over the stored dataset
// (GET /api/v1/stats)
func (s *Server) TrafficStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := s.Analytics.TrafficStats(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, stats)
}

// GenerateRequest is the body for Generate.
type GenerateRequest struct {
	Rows int `json:"rows"`
}

// Generate runs one generation batch and returns its summary
// (POST /api/v1/generate)
func (s *Server) Generate(c echo.Context) error {
	ctx := c.Request().Context()

	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.Rows < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "rows must not be negative")
	}

	run, err := s.Generator.Generate(ctx, req.Rows)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate states: "+err.Error())
	}

	return c.JSON(http.StatusOK, run)
}

// PredictNext returns the sidecar's prediction for the call after the
// latest recorded state
// (GET /api/v1/predict)
func (s *Server) PredictNext(c echo.Context) error {
	ctx := c.Request().Context()

	last, err := s.Store.Last(ctx)
	if errors.Is(err, repository.ErrNoStates) {
		return echo.NewHTTPError(http.StatusNotFound, "no elevator states recorded yet")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	prediction, err := s.Predictor.NextFloor(ctx, last)
	if errors.Is(err, services.ErrPredictorDisabled) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "prediction sidecar unavailable: "+err.Error())
	}

	return c.JSON(http.StatusOK, prediction)
}
