package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/logging"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

func TestNextFloor_Disabled(t *testing.T) {
	client := NewHTTPPredictionClient("", logging.NewLogger())

	_, err := client.NextFloor(context.Background(), &models.ElevatorState{})
	assert.ErrorIs(t, err, ErrPredictorDisabled)
}

func TestNextFloor_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 2, body["current_floor"])

		json.NewEncoder(w).Encode(models.Prediction{NextFloor: 4, Confidence: 0.8, Model: "markov-v1"})
	}))
	defer server.Close()

	client := NewHTTPPredictionClient(server.URL, logging.NewLogger())
	prediction, err := client.NextFloor(context.Background(), &models.ElevatorState{
		CurrentFloor: 2,
		DemandFloor:  5,
		NextFloor:    3,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, prediction.NextFloor)
	assert.InDelta(t, 0.8, prediction.Confidence, 1e-9)
	assert.Equal(t, "markov-v1", prediction.Model)
}

func TestNextFloor_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPPredictionClient(server.URL, logging.NewLogger())
	state := &models.ElevatorState{CurrentFloor: 1, DemandFloor: 2, NextFloor: 3}

	for i := 0; i < 4; i++ {
		_, err := client.NextFloor(context.Background(), state)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status code 500")
	}

	// The fourth consecutive failure trips the breaker.
	_, err := client.NextFloor(context.Background(), state)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
