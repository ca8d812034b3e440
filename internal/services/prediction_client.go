package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/logging"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

// HTTPPredictionClient is an HTTP implementation of the Predictor
// interface. Calls go through a circuit breaker so a dead sidecar fails
// fast instead of stalling every request.
type HTTPPredictionClient struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPPredictionClient creates a new HTTPPredictionClient. An empty
// url produces a client whose calls return ErrPredictorDisabled.
func NewHTTPPredictionClient(url string, logger *logging.Logger) *HTTPPredictionClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "prediction-sidecar",
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"name", name, "from", from.String(), "to", to.String())
		},
	})

	return &HTTPPredictionClient{
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		breaker: breaker,
	}
}

// NextFloor predicts the floor the cab will be called to after the
// given state.
func (c *HTTPPredictionClient) NextFloor(ctx context.Context, state *models.ElevatorState) (*models.Prediction, error) {
	if c.url == "" {
		return nil, ErrPredictorDisabled
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.predict(ctx, state)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Prediction), nil
}

func (c *HTTPPredictionClient) predict(ctx context.Context, state *models.ElevatorState) (*models.Prediction, error) {
	requestBody, err := json.Marshal(map[string]int{
		"current_floor": state.CurrentFloor,
		"demand_floor":  state.DemandFloor,
		"next_floor":    state.NextFloor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url+"/predict", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get prediction: status code %d", resp.StatusCode)
	}

	var prediction models.Prediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return &prediction, nil
}
