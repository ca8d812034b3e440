package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/repository"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/services"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

const defaultQueryLimit = 100

type Server struct {
	mcpServer *server.MCPServer
	store     repository.StateStore
	generator *services.GeneratorService
	analytics *services.AnalyticsService
}

func NewServer(store repository.StateStore, generator *services.GeneratorService, analytics *services.AnalyticsService) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Elevator Dataset",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		store:     store,
		generator: generator,
		analytics: analytics,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"generate_states",
			mcp.WithDescription("Generate elevator states and append them to the dataset, resuming from the last stored state"),
			mcp.WithNumber("rows", mcp.Description("How many states to generate; omit to use the building profile default")),
		),
		s.handleGenerateStates,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"latest_state",
			mcp.WithDescription("Return the most recently recorded elevator state"),
		),
		s.handleLatestState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"query_states",
			mcp.WithDescription("List recorded elevator states, most recent first"),
			mcp.WithString("from", mcp.Description("Only states called at or after this RFC3339 timestamp")),
			mcp.WithString("to", mcp.Description("Only states called at or before this RFC3339 timestamp")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of states to return (default 100)")),
		),
		s.handleQueryStates,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"traffic_stats",
			mcp.WithDescription("Aggregate statistics over the stored dataset: totals, busiest floor, and call interval distribution"),
		),
		s.handleTrafficStats,
	)
}

func (s *Server) handleGenerateStates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// All arguments are optional; a missing map means defaults.
	args, _ := request.Params.Arguments.(map[string]interface{})

	rows := 0
	if v, ok := args["rows"].(float64); ok {
		if v < 0 {
			return mcp.NewToolResultError("rows must not be negative"), nil
		}
		rows = int(v)
	}

	run, err := s.generator.Generate(ctx, rows)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to generate states: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(run)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleLatestState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.store.Last(ctx)
	if errors.Is(err, repository.ErrNoStates) {
		return mcp.NewToolResultError("No elevator states recorded yet"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read latest state: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(state)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleQueryStates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	query := models.StateQuery{Limit: defaultQueryLimit}
	if v, ok := args["limit"].(float64); ok {
		if v < 1 {
			return mcp.NewToolResultError("limit must be positive"), nil
		}
		query.Limit = int(v)
	}
	if v, ok := args["from"].(string); ok && v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError("Invalid from timestamp, expected RFC3339"), nil
		}
		query.From = &ts
	}
	if v, ok := args["to"].(string); ok && v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError("Invalid to timestamp, expected RFC3339"), nil
		}
		query.To = &ts
	}

	states, err := s.store.List(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to query states: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(states)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleTrafficStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.analytics.TrafficStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to compute stats: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(stats)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// SSE endpoints
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
