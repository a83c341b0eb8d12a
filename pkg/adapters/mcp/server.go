// Package mcp exposes a Sieve service as a Model Context Protocol server,
// so agents can clean values and inspect the schema catalog as tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/sieve"
	"github.com/aretw0/sieve/pkg/schema"
)

// Service defines the interface required by the MCP server.
type Service interface {
	Clean(ctx context.Context, name string, value any) (any, error)
	Check(ctx context.Context, name string) error
	Names(ctx context.Context) ([]string, error)
	Definition(ctx context.Context, name string) ([]byte, error)
}

// CleanFailure describes a rejected value inside a CleanResponse.
type CleanFailure struct {
	Message string `json:"message" jsonschema_description:"Human-readable reason for the rejection"`
	Value   any    `json:"value,omitempty" jsonschema_description:"The offending value"`
	Trace   string `json:"trace,omitempty" jsonschema_description:"Path from the schema root to the failure"`
}

// CleanResponse is the structured result of the clean_value tool.
type CleanResponse struct {
	Valid bool          `json:"valid" jsonschema_description:"Whether the value passed validation"`
	Value any           `json:"value,omitempty" jsonschema_description:"The coerced value when valid"`
	Error *CleanFailure `json:"error,omitempty" jsonschema_description:"The failure when invalid"`
}

// Server wraps a Sieve service and exposes it over MCP.
type Server struct {
	svc       Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(svc Service) *Server {
	s := &Server{
		svc:       svc,
		mcpServer: server.NewMCPServer("sieve-mcp", sieve.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE, shutting down
// gracefully when ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: clean_value
	cleanTool := mcp.NewTool("clean_value",
		mcp.WithDescription("Validate a value against a named schema and return the coerced result. Invalid values return a structured failure with a trace, not an error."),
		mcp.WithString("schema", mcp.Required(), mcp.Description("Name of the schema to clean against")),
		mcp.WithString("value", mcp.Required(), mcp.Description("The value to clean, encoded as JSON")),
		mcp.WithOutputSchema[CleanResponse](),
	)
	s.mcpServer.AddTool(cleanTool, mcp.NewStructuredToolHandler(s.handleCleanValue))

	// TOOL: check_schema
	checkTool := mcp.NewTool("check_schema",
		mcp.WithDescription("Verify that a named schema definition decodes and is structurally valid."),
		mcp.WithString("schema", mcp.Required(), mcp.Description("Name of the schema to check")),
	)
	s.mcpServer.AddTool(checkTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("schema", "")
		if err := s.svc.Check(ctx, name); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("schema %q is invalid: %v", name, err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("schema %q is valid", name)), nil
	})

	// TOOL: list_schemas
	s.mcpServer.AddTool(mcp.NewTool("list_schemas",
		mcp.WithDescription("List the schema names available in the catalog."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := s.svc.Names(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(names)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleCleanValue(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (CleanResponse, error) {
	name, _ := args["schema"].(string)
	raw, _ := args["value"].(string)

	// UseNumber keeps large integers exact through the any-typed decode.
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return CleanResponse{}, fmt.Errorf("value is not valid JSON: %w", err)
	}

	out, err := s.svc.Clean(ctx, name, value)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			// Rejections are a normal outcome for the caller to inspect.
			return CleanResponse{
				Valid: false,
				Error: &CleanFailure{
					Message: verr.Message,
					Value:   verr.Value,
					Trace:   verr.Trace.String(),
				},
			}, nil
		}
		return CleanResponse{}, fmt.Errorf("clean failed: %w", err)
	}

	return CleanResponse{Valid: true, Value: out}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: sieve://schemas
	s.mcpServer.AddResource(mcp.NewResource("sieve://schemas", "Schema Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.svc.Names(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list schemas: %w", err)
		}

		catalog := make([]map[string]string, 0, len(names))
		for _, name := range names {
			def, err := s.svc.Definition(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("failed to read schema %q: %w", name, err)
			}
			catalog = append(catalog, map[string]string{
				"name":       name,
				"definition": string(def),
			})
		}
		jsonBytes, _ := json.Marshal(catalog)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "sieve://schemas",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
