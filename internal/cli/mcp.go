package cli

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/sieve/internal/logging"
	mcpAdapter "github.com/aretw0/sieve/pkg/adapters/mcp"
)

// MCPOptions configures the MCP server command.
type MCPOptions struct {
	GlobalOptions
	Transport string // "stdio" or "sse"
	Port      int    // only for SSE
}

// RunMCP exposes the service to AI agents over the Model Context Protocol.
func RunMCP(opts MCPOptions) error {
	// MCP diagnostics always go to stderr so stdio transport keeps a clean
	// JSON-RPC channel on stdout.
	logger := logging.New(slog.LevelDebug)
	if !opts.Debug {
		logger = logging.New(slog.LevelInfo)
	}
	slog.SetDefault(logger)

	svc, err := newService(opts.GlobalOptions, logger)
	if err != nil {
		return err
	}

	srv := mcpAdapter.NewServer(svc)

	switch opts.Transport {
	case "stdio":
		log.SetOutput(os.Stderr)
		slog.Info("Starting Sieve MCP Server (Stdio)...")
		if err := srv.ServeStdio(); err != nil {
			return fmt.Errorf("MCP server execution failed: %w", err)
		}
	case "sse":
		slog.Info("Starting Sieve MCP Server (SSE)", "port", opts.Port)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.ServeSSE(ctx, opts.Port); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("MCP server execution failed: %w", err)
		}
		slog.Info("MCP Server stopped gracefully")
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio, sse)", opts.Transport)
	}
	return nil
}
