package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/athena-mcp/internal/athena"
	"github.com/teemow/athena-mcp/internal/instrumentation"
	"github.com/teemow/athena-mcp/internal/logging"
	"github.com/teemow/athena-mcp/internal/server"
	"github.com/teemow/athena-mcp/internal/tools/scheduling_tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// ServeConfig holds the options of the serve command.
type ServeConfig struct {
	Transport string
	HTTPAddr  string
	Debug     bool
	ReadOnly  bool
	EnvFile   string
	Metrics   MetricsConfig
}

func newServeCmd() *cobra.Command {
	var config ServeConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing athenahealth
scheduling tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on /mcp

Configuration:
  ATHENA_CLIENT_ID, ATHENA_CLIENT_SECRET and ATHENA_PRACTICE_ID are required.
  ATHENA_BASE_URL defaults to https://api.athenahealth.com.
  Variables are also read from a .env file in the working directory
  (or the file given with --env-file); set variables take precedence.

Safety Mode:
  Use --read-only to hide create_appointment, update_appointment and
  cancel_appointment.

Unknown tools:
  Calls to a tool that is not registered (including write tools in
  read-only mode) are rejected by the MCP layer with a JSON-RPC error
  rather than an "Error: Unknown tool: <name>" tool result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("metrics-enabled") {
				if v := os.Getenv("METRICS_ENABLED"); v != "" {
					config.Metrics.Enabled = v == "true"
				}
			}
			if !cmd.Flags().Changed("metrics-addr") {
				if addr := os.Getenv("METRICS_ADDR"); addr != "" {
					config.Metrics.Addr = addr
				}
			}
			return runServe(config)
		},
	}

	cmd.Flags().BoolVar(&config.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&config.Transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&config.HTTPAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&config.ReadOnly, "read-only", false, "Only expose tools that do not modify appointments")
	cmd.Flags().StringVar(&config.EnvFile, "env-file", "", "Load environment variables from this file instead of ./.env")

	// Metrics server configuration
	cmd.Flags().BoolVar(&config.Metrics.Enabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port (streamable-http only). Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&config.Metrics.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// newLogger returns the process logger. Logs always go to stderr because
// stdout carries the protocol in stdio mode.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runServe(config ServeConfig) error {
	if config.Transport != transportStdio && config.Transport != transportStreamableHTTP {
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", config.Transport)
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(config.Debug)
	slog.SetDefault(logger)

	var envFiles []string
	if config.EnvFile != "" {
		envFiles = append(envFiles, config.EnvFile)
	}
	if err := athena.LoadDotEnv(envFiles...); err != nil {
		return err
	}

	cred, err := athena.LoadCredentialFromEnv()
	if err != nil {
		return err
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	instrConfig.PracticeID = cred.PracticeID
	instrConfig.BaseURL = cred.BaseURL
	instrConfig.Transport = config.Transport
	instrConfig.ReadOnly = config.ReadOnly
	if config.Transport == transportStdio {
		// stdout carries the protocol; prometheus keeps metrics in-process.
		if instrConfig.MetricsExporter == instrumentation.ExporterStdout {
			instrConfig.MetricsExporter = instrumentation.ExporterPrometheus
		}
		if instrConfig.TracingExporter == instrumentation.ExporterStdout {
			instrConfig.TracingExporter = instrumentation.ExporterNone
		}
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Error("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	clientOpts := []athena.Option{athena.WithLogger(logging.NewSlogAdapter(logger))}
	if provider.Enabled() {
		clientOpts = append(clientOpts, athena.WithMetrics(provider.Metrics()))
	}
	client := athena.NewClient(cred, clientOpts...)

	serverContext := server.NewServerContext(shutdownCtx, client, config.ReadOnly)
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("athena-mcp", version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := registerAllTools(mcpSrv, serverContext, config.ReadOnly); err != nil {
		return err
	}

	logger.Info("starting athena-mcp",
		"transport", config.Transport,
		logging.PracticeID(cred.PracticeID),
		"base_url", cred.BaseURL,
		"read_only", config.ReadOnly)

	switch config.Transport {
	case transportStreamableHTTP:
		metricsServer, err := startMetricsServer(config.Metrics, provider)
		if err != nil {
			return err
		}
		if metricsServer != nil {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := metricsServer.Shutdown(ctx); err != nil {
					logger.Error("error during metrics server shutdown", logging.Err(err))
				}
			}()
		}
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, config.HTTPAddr)
	default:
		return runStdioServer(mcpSrv)
	}
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := scheduling_tools.RegisterSchedulingTools(mcpSrv, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register scheduling tools: %w", err)
	}
	return nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// startMetricsServer starts the Prometheus endpoint when it is enabled and the
// provider exports through Prometheus. It returns nil when nothing was started.
func startMetricsServer(config MetricsConfig, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	if !config.Enabled || !provider.PrometheusEnabled() {
		return nil, nil
	}

	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    config.Addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		slog.Info("metrics server started", "addr", metricsServer.Addr())
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr string) error {
	httpServer := server.NewHTTPServer(mcpSrv, sc)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		slog.Info("HTTP server stopped normally")
	}

	slog.Info("HTTP server gracefully stopped")
	return nil
}
