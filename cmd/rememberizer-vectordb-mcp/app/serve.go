package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/radutopala/rememberizer-mcp/internal/config"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger, closer, err := config.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	if cfg.File != "" {
		logger.Info("Loaded config", "path", cfg.File)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to start Rememberizer MCP server", "error", err)
		return err
	}

	switch cfg.Transport {
	case config.TransportHTTP:
		logger.Info("Starting Rememberizer MCP server over HTTP", "name", cfg.Server.Name, "version", cfg.Server.Version, "addr", cfg.HTTPAddr)
		err = s.server.ListenAndServe(ctx, cfg.HTTPAddr)
	default:
		logger.Info("Starting Rememberizer MCP server over stdio", "name", cfg.Server.Name, "version", cfg.Server.Version)
		err = s.server.Run(ctx, &mcpsdk.StdioTransport{})
	}

	if err != nil && ctx.Err() == nil {
		logger.Error("Rememberizer MCP server failed", "error", err)
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("Rememberizer MCP server finished")
	return nil
}
