// Package app provides the command-line entry point of the Rememberizer vector store MCP server.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/radutopala/rememberizer-mcp/internal/apiclient"
	"github.com/radutopala/rememberizer-mcp/internal/config"
	"github.com/radutopala/rememberizer-mcp/internal/mcp"
	"github.com/radutopala/rememberizer-mcp/internal/resources"
	"github.com/radutopala/rememberizer-mcp/internal/tools"
)

// version is injected at build time with -ldflags "-X .../app.version=..."
var version = "0.1.0"

// NewRootCmd creates the root command. Without a subcommand it serves MCP.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rememberizer-vectordb-mcp",
		Short: "MCP server for a Rememberizer vector store",
		Long: `rememberizer-vectordb-mcp exposes the Rememberizer vector store bound to an API key
to MCP clients. It offers tools to search, list, create, rename and delete documents,
and publishes every document as a rememberizer://document/{id} resource.

Configuration is read from .rememberizer-mcp.json (or --config), the environment
and flags, in increasing order of precedence. REMEMBERIZER_VECTOR_STORE_API_KEY
is required.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	config.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newServeCmd creates the serve command
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio or Streamable HTTP",
		Long: `Resolve the vector store bound to the API key and serve MCP until the client
disconnects or the process is interrupted. Use --transport http to listen on
--http-addr instead of stdio.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rememberizer-vectordb-mcp version %s\n", version)
		},
	}
}

// stack is everything a running server needs
type stack struct {
	client   *apiclient.Client
	store    *apiclient.VectorStore
	registry *tools.Registry
	server   *mcp.VectorDBServer
}

// bootstrap resolves the bound vector store and builds the server. Any failure
// is fatal for the caller.
func bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stack, error) {
	client, err := apiclient.NewClient(cfg.ClientOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	store, err := client.WhoAmI(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vector store: %w", err)
	}
	logger.Info("Resolved vector store", "vector_store_id", store.ID)

	registry, err := tools.NewRegistry(client, store.ID, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool registry: %w", err)
	}

	server, err := mcp.NewVectorDBServer(
		cfg.Server.Name,
		cfg.Server.Version,
		registry,
		resources.New(client, store.ID, logger),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}

	return &stack{
		client:   client,
		store:    store,
		registry: registry,
		server:   server,
	}, nil
}
