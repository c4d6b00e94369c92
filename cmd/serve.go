package cmd

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/olgasafonova/confluence-upload/internal/confluence"
	"github.com/olgasafonova/confluence-upload/internal/infra"
	"github.com/olgasafonova/confluence-upload/internal/uploader"
	"github.com/olgasafonova/confluence-upload/internal/version"
	"github.com/olgasafonova/confluence-upload/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as an MCP server over stdio",
	Long: `Serve the upload operations as Model Context Protocol tools over stdin/stdout.
--instance, --space and credentials are fixed for the lifetime of the server;
--dry-run applies to every tool call.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		finish, err := startRun(cmd.Context())
		if err != nil {
			return err
		}
		defer finish()

		client := confluence.NewClient(cfg, logger)
		u := uploader.New(client,
			uploader.WithPacer(infra.NewPacer(delay)),
			uploader.WithLogger(logger),
			uploader.WithExtension(ext),
		)

		server := mcp.NewServer(&mcp.Implementation{
			Name:    "confluence-upload",
			Version: version.Version,
		}, &mcp.ServerOptions{
			Logger:       logger,
			Instructions: tools.Instructions(),
		})
		tools.NewHandlerRegistry(u, logger).RegisterAll(server)

		logger.Info("Starting MCP server",
			"version", version.Version,
			"space", cfg.SpaceKey,
			"dry_run", cfg.DryRun)

		return server.Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
