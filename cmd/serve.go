package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentic-research/opal/internal/catalog"
	"github.com/agentic-research/opal/internal/mcp"
)

var noCatalog bool

func init() {
	serveCmd.Flags().BoolVar(&noCatalog, "no-catalog", false, "Run without the persistent document catalog")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve document tools over MCP on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cat *catalog.Catalog
		if !noCatalog {
			var err error
			cat, err = catalog.Open(catalogPath())
			if err != nil {
				// The catalog only powers list_documents; keep serving.
				logger.Warn("catalog unavailable", "err", err)
			} else {
				defer cat.Close()
			}
		}

		svc := mcp.NewService(cat, logger)
		logger.Info("serving MCP on stdio", "catalog", cat != nil)
		return mcp.ServeStdio(svc)
	},
}
