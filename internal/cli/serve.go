package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/worawit/newslens/internal/pipeline"
	"github.com/worawit/newslens/internal/server"
	"github.com/worawit/newslens/internal/store"
)

var servePort string

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the NewsLens HTTP API",
	Long: `Start the HTTP API server.

Endpoints:
  POST /api/analyze-news      analyze a batch of article URLs
  POST /api/compare-articles  compare two articles
  GET  /api/timeline/:id      timeline of a stored analysis
  GET  /api/similarity/:id    stored comparison
  GET  /api/articles          all stored articles
  GET  /api/health            health check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != "" {
			cfg.Server.Port = servePort
		}

		st, err := store.Open(cfg.Store)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			if err := st.Close(); err != nil {
				log.Error("close store", "err", err)
			}
		}()

		p := pipeline.NewPipeline(cfg, st)
		return server.Run(cfg, p, st)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
