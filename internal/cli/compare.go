package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/worawit/newslens/internal/pipeline"
	"github.com/worawit/newslens/internal/store"
)

var compareOutput string

// compareCmd compares two articles from the command line.
var compareCmd = &cobra.Command{
	Use:   "compare <url1> <url2>",
	Short: "Compare two news articles",
	Long: `Fetch two articles and compute their similarity: content score,
shared and differing entities and keywords, sentiment gap, and the
paragraphs unique to each side. Prints the comparison as JSON.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.Store)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() { _ = st.Close() }()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p := pipeline.NewPipeline(cfg, st)
		cmp, err := p.CompareURLs(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		return writeJSON(cmp, compareOutput)
	},
}

func init() {
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "", "write JSON to file instead of stdout")
	rootCmd.AddCommand(compareCmd)
}
