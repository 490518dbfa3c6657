package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/worawit/newslens/internal/pipeline"
	"github.com/worawit/newslens/internal/store"
)

var (
	analyzeFile    string
	analyzeOutput  string
	analyzeWorkers int
)

// analyzeCmd runs one analysis batch from the command line.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [urls...]",
	Short: "Analyze news article URLs into a timeline",
	Long: `Fetch and analyze a batch of news article URLs, group them into
timeline events, and print the analysis as JSON.

URLs come from arguments, from --file (one URL per line, # comments
allowed), or both.`,
	Example: `  newslens analyze https://www.bangkokpost.com/thailand/politics/12345
  newslens analyze --file urls.txt --output analysis.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		urls := append([]string{}, args...)
		if analyzeFile != "" {
			fromFile, err := readURLFile(analyzeFile)
			if err != nil {
				return err
			}
			urls = append(urls, fromFile...)
		}
		if len(urls) == 0 {
			return errors.New("no URLs given: pass them as arguments or via --file")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if analyzeWorkers > 0 {
			cfg.Concurrency.FetchWorkers = analyzeWorkers
		}

		st, err := store.Open(cfg.Store)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() { _ = st.Close() }()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p := pipeline.NewPipeline(cfg, st)
		analysis, err := p.AnalyzeURLs(ctx, urls)
		if err != nil {
			if errors.Is(err, pipeline.ErrNoArticles) {
				for _, f := range analysis.Failures {
					fmt.Fprintf(os.Stderr, "  %s: %s (%s)\n", f.URL, f.Reason, f.Stage)
				}
			}
			return err
		}

		for _, f := range analysis.Failures {
			fmt.Fprintf(os.Stderr, "warning: %s: %s (%s)\n", f.URL, f.Reason, f.Stage)
		}

		return writeJSON(analysis, analyzeOutput)
	},
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open URL file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "file with URLs, one per line")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write JSON to file instead of stdout")
	analyzeCmd.Flags().IntVarP(&analyzeWorkers, "workers", "w", 0, "fetch worker count (default from config)")
	rootCmd.AddCommand(analyzeCmd)
}
