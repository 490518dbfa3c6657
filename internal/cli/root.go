package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/worawit/newslens/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "newslens",
	Short: "NewsLens - news timeline and similarity analysis",
	Long: `NewsLens analyzes how Thai and English news outlets cover the same
story: it fetches articles, extracts entities and keywords, scores
sentiment, groups coverage into a timeline of events, and measures
pairwise article similarity.

Run it as a one-shot CLI (analyze, compare) or as an HTTP API (serve).`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newslens v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.newslens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.newslens")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match NEWSLENS_*
	viper.SetEnvPrefix("NEWSLENS")
	viper.AutomaticEnv()

	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the config file and environment over the defaults.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// NEWSLENS_* environment overrides for deployment knobs.
	if port := viper.GetString("port"); port != "" {
		cfg.Server.Port = port
	}
	if backend := viper.GetString("store_backend"); backend != "" {
		cfg.Store.Backend = backend
	}
	if path := viper.GetString("store_path"); path != "" {
		cfg.Store.Path = path
	}
	if provider := viper.GetString("llm_provider"); provider != "" {
		cfg.LLM.Provider = provider
	}

	// API keys come from the environment only, never the config file.
	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")

	return cfg, nil
}
