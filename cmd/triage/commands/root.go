// Package commands implements the Triage-Bot CLI commands.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/triagehq/triage-bot/internal/core/config"
	"github.com/triagehq/triage-bot/internal/integrations/github"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Classify, label and de-duplicate GitHub issues",
	Long: `Triage-Bot classifies GitHub issues into categories, suggests labels,
scores issue quality and groups near-duplicate issues, across one or
many repositories.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: .github/triage.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// loadConfig resolves the config path and loads it with extends inheritance.
// Missing or broken configs degrade to defaults with a warning.
func loadConfig() *config.Config {
	cfgPath := cfgFile
	if cfgPath == "" {
		cfgPath = config.FindConfigPath("")
	}

	if cfgPath == "" {
		if verbose {
			fmt.Println("No configuration file found. Using defaults and environment variables.")
		}
		cfg := &config.Config{}
		cfg.ApplyDefaults()
		return cfg
	}

	cfg, err := config.LoadWithInheritance(cfgPath, fetchRemoteConfig)
	if err != nil {
		fmt.Printf("Warning: Failed to load config from %s: %v. Using defaults.\n", cfgPath, err)
		cfg = &config.Config{}
		cfg.ApplyDefaults()
		return cfg
	}
	if verbose {
		fmt.Printf("Loaded config from %s\n", cfgPath)
	}
	return cfg
}

// fetchRemoteConfig retrieves a parent config referenced by 'extends'.
func fetchRemoteConfig(ref string) ([]byte, error) {
	org, repo, branch, path, err := config.ParseExtendsRef(ref)
	if err != nil {
		return nil, err
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN required to fetch remote config %s", ref)
	}

	ghClient := github.NewClient(context.Background(), token)
	return ghClient.GetFileContent(context.Background(), org, repo, branch, path)
}
