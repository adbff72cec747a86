// Package cli implements the htmlimage command line.
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"htmlimage/internal/config"
	"htmlimage/pkg/resource"
	stdnet "htmlimage/std/net"
)

var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "htmlimage",
	Short: "Resolve and draw HTML image sizes",
	Long: `htmlimage decides the display size of HTML images.

Sizes come from explicit width/height, then style layers, then the image's
intrinsic size scaled to an optional maximum width. Images that cannot be
probed fall back to a fixed size, and images that cannot be drawn are shown
as a placeholder with their alt text.

Configuration: ~/.htmlimage/config.yaml (override with --config or
HTMLIMAGE_CONFIG).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			log.SetOutput(cmd.ErrOrStderr())
			log.SetFlags(0)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "htmlimage %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ~/.htmlimage/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "timestamp log output")
	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLoader() (*config.Loader, error) {
	return config.ResolveLoader(configPath)
}

func loadConfig() (*config.Config, error) {
	loader, err := newLoader()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newFetcher builds a fetcher that resolves relative URIs against base.
func newFetcher(cfg *config.Config, base string) *resource.DefaultFetcher {
	client := stdnet.NewClient(cfg.Fetch.Timeout, cfg.Fetch.UserAgent)
	return resource.NewFetcherWithClient(base, client)
}
