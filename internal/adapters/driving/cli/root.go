// Package cli provides the ragindex command line interface.
// It is a driving adapter: commands translate flags into calls on the
// driving ports and print the outcome.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/core/ports/driving"
	"github.com/custodia-labs/ragindex/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgFile     string
	verbose     bool
	corpusRoots []string
)

// Services holds the driving ports the commands run against.
type Services struct {
	Index     driving.IndexService
	Retrieval driving.RetrievalService
	Runs      driving.RunService

	// Settings are the effective settings the services were built from.
	Settings domain.Settings

	// Close releases the stores behind the services. Optional.
	Close func() error
}

// Bootstrap opens configuration and wires services on demand.
// Commands that only touch configuration never build services.
type Bootstrap interface {
	// Config opens the configuration file. An empty path uses the default.
	Config(path string) (driven.ConfigStore, error)

	// Settings resolves and validates the effective settings.
	Settings(store driven.ConfigStore) (domain.Settings, error)

	// Services wires the pipeline for the given settings.
	Services(ctx context.Context, settings domain.Settings) (*Services, error)
}

var (
	bootstrap   Bootstrap
	configStore driven.ConfigStore
	current     *Services
)

var rootCmd = &cobra.Command{
	Use:   "ragindex",
	Short: "Build and query a retrieval index over a text corpus",
	Long: `ragindex splits a corpus into overlapping word windows, tags each chunk
with a category, drops low-quality chunks, embeds the rest and loads them
into a vector collection that can be queried by similarity.

Run the stages one at a time (process, embed, load) or all at once (index),
then ask questions with query, tui or the MCP server.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.ragindex/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug output")
}

// SetBootstrap sets how configuration and services are created.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects ready-made services, bypassing the bootstrap.
func SetServices(s *Services) {
	current = s
}

// SetConfigStore injects a configuration store, bypassing the bootstrap.
func SetConfigStore(store driven.ConfigStore) {
	configStore = store
}

// Execute runs the root command and releases any services it built.
// Command output goes to stdout; errors and warnings go to stderr.
func Execute(ctx context.Context) error {
	defer closeServices()
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
	return rootCmd.ExecuteContext(ctx)
}

func closeServices() {
	if current == nil || current.Close == nil {
		return
	}
	if err := current.Close(); err != nil {
		logger.Warn("closing services: %v", err)
	}
}

func requireConfig() (driven.ConfigStore, error) {
	if configStore != nil {
		return configStore, nil
	}
	if bootstrap == nil {
		return nil, errors.New("configuration not available")
	}
	store, err := bootstrap.Config(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	configStore = store
	return store, nil
}

// requireServices returns the injected services or builds them from the
// configuration. --root flags replace the configured corpus roots.
func requireServices(ctx context.Context) (*Services, error) {
	if current != nil {
		return current, nil
	}
	if bootstrap == nil {
		return nil, errors.New("services not configured")
	}

	store, err := requireConfig()
	if err != nil {
		return nil, err
	}
	settings, err := bootstrap.Settings(store)
	if err != nil {
		return nil, err
	}
	if len(corpusRoots) > 0 {
		settings.Corpus.Roots = parseRoots(corpusRoots)
		if err := settings.Corpus.Validate(); err != nil {
			return nil, err
		}
	}

	built, err := bootstrap.Services(ctx, settings)
	if err != nil {
		return nil, err
	}
	current = built
	return current, nil
}

func parseRoots(args []string) []domain.CorpusRoot {
	roots := make([]domain.CorpusRoot, 0, len(args))
	for _, arg := range args {
		root := domain.ParseCorpusRoot(arg)
		if root.Path == "" {
			continue
		}
		roots = append(roots, root)
	}
	return roots
}
