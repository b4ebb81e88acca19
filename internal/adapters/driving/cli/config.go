package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
)

// embeddingValidator pings the provider after "config embedding". Optional.
var embeddingValidator driven.AIConfigValidator

// SetEmbeddingValidator sets the validator used by "config embedding".
func SetEmbeddingValidator(v driven.AIConfigValidator) {
	embeddingValidator = v
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the ragindex configuration file.

Keys use dot notation matching the TOML tables, for example chunk.size,
embedding.provider or store.collection.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save the file.

Integers, decimals and booleans are stored with their type; anything else is
stored as a string. Lists take comma separated values:
  ragindex config set corpus.roots "gnmi=docs/gnmi,grpc=docs/grpc"`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long:  `Interactively choose the embedding provider, model and API key.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigEmbedding,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configEmbeddingCmd)
	rootCmd.AddCommand(configCmd)
}

// resolveSettings returns the settings in effect for this invocation.
func resolveSettings(store driven.ConfigStore) (domain.Settings, error) {
	if current != nil {
		return current.Settings, nil
	}
	if bootstrap == nil {
		return domain.Settings{}, errors.New("configuration not available")
	}
	return bootstrap.Settings(store)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := requireConfig()
	if err != nil {
		return err
	}

	settings, err := resolveSettings(store)
	if err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'ragindex config set <key> <value>' to fix configuration issues.")
		return nil
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("File: %s\n", store.Path())
	cmd.Println()

	cmd.Println("[Corpus]")
	if len(settings.Corpus.Roots) == 0 {
		cmd.Println("  Roots: (none)")
	}
	for _, root := range settings.Corpus.Roots {
		cmd.Printf("  Root: %s -> %s\n", root.Path, root.OutputFile())
	}
	cmd.Printf("  Extensions: %s\n", strings.Join(settings.Corpus.Extensions, ", "))
	cmd.Printf("  Output dir: %s\n", settings.Corpus.OutputDir)
	cmd.Println()

	cmd.Println("[Chunk]")
	cmd.Printf("  Size: %d words, overlap %d, min %d chars\n",
		settings.Chunk.Size, settings.Chunk.Overlap, settings.Chunk.MinChars)
	cmd.Println()

	cmd.Println("[Quality]")
	cmd.Printf("  Min length: %d\n", settings.Quality.MinLength)
	cmd.Printf("  Min space ratio: %.2f\n", settings.Quality.MinSpaceRatio)
	cmd.Printf("  Min alpha ratio: %.2f\n", settings.Quality.MinAlphaRatio)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		if settings.Embedding.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	cmd.Printf("  Batch size: %d, workers %d\n", settings.Embedding.BatchSize, settings.Embedding.Workers)
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Kind: %s\n", settings.Store.Kind)
	if settings.Store.Kind == domain.StoreQdrant {
		cmd.Printf("  Address: %s:%d\n", settings.Store.Host, settings.Store.Port)
	}
	cmd.Printf("  Collection: %s\n", settings.Store.Collection)
	cmd.Printf("  Distance: %s\n", settings.Store.Distance)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Limit: %d\n", settings.Retrieval.Limit)
	cmd.Printf("  Score threshold: %.2f\n", settings.Retrieval.ScoreThreshold)
	cmd.Println()

	if settings.Embedding.IsConfigured() {
		cmd.Println("Configuration is valid.")
	} else {
		cmd.Println("Warning: embedding provider is not configured.")
		cmd.Println("Run 'ragindex config embedding' to configure it.")
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	store, err := requireConfig()
	if err != nil {
		return err
	}
	cmd.Println(store.Path())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := requireConfig()
	if err != nil {
		return err
	}

	key := strings.TrimSpace(args[0])
	if key == "" {
		return fmt.Errorf("%w: empty key", domain.ErrInvalidInput)
	}

	value := parseValue(args[1])
	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %v\n", key, value)
	return nil
}

// parseValue types a command line value the way TOML would.
func parseValue(s string) any {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func runConfigEmbedding(cmd *cobra.Command, _ []string) error {
	store, err := requireConfig()
	if err != nil {
		return err
	}
	return configureEmbeddingProvider(cmd, store, bufio.NewReader(cmd.InOrStdin()))
}

var defaultEmbeddingModels = map[domain.AIProvider]string{
	domain.AIProviderTEI:    "sentence-transformers/all-MiniLM-L6-v2",
	domain.AIProviderOllama: "all-minilm",
	domain.AIProviderOpenAI: "text-embedding-3-small",
}

func configureEmbeddingProvider(cmd *cobra.Command, store driven.ConfigStore, reader *bufio.Reader) error {
	providers := []domain.AIProvider{domain.AIProviderTEI, domain.AIProviderOllama, domain.AIProviderOpenAI}

	cmd.Println("Select Embedding Provider")
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaultModel := defaultEmbeddingModels[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	cmd.Printf("Enter base URL (empty for default): ")
	baseURL := readLine(reader)

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if embeddingValidator != nil {
		cmd.Print("Validating configuration... ")
		err := embeddingValidator.ValidateEmbedding(&domain.EmbeddingSettings{
			Provider: provider,
			Model:    model,
			BaseURL:  baseURL,
			APIKey:   apiKey,
			Timeout:  domain.DefaultEmbeddingTimeout,
		})
		if err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("embedding configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	values := map[string]any{
		"embedding.provider": provider.String(),
		"embedding.model":    model,
	}
	if baseURL != "" {
		values["embedding.base_url"] = baseURL
	}
	if apiKey != "" {
		values["embedding.api_key"] = apiKey
	}
	for key, value := range values {
		if err := store.Set(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	cmd.Printf("Embedding provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func readPassword(reader *bufio.Reader) string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
