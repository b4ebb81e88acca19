package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed the processed chunks",
	Long: `Reads all_chunks.json, sends the chunk texts to the embedding provider in
batches and writes chunks_with_embeddings.json. Every chunk must come back
with a vector of the configured dimension or nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	svc, err := requireServices(cmd.Context())
	if err != nil {
		return err
	}
	if svc.Index == nil {
		return errors.New("index service not configured")
	}

	report, err := svc.Index.Embed(cmd.Context())
	if err != nil {
		return fmt.Errorf("embed failed: %w", err)
	}

	printEmbedReport(cmd, report)
	return nil
}
