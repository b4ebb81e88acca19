package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Rebuild the vector collection",
	Long: `Reads chunks_with_embeddings.json, drops the existing collection, creates
it again with the configured dimension and cosine distance, and upserts the
points in batches. The point count is verified afterwards.

An interrupted load leaves the collection partially populated. Run load again
to rebuild it; 'ragindex status' reports a partial load.`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, _ []string) error {
	svc, err := requireServices(cmd.Context())
	if err != nil {
		return err
	}
	if svc.Index == nil {
		return errors.New("index service not configured")
	}

	report, err := svc.Index.Load(cmd.Context())
	if err != nil {
		warnPartial(cmd, err)
		return fmt.Errorf("load failed: %w", err)
	}

	printLoadReport(cmd, report)
	return nil
}

func warnPartial(cmd *cobra.Command, err error) {
	if errors.Is(err, domain.ErrPartialLoad) {
		cmd.PrintErrln("Warning: the collection is partially loaded. Run 'ragindex load' to rebuild it.")
	}
}
