package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Chunk, categorise and filter the corpus",
	Long: `Reads every document under the configured corpus roots, splits it into
overlapping word windows, tags each chunk with a category and drops chunks
that fail the quality checks. Surviving chunks get sequential ids and are
written to <name>_chunks.json per root and all_chunks.json.

Use --root to process other directories than the configured ones:
  ragindex process --root gnmi=docs/gnmi --root grpc=docs/grpc`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringArrayVar(&corpusRoots, "root", nil, "corpus root as name=path (repeatable)")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, _ []string) error {
	svc, err := requireServices(cmd.Context())
	if err != nil {
		return err
	}
	if svc.Index == nil {
		return errors.New("index service not configured")
	}

	report, err := svc.Index.Process(cmd.Context())
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	printProcessReport(cmd, report)
	return nil
}
