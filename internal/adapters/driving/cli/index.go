package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Run process, embed and load in one pass",
	Long: `Runs the whole pipeline: chunk and filter the corpus, embed the chunks and
rebuild the vector collection. The interchange files are written along the
way so later stages can be re-run on their own.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringArrayVar(&corpusRoots, "root", nil, "corpus root as name=path (repeatable)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	svc, err := requireServices(cmd.Context())
	if err != nil {
		return err
	}
	if svc.Index == nil {
		return errors.New("index service not configured")
	}

	report, err := svc.Index.Index(cmd.Context())
	if err != nil {
		warnPartial(cmd, err)
		return fmt.Errorf("index failed: %w", err)
	}

	printProcessReport(cmd, &report.Process)
	printEmbedReport(cmd, &report.Embed)
	printLoadReport(cmd, &report.Load)
	return nil
}
