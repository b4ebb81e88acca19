package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent pipeline runs",
	Long: `Lists the most recent process, embed and load runs from the run ledger
and reports whether the last load left the collection complete.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	svc, err := requireServices(cmd.Context())
	if err != nil {
		return err
	}
	if svc.Runs == nil {
		return errors.New("run service not configured")
	}

	runs, err := svc.Runs.Recent(cmd.Context(), statusLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	cmd.Println("Recent runs:")
	for i := range runs {
		printRun(cmd, &runs[i])
	}
	cmd.Println()

	last, err := svc.Runs.LastLoad(cmd.Context())
	switch {
	case errors.Is(err, domain.ErrNotFound):
		cmd.Println("The collection has never been loaded.")
	case err != nil:
		return fmt.Errorf("failed to get last load: %w", err)
	case last.Partial():
		cmd.Printf("Warning: collection %q is partially loaded (%d/%d points). Run 'ragindex load' to rebuild it.\n",
			last.Collection, last.Completed, last.Total)
	case last.Status == domain.RunStatusComplete:
		cmd.Printf("Collection %q holds %d points (%s, %d dimensions).\n",
			last.Collection, last.Completed, last.Model, last.Dimensions)
	default:
		cmd.Printf("Last load of %q is %s.\n", last.Collection, last.Status)
	}
	return nil
}

func printRun(cmd *cobra.Command, run *domain.Run) {
	cmd.Printf("  %s  %-7s  %-8s  %d/%d",
		run.StartedAt.Local().Format(time.DateTime), run.Stage, run.Status, run.Completed, run.Total)
	if run.Partial() {
		cmd.Print("  [partial]")
	}
	cmd.Println()
	if run.Error != "" {
		cmd.Printf("      error: %s\n", run.Error)
	}
}
