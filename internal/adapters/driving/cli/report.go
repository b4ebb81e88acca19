package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragindex/internal/core/domain"
)

func printProcessReport(cmd *cobra.Command, report *domain.ProcessReport) {
	cmd.Println("Processed corpus:")
	for _, root := range report.Roots {
		cmd.Printf("  %-20s %4d documents, %5d chunks, %5d kept -> %s\n",
			rootLabel(root.Root), root.Documents, root.Produced, root.Kept, root.Root.OutputFile())
	}

	if len(report.Skipped) > 0 {
		cmd.Printf("Skipped %d unreadable document(s):\n", len(report.Skipped))
		for _, skipped := range report.Skipped {
			cmd.Printf("  %s: %v\n", skipped.Source, skipped.Err)
		}
	}

	if report.Empty() {
		cmd.Println("No chunks survived filtering.")
		return
	}

	first, last := report.Chunks[0].ID, report.Chunks[len(report.Chunks)-1].ID
	cmd.Printf("Kept %d of %d chunks (ids %d-%d) -> %s\n",
		len(report.Chunks), report.Produced(), first, last, domain.AllChunksFile)
}

func printEmbedReport(cmd *cobra.Command, report *domain.EmbedReport) {
	if len(report.Chunks) == 0 {
		cmd.Println("No chunks to embed.")
		return
	}
	cmd.Printf("Embedded %d chunks in %d batch(es) with %s (%d dimensions) -> %s\n",
		len(report.Chunks), report.Batches, report.Model, report.Dimensions, domain.EmbeddedChunksFile)
}

func printLoadReport(cmd *cobra.Command, report *domain.LoadReport) {
	if report.Empty() {
		cmd.Printf("Nothing to load; collection %q left unchanged.\n", report.Collection)
		return
	}
	if report.Deleted {
		cmd.Printf("Dropped existing collection %q.\n", report.Collection)
	}
	cmd.Printf("Loaded %d points into %q in %d batch(es).\n", report.Points, report.Collection, report.Batches)
}

func rootLabel(root domain.CorpusRoot) string {
	if root.Name != "" {
		return root.Name
	}
	return root.Path
}
