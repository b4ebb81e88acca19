package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ragindex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragindex/internal/core/domain"
)

// previewRunes is the content preview length in query output.
const previewRunes = 100

var (
	queryLimit     int
	queryThreshold float32
	queryJSON      bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Query the vector collection",
	Long: `Embeds the query text with the indexing model and returns the closest
chunks whose similarity clears the score threshold, best first.

Limit and threshold default to the retrieval section of the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", domain.DefaultRetrievalLimit, "maximum number of results")
	queryCmd.Flags().Float32Var(&queryThreshold, "threshold", domain.DefaultScoreThreshold, "minimum similarity score")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

type queryResultJSON struct {
	ID       int64   `json:"id"`
	Score    float32 `json:"score"`
	Category string  `json:"category"`
	Source   string  `json:"source"`
	Content  string  `json:"content"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	svc, err := requireServices(cmd.Context())
	if err != nil {
		return err
	}
	if svc.Retrieval == nil {
		return errors.New("retrieval service not configured")
	}

	opts := domain.RetrievalOptions{
		Limit:          svc.Settings.Retrieval.Limit,
		ScoreThreshold: svc.Settings.Retrieval.ScoreThreshold,
	}
	if cmd.Flags().Changed("limit") || opts.Limit <= 0 {
		opts.Limit = queryLimit
	}
	if cmd.Flags().Changed("threshold") {
		opts.ScoreThreshold = queryThreshold
	}

	retrieval, err := svc.Retrieval.Retrieve(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, retrieval)
	}

	s := styles.PlainStyles()
	if term.IsTerminal(int(os.Stdout.Fd())) {
		s = styles.DefaultStyles()
	}
	outputQueryText(cmd, s, retrieval)
	return nil
}

func outputQueryJSON(cmd *cobra.Command, retrieval domain.Retrieval) error {
	results := make([]queryResultJSON, 0, retrieval.Len())
	for _, r := range retrieval.Results {
		results = append(results, queryResultJSON{
			ID:       r.ID,
			Score:    r.Score,
			Category: r.Payload.Category.String(),
			Source:   r.Payload.Source,
			Content:  r.Payload.Content,
		})
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func outputQueryText(cmd *cobra.Command, s *styles.Styles, retrieval domain.Retrieval) {
	out := cmd.OutOrStdout()
	if retrieval.Empty() {
		fmt.Fprintln(out, "No results found.")
		return
	}

	fmt.Fprintln(out, s.Title.Render(fmt.Sprintf("Results for %q:", retrieval.Query)))
	fmt.Fprintln(out)
	for i, r := range retrieval.Results {
		score := s.Score(r.Score).Render(fmt.Sprintf("%.3f", r.Score))
		fmt.Fprintf(out, "[%d] Score: %s\n", i+1, score)
		fmt.Fprintf(out, "    Category: %s\n", s.Category.Render(r.Payload.Category.String()))
		fmt.Fprintf(out, "    Source: %s\n", s.Source.Render(r.Payload.Source))
		fmt.Fprintf(out, "    %s\n", s.Muted.Render(contentPreview(r.Payload.Content, previewRunes)))
		fmt.Fprintln(out)
	}
}

// contentPreview flattens whitespace and cuts s to n runes.
func contentPreview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
