package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
)

var (
	queryMaxResults int
	queryCategory   string
	queryLocation   string
	queryAfter      string
	queryBefore     string
	queryJSON       bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question about the event corpus",
	Long: `Answers a natural-language question grounded on the indexed corpus.
Filters narrow the candidate events by date, category, or location before
reranking and answer synthesis.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryMaxResults, "max-results", "n", 0, "number of answer sources (default 5)")
	queryCmd.Flags().StringVar(&queryCategory, "category", "", "filter by event category")
	queryCmd.Flags().StringVar(&queryLocation, "location", "", "filter by event location (substring)")
	queryCmd.Flags().StringVar(&queryAfter, "after", "", "earliest event date (YYYY-MM-DD)")
	queryCmd.Flags().StringVar(&queryBefore, "before", "", "latest event date (YYYY-MM-DD)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the response as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	ctx := cmd.Context()

	req, err := buildQueryRequest(args[0])
	if err != nil {
		return err
	}

	// The index lives in memory, so each process hydrates it from the
	// persisted chunks first. With an unchanged corpus this embeds nothing.
	if _, err := indexService.Rebuild(ctx); err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}

	resp, err := queryService.Query(ctx, req)
	if err != nil {
		return err
	}

	if queryJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printResponse(cmd, resp)
	return nil
}

// buildQueryRequest assembles the request from the question and flags.
func buildQueryRequest(question string) (domain.QueryRequest, error) {
	req := domain.QueryRequest{
		Question:   question,
		MaxResults: queryMaxResults,
		Filters: domain.QueryFilters{
			Category: queryCategory,
			Location: queryLocation,
		},
	}

	var err error
	if req.Filters.DateMin, err = parseDateFlag(queryAfter); err != nil {
		return req, fmt.Errorf("--after: %w", err)
	}
	if req.Filters.DateMax, err = parseDateFlag(queryBefore); err != nil {
		return req, fmt.Errorf("--before: %w", err)
	}
	return req, nil
}

// parseDateFlag parses a YYYY-MM-DD flag value; empty means unset.
func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

func printResponse(cmd *cobra.Command, resp *domain.QueryResponse) {
	cmd.Println(answerStyle.Render(resp.Answer))
	cmd.Println()

	if len(resp.Sources) > 0 {
		cmd.Println(headingStyle.Render("Sources"))
		for i, src := range resp.Sources {
			line := fmt.Sprintf("  [%d] %s — %s", i+1, src.Title, src.Date.Format("2 Jan 2006"))
			if src.Location != "" {
				line += ", " + src.Location
			}
			cmd.Println(line)
			if src.URL != "" {
				cmd.Println(mutedStyle.Render("      " + src.URL))
			}
		}
		cmd.Println()
	}

	cmd.Println(mutedStyle.Render(fmt.Sprintf("Confidence %.0f%% · %dms",
		resp.Confidence*100, resp.LatencyMS)))
}
