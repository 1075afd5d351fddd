// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/websearch/internal/search"
	"github.com/pdiddy/websearch/internal/service"
	"github.com/pdiddy/websearch/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the web with provider fallback",
	Long: `Search runs one query through the cache and provider fallback, or a batch
of queries from a YAML file with --from-file. Batch results are written back
as YAML to --out (default: the input file).`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	fromFile, _ := cmd.Flags().GetString("from-file")
	query := strings.Join(args, " ")
	if fromFile == "" && strings.TrimSpace(query) == "" {
		return fmt.Errorf("query required: provide a search query or --from-file")
	}

	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := searchOptsFromFlags(cmd)
	if fromFile != "" {
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = fromFile
		}
		return runSearchBatch(context.Background(), rt.Service, fromFile, out, opts)
	}

	resp, err := rt.Search(context.Background(), types.SearchRequest{Query: query, Options: opts})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return search.FormatJSON(resp, os.Stdout)
	}
	search.FormatTable(resp, os.Stdout)
	return nil
}

// runSearchBatch runs every query in the file at in and writes outcomes to
// out. Entry options override defaults field by field.
func runSearchBatch(ctx context.Context, svc *service.Service, in, out string, defaults types.SearchOptions) error {
	qf, err := search.ReadQueryFile(in)
	if err != nil {
		return err
	}

	for i, e := range qf.Queries {
		opts := mergeOptions(defaults, e.Options)
		resp, err := svc.Search(ctx, types.SearchRequest{Query: e.Query, Options: opts})
		qf.Record(i, resp, err)
		if err != nil {
			fmt.Fprintf(os.Stderr, "query %d (%s): %v\n", i+1, e.Query, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "query %d (%s): %d results from %s\n", i+1, e.Query, resp.Total, resp.Provider)
	}
	qf.Summarize(time.Now().UTC())

	if err := search.WriteQueryFile(out, qf); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d queries (%d failed) to %s\n", len(qf.Queries), qf.Summary.Failed, out)
	if qf.Summary.Failed == len(qf.Queries) && len(qf.Queries) > 0 {
		return fmt.Errorf("all %d queries failed", len(qf.Queries))
	}
	return nil
}

func mergeOptions(base, over types.SearchOptions) types.SearchOptions {
	pick := func(a, b string) string {
		if b != "" {
			return b
		}
		return a
	}
	merged := types.SearchOptions{
		Provider:   pick(base.Provider, over.Provider),
		MaxResults: base.MaxResults,
		Language:   pick(base.Language, over.Language),
		SortBy:     pick(base.SortBy, over.SortBy),
		FromDate:   pick(base.FromDate, over.FromDate),
		ToDate:     pick(base.ToDate, over.ToDate),
		Country:    pick(base.Country, over.Country),
		SafeSearch: pick(base.SafeSearch, over.SafeSearch),
		Freshness:  pick(base.Freshness, over.Freshness),
		Filters:    base.Filters,
	}
	if over.MaxResults > 0 {
		merged.MaxResults = over.MaxResults
	}
	if len(over.Filters) > 0 {
		merged.Filters = over.Filters
	}
	return merged
}

func searchOptsFromFlags(cmd *cobra.Command) types.SearchOptions {
	provider, _ := cmd.Flags().GetString("provider")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	language, _ := cmd.Flags().GetString("language")
	country, _ := cmd.Flags().GetString("country")
	freshness, _ := cmd.Flags().GetString("freshness")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	return types.SearchOptions{
		Provider:   provider,
		MaxResults: maxResults,
		Language:   language,
		Country:    country,
		Freshness:  freshness,
		FromDate:   from,
		ToDate:     to,
	}
}

func init() {
	searchCmd.Flags().String("provider", types.ProviderAuto, "provider name or alias (auto, ddg, searxng, web, rich, news, video, image, newsapi)")
	searchCmd.Flags().Int("max-results", types.DefaultMaxResults, "maximum number of results to return")
	searchCmd.Flags().String("language", "en", "result language")
	searchCmd.Flags().String("country", "", "result country")
	searchCmd.Flags().String("freshness", "", "news time window: pd, pw, pm, py")
	searchCmd.Flags().String("from", "", "date range start (YYYY-MM-DD)")
	searchCmd.Flags().String("to", "", "date range end (YYYY-MM-DD)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("from-file", "", "YAML file of queries to run as a batch")
	searchCmd.Flags().String("out", "", "YAML file for batch results (default: overwrite --from-file)")

	rootCmd.AddCommand(searchCmd)
}
