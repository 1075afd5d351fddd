// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/websearch/internal/search"
	"github.com/pdiddy/websearch/pkg/types"
)

var newsCmd = &cobra.Command{
	Use:   "news [query]",
	Short: "Fetch top headlines from NewsAPI",
	Long: `News queries NewsAPI top headlines filtered by category and country.
It requires NEWSAPI_KEY or a newsapi-key file in the secrets directory.`,
	RunE: runNews,
}

func runNews(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query required")
	}

	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	category, _ := cmd.Flags().GetString("category")
	country, _ := cmd.Flags().GetString("country")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	sortBy, _ := cmd.Flags().GetString("sort-by")

	resp, err := rt.SearchNewsOnly(context.Background(), types.NewsRequest{
		Query: query,
		Options: types.NewsOptions{
			Category:   category,
			Country:    country,
			MaxResults: maxResults,
			SortBy:     sortBy,
		},
	})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return search.FormatJSON(resp, os.Stdout)
	}
	search.FormatNewsTable(resp, os.Stdout)
	return nil
}

func init() {
	newsCmd.Flags().String("category", "", "business, entertainment, general, health, science, sports, technology")
	newsCmd.Flags().String("country", types.DefaultNewsCountry, "two-letter country code")
	newsCmd.Flags().Int("max-results", types.DefaultMaxResults, "maximum number of articles to return")
	newsCmd.Flags().String("sort-by", "publishedAt", "publishedAt, relevancy or popularity")
	newsCmd.Flags().Bool("json", false, "output articles as JSON")

	rootCmd.AddCommand(newsCmd)
}
