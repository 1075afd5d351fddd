// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/websearch/internal/intent"
	"github.com/pdiddy/websearch/internal/search"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [query]",
	Short: "Show which intent and provider a query routes to",
	Long: `Classify scores a query against every intent and prints the winner, the
provider it routes to in intent mode and the per-intent scores. It makes no
network calls.`,
	Args: cobra.MinimumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: runClassify,
}

type classification struct {
	Query       string         `json:"query"`
	Intent      string         `json:"intent"`
	Explanation string         `json:"explanation"`
	Provider    string         `json:"provider"`
	Scores      []intent.Score `json:"scores"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	in := intent.Classify(query)
	c := classification{
		Query:       query,
		Intent:      string(in),
		Explanation: intent.Explain(in),
		Provider:    search.ProviderForIntent(in),
		Scores:      intent.Scores(query),
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return search.FormatJSON(c, os.Stdout)
	}

	fmt.Fprintf(os.Stdout, "Intent:   %s (%s)\n", c.Intent, c.Explanation)
	fmt.Fprintf(os.Stdout, "Provider: %s\n\n", c.Provider)
	fmt.Fprintf(os.Stdout, "%-8s  %s\n", "Intent", "Score")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 16))
	for _, s := range c.Scores {
		fmt.Fprintf(os.Stdout, "%-8s  %d\n", s.Intent, s.Score)
	}
	return nil
}

func init() {
	classifyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(classifyCmd)
}
