// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/websearch/internal/search"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print cache entry counts and hit rate",
	RunE:  runCacheStats,
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	stats, err := rt.Cache.Stats(ctx)
	if err != nil {
		return err
	}
	searches, err := rt.History.Count(ctx)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return search.FormatJSON(map[string]any{"cache": stats, "searches": searches}, os.Stdout)
	}
	fmt.Fprintf(os.Stdout, "Enabled:   %t\n", stats.Enabled)
	fmt.Fprintf(os.Stdout, "Active:    %d\n", stats.ActiveCount)
	fmt.Fprintf(os.Stdout, "Total:     %d\n", stats.TotalCount)
	fmt.Fprintf(os.Stdout, "Hits:      %d\n", stats.TotalHits)
	fmt.Fprintf(os.Stdout, "Hit rate:  %.2f\n", stats.HitRate)
	fmt.Fprintf(os.Stdout, "Searches:  %d\n", searches)
	return nil
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired cache entries",
	RunE:  runCachePurge,
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	n, err := rt.Cache.Purge(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Removed %d expired entries\n", n)
	return nil
}

func init() {
	cacheStatsCmd.Flags().Bool("json", false, "output as JSON")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
