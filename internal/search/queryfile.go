// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/websearch/pkg/types"
)

// QueryFile is the on-disk form of a batch of searches. The caller lists
// queries; a run fills in each entry's outcome and the summary so the file
// can be reread without querying providers again.
type QueryFile struct {
	Queries []QueryEntry `yaml:"queries"`
	Summary QuerySummary `yaml:"summary,omitempty"`
}

// QueryEntry is one query with its options and, once run, its outcome.
type QueryEntry struct {
	Query   string              `yaml:"query"`
	Options types.SearchOptions `yaml:"options,omitempty"`

	Provider string               `yaml:"provider,omitempty"`
	Cached   bool                 `yaml:"cached,omitempty"`
	Results  []types.SearchResult `yaml:"results,omitempty"`
	Error    string               `yaml:"error,omitempty"`
}

// QuerySummary stores batch statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Failed    int       `yaml:"failed"`
	Timestamp time.Time `yaml:"timestamp"`
}

// Record stores the outcome of entry i.
func (qf *QueryFile) Record(i int, resp *types.SearchResponse, err error) {
	e := &qf.Queries[i]
	if err != nil {
		e.Error = err.Error()
		e.Results = nil
		return
	}
	e.Error = ""
	e.Provider = resp.Provider
	e.Cached = resp.Cached
	e.Results = resp.Results
}

// Summarize recomputes the summary from the entries.
func (qf *QueryFile) Summarize(now time.Time) {
	qf.Summary = QuerySummary{Timestamp: now}
	for _, e := range qf.Queries {
		if e.Error != "" {
			qf.Summary.Failed++
			continue
		}
		qf.Summary.Total += len(e.Results)
	}
}

// WriteQueryFile saves qf to path as YAML.
func WriteQueryFile(path string, qf *QueryFile) error {
	data, err := yaml.Marshal(qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a query file from disk. Entries with a blank query
// are rejected.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	for i, e := range qf.Queries {
		if strings.TrimSpace(e.Query) == "" {
			return nil, fmt.Errorf("query %d is empty", i+1)
		}
	}
	return &qf, nil
}
