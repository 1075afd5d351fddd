// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// NormalizeKey builds the cache key for a query and its options. Query case
// and whitespace do not matter; options serialize with sorted keys so map
// iteration order never changes the key.
func NormalizeKey(query string, options map[string]string) string {
	q := strings.ToLower(strings.Join(strings.Fields(query), " "))

	opts := make(map[string]string, len(options))
	for k, v := range options {
		if v != "" {
			opts[k] = v
		}
	}
	// encoding/json writes map keys in sorted order.
	data, err := json.Marshal(opts)
	if err != nil {
		data = []byte("{}")
	}
	return q + "|" + string(data)
}

var timeSensitive = regexp.MustCompile(`(?i)\b(latest|recent|today|yesterday|news|breaking|current|now)\b`)

// TTLPolicy picks how long a result set stays fresh.
type TTLPolicy struct {
	TimeSensitive time.Duration
	General       time.Duration
}

// DefaultTTLPolicy returns 10 minutes for time-sensitive queries and 24 hours
// for the rest.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{TimeSensitive: 10 * time.Minute, General: 24 * time.Hour}
}

// TTL returns the time-to-live for query.
func (p TTLPolicy) TTL(query string) time.Duration {
	if IsTimeSensitive(query) {
		return p.TimeSensitive
	}
	return p.General
}

// IsTimeSensitive reports whether query mentions a word that makes cached
// answers go stale quickly.
func IsTimeSensitive(query string) bool {
	return timeSensitive.MatchString(query)
}
