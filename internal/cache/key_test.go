// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		optA map[string]string
		optB map[string]string
		same bool
	}{
		{"case and whitespace", "HELLO  world ", "hello world", nil, nil, true},
		{"tabs and newlines", "\thello\nworld", "hello world", nil, nil, true},
		{"option order", "q", "q",
			map[string]string{"provider": "auto", "language": "en"},
			map[string]string{"language": "en", "provider": "auto"}, true},
		{"empty option dropped", "q", "q",
			map[string]string{"provider": "auto", "sortBy": ""},
			map[string]string{"provider": "auto"}, true},
		{"different provider", "q", "q",
			map[string]string{"provider": "auto"},
			map[string]string{"provider": "news"}, false},
		{"different query", "cats", "dogs", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := NormalizeKey(tt.a, tt.optA)
			kb := NormalizeKey(tt.b, tt.optB)
			if tt.same {
				assert.Equal(t, ka, kb)
			} else {
				assert.NotEqual(t, ka, kb)
			}
		})
	}
}

func TestNormalizeKeyFormat(t *testing.T) {
	got := NormalizeKey("  Go  Generics ", map[string]string{"provider": "auto", "maxResults": "10"})
	assert.Equal(t, `go generics|{"maxResults":"10","provider":"auto"}`, got)
	assert.Equal(t, "go|{}", NormalizeKey("go", nil))
}

func TestTTL(t *testing.T) {
	p := DefaultTTLPolicy()
	assert.Less(t, p.TTL("latest bitcoin price"), p.TTL("history of rome"))
	assert.Equal(t, 10*time.Minute, p.TTL("Breaking: markets fall"))
	assert.Equal(t, 24*time.Hour, p.TTL("history of rome"))
	// Whole words only.
	assert.Equal(t, 24*time.Hour, p.TTL("newspaper archives"))
	assert.Equal(t, 24*time.Hour, p.TTL("knowledge base"))
}

func TestTTLConfigured(t *testing.T) {
	p := TTLPolicy{TimeSensitive: time.Second, General: time.Minute}
	assert.Equal(t, time.Second, p.TTL("what happened today"))
	assert.Equal(t, time.Minute, p.TTL("rust ownership"))
}
