// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value. Secrets fill in configuration the
// environment leaves empty.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is where the CLI looks for key files.
const DefaultDir = ".secrets/"

// Key file names.
const (
	BraveAPIKey   = "brave-api-key"
	NewsAPIKey    = "newsapi-key"
	ServiceAPIKey = "service-api-key"
)

// Load returns the trimmed contents of every file in dir keyed by file name.
// A missing directory yields an empty map. Unreadable files are reported to
// warn and skipped; warn may be nil.
func Load(dir string, warn io.Writer) (map[string]string, error) {
	if warn == nil {
		warn = io.Discard
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
