//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search runs one query through the built CLI.
func Search(query string) error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "search", query)
}

// Classify prints the intent, routed provider and scores for a query.
// It needs no API keys or network access.
func Classify(query string) error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "classify", query)
}

func binPath() string {
	return filepath.Join(binDir, binName)
}
