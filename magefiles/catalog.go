//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Catalog groups targets that run the built binary against local data.
type Catalog mg.Namespace

// Import loads ./data (or $ELESTRALS_DATA_DIR) into the catalog database.
func (Catalog) Import() error {
	mg.Deps(Build)
	return sh.RunV(binaryPath(), append([]string{"import"}, dataDirArgs()...)...)
}

// DryRun validates every card under the data directory without writing.
func (Catalog) DryRun() error {
	mg.Deps(Build)
	return sh.RunV(binaryPath(), append([]string{"import", "--dry-run"}, dataDirArgs()...)...)
}

// Serve starts the HTTP server on the configured address.
func (Catalog) Serve() error {
	mg.Deps(Build)
	return sh.RunV(binaryPath(), "serve")
}

// Export writes the catalog tables to ./export as JSONL.
func (Catalog) Export() error {
	mg.Deps(Build)
	return sh.RunV(binaryPath(), "export", "export")
}

// dataDirArgs passes an explicit data path when one is set in the environment.
func dataDirArgs() []string {
	if dir := os.Getenv("ELESTRALS_DATA_DIR"); dir != "" {
		return []string{dir}
	}
	return nil
}
