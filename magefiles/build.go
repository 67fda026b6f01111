//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the elestrals project using Mage.
//
// Usage:
//
//	mage build          Compile the elestrals binary to bin/
//	mage test:all       Run all tests
//	mage test:unit      Run tests without the race detector
//	mage test:cover     Run tests and write coverage.out
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install elestrals to GOPATH/bin
//	mage catalog:import Import the data directory into the catalog
//	mage catalog:serve  Serve the catalog over HTTP
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "elestrals"
	binaryDir  = "bin"
	cmdDir     = "./cmd/elestrals"
)

// Build compiles the elestrals binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", binaryPath(), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	if err := sh.Rm("coverage.out"); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, binaryPath())
}

func binaryPath() string {
	return filepath.Join(binaryDir, binaryName)
}
