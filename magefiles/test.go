//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets (all, unit, cover).
type Test mg.Namespace

// All runs every package's tests with the race detector.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Unit runs every package's tests verbosely without the race detector.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Cover runs the tests and writes a coverage profile to coverage.out.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func=coverage.out")
}
