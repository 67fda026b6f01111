// Package main provides the elestrals CLI.
package main

import "github.com/mesh-intelligence/elestrals/internal/cli"

func main() {
	cli.Execute()
}
