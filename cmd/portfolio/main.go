package main

import (
	"os"

	"github.com/jaudi/Portfolio-analysis/cmd/portfolio/commands"
)

// main is the entry point for the portfolio CLI
// ⭐ Unified CLI entry point: go run ./cmd/portfolio [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
