// Package main is the entry point for the weft CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/weftlabs/weft/internal/app"
	"github.com/weftlabs/weft/internal/cli"
	"github.com/weftlabs/weft/internal/domain"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get current directory: %w", err)
	}

	container, err := app.New(cwd)
	if err != nil {
		if errors.Is(err, domain.ErrNotGitRepository) {
			return fmt.Errorf("weft must run inside a git repository: %w", err)
		}
		return fmt.Errorf("initialize: %w", err)
	}

	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.Execute()
}
