// Package main is the entry point for the treeboard CLI.
package main

import (
	"fmt"
	"os"

	"github.com/runoshun/treeboard/internal/app"
	"github.com/runoshun/treeboard/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("failed to get current directory: %w", err))
		os.Exit(1)
	}
	if err := run(cwd, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dir string, args []string) error {
	// Create dependency injection container
	container, err := app.New(dir)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
