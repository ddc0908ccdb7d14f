// Package main is the entry point for the Caravan transport data service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"caravan/bootstrap"
	"caravan/cmd"
)

// run initializes and starts the Caravan service.
func run(configFile string) error {
	ctx := context.Background()

	app, err := bootstrap.NewApp(ctx, configFile)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Start(ctx); err != nil {
		app.Shutdown()
		return fmt.Errorf("failed to start application: %w", err)
	}

	app.WaitForShutdown()
	app.Shutdown()

	return nil
}

// main is the entry point.
func main() {
	// Check if running as CLI command
	if len(os.Args) > 1 && os.Args[1] == "validate" {
		// Strip "validate" from os.Args since the command already knows it's
		// the validate command
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)

		validateCmd := cmd.NewValidateCmd()
		if err := validateCmd.Execute(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Otherwise run as normal server
	configFile := flag.String("config", "", "config file path")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
