// Package main is the entry point for the portal-validation-cli application.
// It registers the portal, vendor, wathq and docs command groups and executes
// the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Artef-ca/mobily-vrm-uc/cmd/portal-validation-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "portal-validation-cli",
		Short: "Vendor portal validation CLI tool",
		Long: `portal-validation-cli runs the vendor validation rules over local folders.
Supports portal-only and cross source validation, Wathq commercial registry
lookups and conversion of raw OCR output into structured documents.

Registry lookups need the following environment variables:
- WATHQ_API_KEY
- WATHQ_BASE_URL (optional)`,
		SilenceUsage: true,
	}

	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitPortalCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize portal commands: %w", err)
	}

	if err := commands.InitVendorCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize vendor commands: %w", err)
	}

	if err := commands.InitWathqCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize wathq commands: %w", err)
	}

	if err := commands.InitDocsCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize docs commands: %w", err)
	}

	return nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
