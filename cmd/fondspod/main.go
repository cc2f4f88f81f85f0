package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fondspod/internal/app"
	"fondspod/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// libraryName is the --library flag; empty selects the last opened library.
var libraryName string

// loadConfig reads the config file from its default location.
func loadConfig() (*config.Config, string, error) {
	path := app.GetDefaults()["config_path"]
	cfg, err := config.ReadFromFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading config (run 'fondspod config init' first): %w", err)
	}
	return cfg, path, nil
}

// newApp reads the config and opens the selected library. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "CreateFond"); args are
// journaled as its parameters.
func newApp(cmd *cobra.Command, operation string, args ...string) (*app.ArchiveApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewArchiveApp(cmd.Context(), cfg, libraryName, operation, strings.Join(args, " "))
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// closeApp closes a and reports a close failure unless the command already failed.
func closeApp(a *app.ArchiveApp, err *error) {
	if cerr := a.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

var rootCmd = &cobra.Command{
	Use:          "fondspod",
	Short:        "Archival records manager",
	Long:         "fondspod keeps the fonds, series, files and items of archive libraries.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&libraryName, "library", "l", "", "Library to operate on (default: last opened)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(encryptionCmd)
	rootCmd.AddCommand(classificationCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(fondCmd)
	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(sequenceCmd)
	rootCmd.AddCommand(historyCmd)
}
