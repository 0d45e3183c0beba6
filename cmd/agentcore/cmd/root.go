// Package cmd provides the CLI commands for agentcore.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/agentcore/internal/logging"
	"github.com/Aman-CERP/agentcore/pkg/version"
)

var (
	debugMode bool
	loggingCleanup func()
)

// NewRootCmd() creates the root command for the agentcore CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
 Use: "agentcore",
 Short: "Sandboxed coding agent with hybrid code retrieval",
 Long: `agentcore drives a single-threaded agent loop over a sandboxed
workspace, backed by hybrid (keyword + semantic) retrieval across an
indexed codebase.

Run 'agentcore init' in a project directory to get started.`,
 Version: version.Version,
	}
	cmd.SetVersionTemplate("agentcore version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.agentcore/logs/")
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
 if !debugMode {
 return nil
 }
 logger, cleanup, err := logging.Setup(logging.DebugConfig())
 if err != nil {
 return fmt.Errorf("failed to set up debug logging: %w", err)
 }
 loggingCleanup = cleanup
 slog.SetDefault(logger)
 slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
 return nil
	}
	cmd.PersistentPostRunE = func(*cobra.Command, []string) error {
 if loggingCleanup != nil {
 loggingCleanup()
 }
 return nil
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newQueueCmd())
	cmd.AddCommand(newPatchesCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
