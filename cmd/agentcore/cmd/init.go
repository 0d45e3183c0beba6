package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/agentcore/internal/config"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
 Use: "init",
 Short: "Initialize agentcore for the current project",
 Long: `Initialize writes a.agentcore.yaml configuration template for the
current project and creates its workspace and data directories.

Run 'agentcore index' afterward to build the retrieval index.`,
 RunE: func(cmd *cobra.Command, _ []string) error {
 cwd, err := os.Getwd()
 if err != nil {
 return err
 }
 root, err := config.FindProjectRoot(cwd)
 if err != nil {
 root = cwd
 }

 configPath := filepath.Join(root, ".agentcore.yaml")
 if !force {
 if _, statErr := os.Stat(configPath); statErr == nil {
 return fmt.Errorf("%s already exists; use --force to overwrite", configPath)
 }
 }

 cfg := config.NewConfig()
 cfg.Sandbox.ProjectRoot = root
 projectType := config.DetectProjectType(root)
 _, _ = fmt.Fprintf(cmd.OutOrStdout(), "Detected project type: %s\n", projectType)

 if err := cfg.WriteYAML(configPath); err != nil {
 return fmt.Errorf("failed to write config: %w", err)
 }

 workspaceRoot := filepath.Join(root, cfg.Sandbox.WorkspaceRoot)
 if err := os.MkdirAll(workspaceRoot, 0o755); err != nil {
 return fmt.Errorf("failed to create workspace: %w", err)
 }
 if err := os.MkdirAll(dataDirFor(cfg), 0o755); err != nil {
 return fmt.Errorf("failed to create data directory: %w", err)
 }

 _, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\nCreated workspace at %s\n\nRun 'agentcore index' to build the retrieval index.\n", configPath, workspaceRoot)
 return nil
 },
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing.agentcore.yaml")
	return cmd
}
