package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/agentcore/internal/patch"
)

func newPatchesCmd() *cobra.Command {
	cmd := &cobra.Command{
 Use: "patches",
 Short: "Inspect reviewable patch bundles",
	}
	cmd.AddCommand(newPatchesListCmd())
	cmd.AddCommand(newPatchesShowCmd())
	return cmd
}

func newPatchesListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
 Use: "list",
 Short: "List patch bundles",
 RunE: func(cmd *cobra.Command, _ []string) error {
 d, err := newDeps(".")
 if err != nil {
 return err
 }
 defer func() { _ = d.metrics.Close() }()
 patches, err := d.patches.List(patch.Status(status))
 if err != nil {
 return fmt.Errorf("failed to list patches: %w", err)
 }
 for _, p := range patches {
 _, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.ID, p.Status, p.Title)
 }
 return nil
 },
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (proposed, applied, tested, failed, rejected)")
	return cmd
}

func newPatchesShowCmd() *cobra.Command {
	return &cobra.Command{
 Use: "show <patch-id>",
 Short: "Show a patch bundle's plan, diff, and tests",
 Args: cobra.ExactArgs(1),
 RunE: func(cmd *cobra.Command, args []string) error {
 d, err := newDeps(".")
 if err != nil {
 return err
 }
 defer func() { _ = d.metrics.Close() }()
 full, err := d.patches.Get(args[0])
 if err != nil {
 return fmt.Errorf("failed to get patch: %w", err)
 }
 _, _ = fmt.Fprintf(cmd.OutOrStdout(), "# %s (%s)\n\n## Plan\n%s\n\n## Diff\n%s\n\n## Tests\n%s\n",
 full.Title, full.Status, full.PlanMD, full.DiffText, full.TestsMD)
 return nil
 },
	}
}
