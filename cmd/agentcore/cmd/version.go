package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/agentcore/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
 Use: "version",
 Short: "Print version information",
 RunE: func(cmd *cobra.Command, _ []string) error {
 if asJSON {
 enc := json.NewEncoder(cmd.OutOrStdout())
 enc.SetIndent("", " ")
 return enc.Encode(version.GetInfo())
 }
 _, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
 return err
 },
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print structured build info")
	return cmd
}
