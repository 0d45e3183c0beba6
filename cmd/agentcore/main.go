// Command agentcore is the interactive command-line front-end over the
// agent core: a sandboxed loop, a hybrid chunk/vector retrieval index, and
// the built-in tool set, wired together as the "collaborator, not core"
// surface and describe.
package main

import (
	"fmt"
	"os"

	"github.com/Aman-CERP/agentcore/cmd/agentcore/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
 fmt.Fprintln(os.Stderr, err)
 os.Exit(1)
	}
}
