package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/agentcore/internal/agent"
	"github.com/Aman-CERP/agentcore/internal/gateway"
	"github.com/Aman-CERP/agentcore/internal/mcpfront"
)

func newMCPCmd() *cobra.Command {
	var (
 model string
 host string
	)

	cmd := &cobra.Command{
 Use: "mcp",
 Short: "Serve the retrieval index and agent loop over MCP on stdio",
 Long: `MCP starts a Model Context Protocol server speaking JSON-RPC over
stdio, exposing a search tool backed by the hybrid retrieval index and a
run tool backed by the agent loop.

The run tool requires a reachable model backend; without --model/--host it
still serves search, and the run tool reports itself unavailable.`,
 RunE: func(cmd *cobra.Command, _ []string) error {
 d, err := newDeps(".")
 if err != nil {
 return err
 }
 defer func() { _ = d.metrics.Close() }()

 var loop *agent.Loop
 if model != "" {
 _, registry, err := d.newEngine()
 if err != nil {
 return err
 }
 if host == "" {
 host = d.cfg.Embeddings.OllamaHost
 if host == "" {
 host = gateway.DefaultOllamaHost
 }
 }
 gw := gateway.NewOllamaChatGateway(host, model, d.cfg.Embeddings.Timeout)
 loop = agent.NewLoop(registry, gw, d.rules, judgeForLoop(), d.sandbox, d.logger)
 }

 server := mcpfront.NewServer(d.index, loop, d.metrics, d.logger)

 ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
 defer stop()
 if err := server.Serve(ctx); err != nil && ctx.Err() == nil {
 return err
 }
 return nil
 },
	}

	cmd.Flags().StringVar(&model, "model", "", "Model name for the run tool's backend; omit to serve search only")
	cmd.Flags().StringVar(&host, "host", "", "Model backend host (defaults to embeddings.ollama_host or localhost:11434)")

	return cmd
}
