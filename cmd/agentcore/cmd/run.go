package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/agentcore/internal/agent"
	"github.com/Aman-CERP/agentcore/internal/agenttypes"
	"github.com/Aman-CERP/agentcore/internal/gateway"
)

func newRunCmd() *cobra.Command {
	var (
 model string
 host string
 interactive bool
 conversation string
 maxSteps int
 maxToolsPerStep int
	)

	cmd := &cobra.Command{
 Use: "run [message]",
 Short: "Run the agent loop against a model backend",
 Long: `Run drives one or more turns of the agent loop: the model is
free to call any registered tool, gated by the rule engine and the judge,
until it answers or the step budget runs out.

A local Ollama server is the default model backend (--host, --model); pass
--interactive to keep a conversation open across turns.`,
 Args: cobra.ArbitraryArgs,
 RunE: func(cmd *cobra.Command, args []string) error {
 d, err := newDeps(".")
 if err != nil {
 return err
 }
 defer func() { _ = d.metrics.Close() }()
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

 loop := agent.NewLoop(registry, gw, d.rules, judgeForLoop(), d.sandbox, d.logger)

 if interactive {
 return runInteractive(cmd, loop, conversation, maxSteps, maxToolsPerStep)
 }

 message := strings.Join(args, " ")
 if message == "" {
 return fmt.Errorf("a message is required unless --interactive is set")
 }

 result := loop.Run(cmd.Context(), agent.RunRequest{
 ConversationID: conversation,
 UserMessage: message,
 MaxSteps: maxSteps,
 MaxToolsPerStep: maxToolsPerStep,
 })
 return printLoopResult(cmd, result)
 },
	}

	cmd.Flags().StringVar(&model, "model", "llama3.1", "Model name passed to the backend")
	cmd.Flags().StringVar(&host, "host", "", "Model backend host (defaults to embeddings.ollama_host or localhost:11434)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Keep a conversation open, reading turns from stdin")
	cmd.Flags().StringVar(&conversation, "conversation", "", "Continue an existing conversation ID")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Override the configured step budget")
	cmd.Flags().IntVar(&maxToolsPerStep, "max-tools-per-step", 0, "Override the configured per-step tool budget")

	return cmd
}

func runInteractive(cmd *cobra.Command, loop *agent.Loop, conversationID string, maxSteps, maxToolsPerStep int) error {
	scanner := bufio.NewScanner(os.Stdin)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Interactive mode. Ctrl+D to exit.")
	for {
 _, _ = fmt.Fprint(cmd.OutOrStdout(), "> ")
 if !scanner.Scan() {
 return scanner.Err()
 }
 line := strings.TrimSpace(scanner.Text())
 if line == "" {
 continue
 }
 result := loop.Run(cmd.Context(), agent.RunRequest{
 ConversationID: conversationID,
 UserMessage: line,
 MaxSteps: maxSteps,
 MaxToolsPerStep: maxToolsPerStep,
 })
 if err := printLoopResult(cmd, result); err != nil {
 return err
 }
	}
}

func printLoopResult(cmd *cobra.Command, result agenttypes.LoopResult) error {
	if !result.Success {
 _, err := fmt.Fprintf(cmd.ErrOrStderr(), "error after %d steps: %s\n", result.Steps, result.Error)
 return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n", result.FinalAnswer)
	return err
}
