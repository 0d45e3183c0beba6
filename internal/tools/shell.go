package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
	"github.com/Aman-CERP/agentcore/internal/agenttypes"
)

type shellTool struct{ e *Engine }

func newShellTool(e *Engine) Tool { return shellTool{e} }

func (shellTool) Name() string { return "shell" }
func (shellTool) Description() string { return "Run a shell command under a fixed timeout, with dangerous commands blocked before dispatch." }
func (shellTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "command": stringProp("the shell command to execute"),
 "cwd": stringProp("working directory, relative to the workspace root (defaults to the workspace root)"),
	}, "command")
}

// Execute runs the rule engine's forbidden-pattern check before exec, per
//'s {rules, runtime} blocked-by set for shell: a rule violation
// never reaches the OS at all.
func (t shellTool) Execute(ctx context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	if t.e.Rules != nil {
 if allowed, violations := t.e.Rules.Evaluate(call); !allowed {
 reason := violations[0].Reason
 return errResult(call.ID, agenterrors.New(agenterrors.Rules, agenterrors.CodeRuleViolation, reason).
 WithContext("rule", violations[0].RuleName))
 }
	}

	command := argString(call.Arguments, "command", "")
	cwdArg := argString(call.Arguments, "cwd", "")

	workDir := t.e.Sandbox.WorkspaceRoot()
	if cwdArg != "" {
 resolved, toolErr := t.e.Sandbox.ResolveRead(cwdArg)
 if toolErr != nil {
 return errResult(call.ID, toolErr)
 }
 workDir = resolved
	}

	timeout := t.e.ShellTimeout
	if timeout <= 0 {
 timeout = DefaultEngineConfig().ShellTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "/bin/sh", "-c", command)
	cmd.Dir = workDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
 return errResult(call.ID, agenterrors.New(agenterrors.Runtime, agenterrors.CodeTimeout, fmt.Sprintf("command exceeded the %s timeout", timeout)))
	}
	if err != nil {
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeExecFailed, "command exited with an error", err).
 WithContext("stderr", truncate(stderr.String(), 4096)))
	}
	return okResult(call.ID, stdout.String())
}

func truncate(s string, n int) string {
	if len(s) <= n {
 return s
	}
	return s[:n] + "...(truncated)"
}
