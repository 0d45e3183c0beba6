// Package agent implements the single-threaded cooperative orchestrator of
//: it drives the model gateway and the tool registry through a
// bounded think/act/observe cycle, gating every tool call through the rule
// engine and the judge before dispatch, and returning a LoopResult once the
// model answers, the step budget is exhausted, or a fatal error occurs.
// Grounded on other_examples' vanducng-goclaw internal/agent/loop.go (Loop
// struct shape, think/act/observe framing, trimmed here to agentcore's far
// narrower scope: no multi-tenant bootstrap, skills, compaction, tracing
// collectors, or input-injection guards, none of which the design calls
// for) and the internal/mcp/server.go composition style (an
// engine holding non-owning references to its collaborators). errgroup is
// deliberately not used here:/ require the loop to be
// single-threaded, with tool calls inside one step dispatched sequentially
// in declared order.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
	"github.com/Aman-CERP/agentcore/internal/agenttypes"
	"github.com/Aman-CERP/agentcore/internal/gateway"
	"github.com/Aman-CERP/agentcore/internal/judge"
	"github.com/Aman-CERP/agentcore/internal/rules"
	"github.com/Aman-CERP/agentcore/internal/sandbox"
	"github.com/Aman-CERP/agentcore/internal/tools"
	"github.com/Aman-CERP/agentcore/internal/trace"
)

// defaultMaxSteps and defaultMaxToolsPerStep are the loop's budgets when a
// caller leaves RunRequest's corresponding fields at zero.
const (
	defaultMaxSteps = 25
	defaultMaxToolsPerStep = 8
	loopStepLimitPrefix = "Step limit reached before a final answer. Progress so far:\n"
)

// Loop orchestrates one run at a time; it owns no long-lived state between
// runs and holds only non-owning references to its collaborators.
type Loop struct {
	Registry *tools.Registry
	Gateway gateway.ModelGateway
	Rules *rules.Engine
	Judge *judge.Judge
	Sandbox *sandbox.Sandbox
	Logger *slog.Logger
}

// NewLoop constructs a Loop from its collaborators. A nil logger falls back
// to slog.Default inside trace.New() per run.
func NewLoop(registry *tools.Registry, gw gateway.ModelGateway, re *rules.Engine, jg *judge.Judge, sb *sandbox.Sandbox, logger *slog.Logger) *Loop {
	return &Loop{Registry: registry, Gateway: gw, Rules: re, Judge: jg, Sandbox: sb, Logger: logger}
}

// RunRequest is one caller-submitted turn.
type RunRequest struct {
	// ConversationID continues an existing conversation when non-empty;
	// otherwise a new one is minted.
	ConversationID string
	// History is the prior conversation, oldest first. Empty for a new conversation.
	History []agenttypes.Message
	// UserMessage is this turn's new user input.
	UserMessage string
	// ExtraSystemPrompt is appended to the composed system prompt (project
	// context, workflow policy overrides); optional.
	ExtraSystemPrompt string
	// MaxSteps and MaxToolsPerStep override the loop's default budgets when positive.
	MaxSteps int
	MaxToolsPerStep int
}

// Run drives the per-run procedure of to completion and never
// raises: every failure path returns a LoopResult carrying success=false
// and a formatted error
func (l *Loop) Run(ctx context.Context, req RunRequest) agenttypes.LoopResult {
	runID := agenttypes.NewRunID()
	convID := req.ConversationID
	if convID == "" {
 convID = agenttypes.NewConversationID()
	}
	tr := trace.New(runID, l.Logger)
	tr.Event("RUN_START", "conversation_id", convID)

	maxSteps := req.MaxSteps
	if maxSteps <= 0 {
 maxSteps = defaultMaxSteps
	}
	maxToolsPerStep := req.MaxToolsPerStep
	if maxToolsPerStep <= 0 {
 maxToolsPerStep = defaultMaxToolsPerStep
	}

	toolDescs := l.Registry.Describe()
	toolNames := l.Registry.Names()
	execCtx := agenttypes.NewExecutionContext(runID, convID, toolNames, maxSteps, maxToolsPerStep)

	conv := agenttypes.Conversation{ID: convID}
	conv.Append(agenttypes.Message{Role: agenttypes.RoleSystem, Content: composeSystemPrompt(toolDescs, req.ExtraSystemPrompt)})
	for _, m := range req.History {
 conv.Append(m)
	}
	conv.Append(agenttypes.Message{Role: agenttypes.RoleUser, Content: req.UserMessage})

	gwTools := toGatewayTools(toolDescs)
	var lastAssistantText string

	for execCtx.CanStep() {
 resp, err := l.Gateway.Complete(ctx, gateway.CompletionRequest{
 Messages: toGatewayMessages(conv.Messages),
 Tools: gwTools,
 })
 if err != nil {
 execCtx.AddStep(agenttypes.Step{Type: agenttypes.StepError, Content: err.Error()})
 tr.Event("FATAL", "error", err.Error())
 return agenttypes.LoopResult{Success: false, Error: "model gateway unreachable: " + err.Error(), Steps: execCtx.CurrentStep}
 }

 lastAssistantText = resp.Content

 if len(resp.ToolCalls) == 0 {
 conv.Append(agenttypes.Message{Role: agenttypes.RoleAssistant, Content: resp.Content})
 execCtx.AddStep(agenttypes.Step{Type: agenttypes.StepRespond, Content: resp.Content})
 tr.Event("RESPOND", "step", execCtx.CurrentStep)
 return agenttypes.LoopResult{Success: true, FinalAnswer: resp.Content, Steps: execCtx.CurrentStep}
 }

 calls := toAgentToolCalls(resp.ToolCalls)
 conv.Append(agenttypes.Message{Role: agenttypes.RoleAssistant, Content: resp.Content, ToolCalls: calls})
 execCtx.AddStep(agenttypes.Step{Type: agenttypes.StepCallTool, ToolCalls: calls})

 results := make([]agenttypes.ToolResult, 0, len(calls))
 var lastWriteTarget string

 for _, call := range calls {
 if !execCtx.CanUseTool() {
 results = append(results, budgetExceededResult(call.ID))
 continue
 }

 if call.Name == "write_file" {
 prospective := prospectiveWriteTarget(l.Sandbox.WorkspaceRoot(), argString(call.Arguments, "path"))
 preCheck := l.Judge.Evaluate(execCtx, l.Sandbox.WorkspaceRoot(), l.Sandbox.ProjectRoot(), prospective, lastAssistantText)
 if preCheck.Severity == judge.SeverityError {
 execCtx.RecordToolUse()
 results = append(results, refusalResult(call.ID, preCheck))
 tr.Event("JUDGE_REFUSED_WRITE", "tool_call_id", call.ID, "target", prospective)
 continue
 }
 }

 if allowed, violations := l.Rules.Evaluate(call); !allowed {
 execCtx.RecordToolUse()
 results = append(results, ruleViolationResult(call.ID, violations[0]))
 continue
 }

 execCtx.RecordToolUse()
 tr.Call(execCtx.CurrentStep, call.Name, call.ID)
 start := time.Now()
 res := l.Registry.Dispatch(ctx, call)
 tr.Result(execCtx.CurrentStep, call.Name, call.ID, time.Since(start), res.Success)

 if call.Name == "write_file" && res.Success {
 if resolved, toolErr := l.Sandbox.Resolve(argString(call.Arguments, "path")); toolErr == nil {
 lastWriteTarget = resolved
 }
 }

 results = append(results, res)
 }

 // The OBSERVE step belongs to the same model turn as its CALL_TOOL
 // step, so it is recorded without advancing CurrentStep.
 execCtx.Steps = append(execCtx.Steps, agenttypes.Step{Type: agenttypes.StepObserve, ToolCalls: calls, ToolResults: results, Timestamp: time.Now()})
 for _, res := range results {
 conv.Append(agenttypes.Message{Role: agenttypes.RoleTool, Content: toolResultContent(res), ToolCallID: res.ToolCallID})
 }

 verdict := l.Judge.Evaluate(execCtx, l.Sandbox.WorkspaceRoot(), l.Sandbox.ProjectRoot(), lastWriteTarget, lastAssistantText)
 if verdict.Severity != judge.SeverityInfo {
 conv.Append(agenttypes.Message{Role: agenttypes.RoleSystem, Content: formatJudgment(verdict)})
 tr.Event("JUDGE", "severity", string(verdict.Severity), "reason", verdict.Reason)
 }
	}

	tr.Event("STEP_LIMIT_REACHED", "steps", execCtx.CurrentStep)
	return agenttypes.LoopResult{
 Success: true,
 FinalAnswer: loopStepLimitPrefix + summarizeProgress(execCtx),
 Steps: execCtx.CurrentStep,
	}
}

func budgetExceededResult(callID string) agenttypes.ToolResult {
	te := agenterrors.New(agenterrors.Rules, agenterrors.CodeBudgetExceeded, "per-step tool-call budget exhausted; the budget resets next step")
	return agenttypes.ToolResult{ToolCallID: callID, Success: false, Error: te.Format()}
}

func ruleViolationResult(callID string, v rules.Violation) agenttypes.ToolResult {
	te := agenterrors.New(agenterrors.Rules, agenterrors.CodeRuleViolation, v.Reason).WithContext("rule", v.RuleName)
	return agenttypes.ToolResult{ToolCallID: callID, Success: false, Error: te.Format()}
}

func refusalResult(callID string, j judge.Judgment) agenttypes.ToolResult {
	te := agenterrors.New(agenterrors.Rules, agenterrors.CodeRuleViolation, j.Reason)
	if j.Suggestion != "" {
 te = te.WithContext("suggestion", j.Suggestion)
	}
	return agenttypes.ToolResult{ToolCallID: callID, Success: false, Error: te.Format()}
}

// prospectiveWriteTarget lexically joins a write_file call's path argument
// onto workspaceRoot (the root such paths are always relative to) for the
// judge's pre-dispatch check only; it is never used to actually perform the
// write (the write_file tool resolves and validates the real target itself
// via Sandbox.Resolve, which is confined to workspace_root).
func prospectiveWriteTarget(workspaceRoot, path string) string {
	if path == "" {
 return ""
	}
	return filepath.Join(workspaceRoot, path)
}

func argString(args map[string]any, key string) string {
	if args == nil {
 return ""
	}
	s, _ := args[key].(string)
	return s
}

func toolResultContent(res agenttypes.ToolResult) string {
	if res.Success {
 return res.Output
	}
	return res.Error
}

func formatJudgment(j judge.Judgment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[judge:%s] %s", j.Severity, j.Reason)
	if j.Suggestion != "" {
 fmt.Fprintf(&b, " — %s", j.Suggestion)
	}
	return b.String()
}

func summarizeProgress(ec *agenttypes.ExecutionContext) string {
	var b strings.Builder
	toolCalls := 0
	for _, s := range ec.Steps {
 toolCalls += len(s.ToolCalls)
	}
	fmt.Fprintf(&b, "%d steps taken, %d tool calls issued.", ec.CurrentStep, toolCalls)
	for i := len(ec.Steps) - 1; i >= 0; i-- {
 if ec.Steps[i].Type == agenttypes.StepCallTool && len(ec.Steps[i].ToolCalls) > 0 {
 names := make([]string, 0, len(ec.Steps[i].ToolCalls))
 for _, c := range ec.Steps[i].ToolCalls {
 names = append(names, c.Name)
 }
 fmt.Fprintf(&b, " Last tools used: %s.", strings.Join(names, ", "))
 break
 }
	}
	return b.String()
}

func composeSystemPrompt(toolDescs []tools.GatewayToolSchema, extra string) string {
	var b strings.Builder
	b.WriteString("You are an autonomous coding agent operating inside a sandboxed workspace.\n")
	b.WriteString("Writes are confined to workspace_root; project_root is read-only context.\n")
	b.WriteString("Propose changes to project files via create_patch rather than writing them directly.\n")
	b.WriteString("Available tools:\n")
	for _, t := range toolDescs {
 fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
	}
	if extra != "" {
 b.WriteString("\n")
 b.WriteString(extra)
	}
	return b.String()
}

func toGatewayMessages(msgs []agenttypes.Message) []gateway.Message {
	out := make([]gateway.Message, 0, len(msgs))
	for _, m := range msgs {
 out = append(out, gateway.Message{
 Role: string(m.Role),
 Content: m.Content,
 ToolCalls: toGatewayToolCallRequests(m.ToolCalls),
 ToolCallID: m.ToolCallID,
 })
	}
	return out
}

func toGatewayToolCallRequests(calls []agenttypes.ToolCall) []gateway.ToolCallRequest {
	if len(calls) == 0 {
 return nil
	}
	out := make([]gateway.ToolCallRequest, 0, len(calls))
	for _, c := range calls {
 out = append(out, gateway.ToolCallRequest{ID: c.ID, Name: c.Name, Arguments: c.Arguments})
	}
	return out
}

func toGatewayTools(descs []tools.GatewayToolSchema) []gateway.ToolSchema {
	out := make([]gateway.ToolSchema, 0, len(descs))
	for _, d := range descs {
 out = append(out, gateway.ToolSchema{Name: d.Name, Description: d.Description, Parameters: d.Parameters})
	}
	return out
}

func toAgentToolCalls(calls []gateway.ToolCallRequest) []agenttypes.ToolCall {
	out := make([]agenttypes.ToolCall, 0, len(calls))
	for _, c := range calls {
 id := c.ID
 if id == "" {
 id = agenttypes.NewToolCallID()
 }
 out = append(out, agenttypes.ToolCall{ID: id, Name: c.Name, Arguments: c.Arguments})
	}
	return out
}
