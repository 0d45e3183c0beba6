// Package agenttypes defines the canonical message, tool-call, step, and
// execution-context shapes shared across the agent core, plus deterministic
// ID generation for runs, conversations, tasks, chunks, and patches.
package agenttypes

import (
	"time"
)

// Role is the speaker of a Message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool Role = "tool"
)

// Message is one entry in a conversation.
type Message struct {
	Role Role `json:"role"`
	Content string `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// ToolCall is a single model-requested tool invocation.
type ToolCall struct {
	ID string `json:"id"`
	Name string `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolResult is the outcome of dispatching a ToolCall. Exactly one of a
// successful Output or a non-empty Error is meaningful.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Output string `json:"output,omitempty"`
	Error string `json:"error,omitempty"`
	Success bool `json:"success"`
}

// StepType is the closed set of step kinds in a run's history.
type StepType string

const (
	StepThink StepType = "THINK"
	StepCallTool StepType = "CALL_TOOL"
	StepObserve StepType = "OBSERVE"
	StepRespond StepType = "RESPOND"
	StepError StepType = "ERROR"
)

// Step is one append-only entry in a run's history.
type Step struct {
	Type StepType `json:"type"`
	Content string `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is an ordered, append-only sequence of messages.
type Conversation struct {
	ID string `json:"id"`
	Messages []Message `json:"messages"`
}

// Append adds a message, preserving insertion order.
func (c *Conversation) Append(m Message) {
	c.Messages = append(c.Messages, m)
}

// ExecutionContext owns the per-run step history and budget state. It lives
// for exactly one run; it is never shared between runs.
type ExecutionContext struct {
	RunID string `json:"run_id"`
	ConversationID string `json:"conversation_id"`
	AvailableTools []string `json:"available_tools"`
	CurrentStep int `json:"current_step"`
	MaxSteps int `json:"max_steps"`
	Steps []Step `json:"steps"`
	MaxToolsPerStep int `json:"max_tools_per_step"`
	ToolsUsedThisStep int `json:"tools_used_this_step"`
}

// NewExecutionContext constructs a fresh, zeroed execution context.
func NewExecutionContext(runID, conversationID string, tools []string, maxSteps, maxToolsPerStep int) *ExecutionContext {
	return &ExecutionContext{
 RunID: runID,
 ConversationID: conversationID,
 AvailableTools: tools,
 MaxSteps: maxSteps,
 MaxToolsPerStep: maxToolsPerStep,
	}
}

// AddStep appends a step, advances CurrentStep, and resets the per-step tool
// budget, maintaining the invariant that ToolsUsedThisStep is zero
// immediately after any add.
func (ec *ExecutionContext) AddStep(s Step) {
	if s.Timestamp.IsZero() {
 s.Timestamp = time.Now()
	}
	ec.Steps = append(ec.Steps, s)
	ec.CurrentStep++
	ec.ToolsUsedThisStep = 0
}

// CanUseTool() reports whether another tool call may run in the current step.
func (ec *ExecutionContext) CanUseTool() bool {
	return ec.ToolsUsedThisStep < ec.MaxToolsPerStep
}

// CanStep() reports whether another step may be taken in this run.
func (ec *ExecutionContext) CanStep() bool {
	return ec.CurrentStep < ec.MaxSteps
}

// RecordToolUse() increments the per-step tool budget counter.
func (ec *ExecutionContext) RecordToolUse() {
	ec.ToolsUsedThisStep++
}

// AgentState owns a Conversation and its ExecutionContext for a single run.
// It is shared with no other run.
type AgentState struct {
	Conversation Conversation `json:"conversation"`
	Execution *ExecutionContext `json:"execution"`
}

// LoopResult is what the agent loop returns to its caller.
type LoopResult struct {
	Success bool `json:"success"`
	FinalAnswer string `json:"final_answer"`
	Error string `json:"error,omitempty"`
	Steps int `json:"steps"`
}
