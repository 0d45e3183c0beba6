package tools

import (
	"context"
	"encoding/json"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
	"github.com/Aman-CERP/agentcore/internal/agenttypes"
	"github.com/Aman-CERP/agentcore/internal/taskqueue"
)

type queueAddTool struct{ e *Engine }

func newQueueAddTool(e *Engine) Tool { return queueAddTool{e} }

func (queueAddTool) Name() string { return "queue_add" }
func (queueAddTool) Description() string { return "Enqueue a task packet for later pickup via queue_next." }
func (queueAddTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "objective": stringProp("what the task should accomplish"),
 "inputs": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "references the task needs"},
 "acceptance": stringProp("how to tell the task is done"),
 "parent_id": stringProp("parent task ID, if any"),
 "max_tool_calls": intProp("per-task tool-call budget"),
 "max_steps": intProp("per-task step budget"),
	}, "objective", "acceptance")
}

func (t queueAddTool) Execute(_ context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	objective := argString(call.Arguments, "objective", "")
	inputs := argStringSlice(call.Arguments, "inputs")
	acceptance := argString(call.Arguments, "acceptance", "")
	parentID := argString(call.Arguments, "parent_id", "")
	budget := taskqueue.Budget{
 MaxToolCalls: argInt(call.Arguments, "max_tool_calls", 0),
 MaxSteps: argInt(call.Arguments, "max_steps", 0),
	}

	id, err := t.e.Queue.AddTask(objective, inputs, acceptance, parentID, budget, nil)
	if err != nil {
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeTaskNotFound, "failed to enqueue task", err))
	}
	encoded, _ := json.Marshal(map[string]string{"task_id": id})
	return okResult(call.ID, string(encoded))
}

type queueNextTool struct{ e *Engine }

func newQueueNextTool(e *Engine) Tool { return queueNextTool{e} }

func (queueNextTool) Name() string { return "queue_next" }
func (queueNextTool) Description() string { return "Claim the earliest queued task, transitioning it to running." }
func (queueNextTool) Parameters() map[string]any {
	return objectSchema(map[string]any{})
}

func (t queueNextTool) Execute(_ context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	task, ok, err := t.e.Queue.GetNext()
	if err != nil {
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeTaskNotFound, "failed to claim next task", err))
	}
	if !ok {
 return errResult(call.ID, agenterrors.New(agenterrors.Missing, agenterrors.CodeTaskNotFound, "no queued tasks"))
	}
	encoded, err := json.Marshal(task)
	if err != nil {
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeSchemaViolation, "failed to encode task", err))
	}
	return okResult(call.ID, string(encoded))
}

func checkpointFromArgs(args map[string]any, taskID string) *taskqueue.Checkpoint {
	raw, ok := args["checkpoint"]
	if !ok {
 return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
 return nil
	}
	return &taskqueue.Checkpoint{
 TaskID: taskID,
 WhatWasDone: argString(m, "what_was_done", ""),
 WhatChanged: argStringSlice(m, "what_changed"),
 WhatNext: argString(m, "what_next", ""),
 Blockers: argStringSlice(m, "blockers"),
 Citations: argStringSlice(m, "citations"),
	}
}

func checkpointSchema() map[string]any {
	return objectSchema(map[string]any{
 "what_was_done": stringProp("summary of work completed"),
 "what_changed": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "concrete changes made"},
 "what_next": stringProp("what remains or should happen next"),
 "blockers": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "anything blocking further progress"},
 "citations": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "chunk IDs or file paths backing the summary"},
	})
}

type queueDoneTool struct{ e *Engine }

func newQueueDoneTool(e *Engine) Tool { return queueDoneTool{e} }

func (queueDoneTool) Name() string { return "queue_done" }
func (queueDoneTool) Description() string { return "Mark a running task done and persist its checkpoint." }
func (queueDoneTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "task_id": stringProp("the task ID"),
 "checkpoint": checkpointSchema(),
	}, "task_id", "checkpoint")
}

func (t queueDoneTool) Execute(_ context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	taskID := argString(call.Arguments, "task_id", "")
	cp := checkpointFromArgs(call.Arguments, taskID)
	if err := t.e.Queue.MarkDone(taskID, cp); err != nil {
 if te, ok := err.(*agenterrors.ToolError); ok {
 return errResult(call.ID, te)
 }
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeTaskNotFound, "failed to mark task done", err))
	}
	return okResult(call.ID, "task "+taskID+" marked done")
}

type queueFailTool struct{ e *Engine }

func newQueueFailTool(e *Engine) Tool { return queueFailTool{e} }

func (queueFailTool) Name() string { return "queue_fail" }
func (queueFailTool) Description() string { return "Mark a running task failed, recording why and its checkpoint." }
func (queueFailTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "task_id": stringProp("the task ID"),
 "error": stringProp("why the task failed"),
 "checkpoint": checkpointSchema(),
	}, "task_id", "error")
}

func (t queueFailTool) Execute(_ context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	taskID := argString(call.Arguments, "task_id", "")
	errMsg := argString(call.Arguments, "error", "")
	cp := checkpointFromArgs(call.Arguments, taskID)
	if err := t.e.Queue.MarkFailed(taskID, errMsg, cp); err != nil {
 if te, ok := err.(*agenterrors.ToolError); ok {
 return errResult(call.ID, te)
 }
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeTaskNotFound, "failed to mark task failed", err))
	}
	return okResult(call.ID, "task "+taskID+" marked failed")
}
