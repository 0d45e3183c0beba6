package tools

import (
	"context"
	"encoding/json"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
	"github.com/Aman-CERP/agentcore/internal/agenttypes"
	"github.com/Aman-CERP/agentcore/internal/patch"
)

type createPatchTool struct{ e *Engine }

func newCreatePatchTool(e *Engine) Tool { return createPatchTool{e} }

func (createPatchTool) Name() string { return "create_patch" }
func (createPatchTool) Description() string { return "Propose a reviewable patch to project source: plan, unified diff, and tests, written under workspace/patches/<patch_id>/." }
func (createPatchTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "title": stringProp("short patch title"),
 "description": stringProp("what the patch does and why"),
 "target_files": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "files the patch modifies"},
 "plan": stringProp("the plan markdown"),
 "diff": stringProp("a unified diff"),
 "tests": stringProp("tests markdown describing how to verify the patch"),
	}, "title", "description", "target_files", "plan", "diff", "tests")
}

func (t createPatchTool) Execute(_ context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	req := patch.Request{
 Title: argString(call.Arguments, "title", ""),
 Description: argString(call.Arguments, "description", ""),
 TargetFiles: argStringSlice(call.Arguments, "target_files"),
 Plan: argString(call.Arguments, "plan", ""),
 Diff: argString(call.Arguments, "diff", ""),
 Tests: argString(call.Arguments, "tests", ""),
	}
	id, applyCommand, err := t.e.Patches.Create(req)
	if err != nil {
 if te, ok := err.(*agenterrors.ToolError); ok {
 return errResult(call.ID, te)
 }
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodePatchInvalid, "failed to create patch", err))
	}
	encoded, _ := json.Marshal(map[string]string{"patch_id": id, "apply_command": applyCommand})
	return okResult(call.ID, string(encoded))
}

type listPatchesTool struct{ e *Engine }

func newListPatchesTool(e *Engine) Tool { return listPatchesTool{e} }

func (listPatchesTool) Name() string { return "list_patches" }
func (listPatchesTool) Description() string { return "List patches, optionally filtered by status." }
func (listPatchesTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "status": map[string]any{"type": "string", "enum": []any{"", "proposed", "applied", "tested", "failed", "rejected"}},
	})
}

func (t listPatchesTool) Execute(_ context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	status := patch.Status(argString(call.Arguments, "status", ""))
	patches, err := t.e.Patches.List(status)
	if err != nil {
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodePatchNotFound, "failed to list patches", err))
	}
	encoded, err := json.Marshal(patches)
	if err != nil {
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeSchemaViolation, "failed to encode patch list", err))
	}
	return okResult(call.ID, string(encoded))
}

type getPatchTool struct{ e *Engine }

func newGetPatchTool(e *Engine) Tool { return getPatchTool{e} }

func (getPatchTool) Name() string { return "get_patch" }
func (getPatchTool) Description() string { return "Fetch a patch's plan, diff, tests, and metadata by ID." }
func (getPatchTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "patch_id": stringProp("the patch ID"),
	}, "patch_id")
}

func (t getPatchTool) Execute(_ context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	id := argString(call.Arguments, "patch_id", "")
	full, err := t.e.Patches.Get(id)
	if err != nil {
 if te, ok := err.(*agenterrors.ToolError); ok {
 return errResult(call.ID, te)
 }
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Missing, agenterrors.CodePatchNotFound, "failed to get patch", err))
	}
	encoded, err := json.Marshal(full)
	if err != nil {
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeSchemaViolation, "failed to encode patch", err))
	}
	return okResult(call.ID, string(encoded))
}
