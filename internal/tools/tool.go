// Package tools implements the built-in tool capability set dispatched by
// the agent loop: a uniform Tool interface, JSON-schema argument
// validation ahead of every execute, and a non-owning Engine that wires
// tools to the sandbox, retrieval, patch, and task-queue subsystems.
// Follows the pattern of internal/mcp/tools.go input-schema shapes and on
// the registry pattern of the pack's goadesign-goa-ai/registry/service.go
// (compiled santhosh-tekuri/jsonschema/v6 validation ahead of dispatch) and
// tombee-conductor's pkg/tools/registry.go (name-keyed Tool capability,
// register-once registry).
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
	"github.com/Aman-CERP/agentcore/internal/agenttypes"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Tool is the uniform capability every built-in and dynamically-promoted
// tool implements. Execute must be total: on any
// internal failure it returns a ToolResult with Success=false rather than a
// bare error, so the loop never needs a second failure path for tools.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, call agenttypes.ToolCall) agenttypes.ToolResult
}

// Registry holds one compiled schema and implementation per tool name.
// Register-once: a second registration of the same name is a programmer
// error caught at startup, not a runtime condition to recover from.
type Registry struct {
	mu sync.RWMutex
	tools map[string]Tool
	schemas map[string]*jsonschema.Schema
}

// NewRegistry() returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
 tools: make(map[string]Tool),
 schemas: make(map[string]*jsonschema.Schema),
	}
}

// Register compiles t's parameter schema and adds it under t.Name().
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if name == "" {
 return fmt.Errorf("tools: cannot register a tool with an empty name")
	}
	if _, exists := r.tools[name]; exists {
 return fmt.Errorf("tools: %q already registered", name)
	}

	compiler := jsonschema.NewCompiler()
	resourceID := "mem://agentcore/tools/" + name + ".json"
	if err := compiler.AddResource(resourceID, t.Parameters()); err != nil {
 return fmt.Errorf("tools: %q: invalid parameter schema: %w", name, err)
	}
	schema, err := compiler.Compile(resourceID)
	if err != nil {
 return fmt.Errorf("tools: %q: failed to compile parameter schema: %w", name, err)
	}

	r.tools[name] = t
	r.schemas[name] = schema
	return nil
}

// Names() returns every registered tool name, sorted for deterministic
// catalogue listings (e.g. the system prompt's tool catalogue,).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
 names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Describe() returns every registered tool's name, description, and
// parameter schema, for building the model gateway's tool catalogue.
func (r *Registry) Describe() []GatewayToolSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]GatewayToolSchema, 0, len(r.tools))
	for _, name := range r.sortedNamesLocked() {
 t := r.tools[name]
 out = append(out, GatewayToolSchema{
 Name: t.Name(),
 Description: t.Description(),
 Parameters: t.Parameters(),
 })
	}
	return out
}

func (r *Registry) sortedNamesLocked() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
 names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// GatewayToolSchema mirrors gateway.ToolSchema without importing gateway,
// keeping this package a leaf any gateway adapter can depend on.
type GatewayToolSchema struct {
	Name string
	Description string
	Parameters map[string]any
}

// Dispatch validates call.Arguments against the named tool's compiled
// schema, then executes it. Schema-validation failures never reach
// Execute.
func (r *Registry) Dispatch(ctx context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	r.mu.RLock()
	t, okTool := r.tools[call.Name]
	schema, okSchema := r.schemas[call.Name]
	r.mu.RUnlock()

	if !okTool || !okSchema {
 return errResult(call.ID, agenterrors.New(agenterrors.Missing, agenterrors.CodeToolNotFound, "no such tool: "+call.Name))
	}

	if err := validateArgs(schema, call.Arguments); err != nil {
 return errResult(call.ID, err)
	}

	return t.Execute(ctx, call)
}

// validateArgs round-trips arguments through JSON so jsonschema/v6 sees the
// same plain-value shapes (map[string]any, []any, float64, string, bool,
// nil) it would see validating a parsed request body.
func validateArgs(schema *jsonschema.Schema, args map[string]any) *agenterrors.ToolError {
	raw, err := json.Marshal(args)
	if err != nil {
 return agenterrors.Wrap(agenterrors.Rules, agenterrors.CodeSchemaViolation, "arguments are not JSON-serializable", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
 return agenterrors.Wrap(agenterrors.Rules, agenterrors.CodeSchemaViolation, "arguments failed to round-trip through JSON", err)
	}
	if err := schema.Validate(doc); err != nil {
 return agenterrors.Wrap(agenterrors.Rules, agenterrors.CodeSchemaViolation, "arguments do not satisfy the tool's parameter schema", err)
	}
	return nil
}

// errResult formats a ToolError into the ToolResult shape the loop expects.
func errResult(callID string, te *agenterrors.ToolError) agenttypes.ToolResult {
	return agenttypes.ToolResult{
 ToolCallID: callID,
 Success: false,
 Error: te.Format(),
	}
}

// okResult wraps a successful text output.
func okResult(callID, output string) agenttypes.ToolResult {
	return agenttypes.ToolResult{ToolCallID: callID, Success: true, Output: output}
}

// objectSchema is a small helper for the repetitive "object with these
// properties" shape every built-in tool's Parameters() returns.
func objectSchema(properties map[string]any, required...string) map[string]any {
	s := map[string]any{
 "type": "object",
 "properties": properties,
 "additionalProperties": false,
	}
	if len(required) > 0 {
 s["required"] = required
	}
	return s
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func intProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}
