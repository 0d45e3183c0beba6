package tools

import (
	"time"

	"github.com/Aman-CERP/agentcore/internal/patch"
	"github.com/Aman-CERP/agentcore/internal/rules"
	"github.com/Aman-CERP/agentcore/internal/sandbox"
	"github.com/Aman-CERP/agentcore/internal/taskqueue"
	"github.com/Aman-CERP/agentcore/internal/vectorstore"
)

// Engine owns every long-lived collaborator a tool might need and outlives
// any single run. Tools hold a non-owning
// *Engine obtained at construction; nothing here is a global singleton.
type Engine struct {
	Sandbox *sandbox.Sandbox
	Rules *rules.Engine
	Index *vectorstore.Index
	Patches *patch.Manager
	Queue *taskqueue.Queue

	ShellTimeout time.Duration
	FetchTimeout time.Duration
	FetchMaxBytes int64
	ReadFileMaxBytes int64
	SubprocessTimeout time.Duration
	SubprocessCommand []string
}

// EngineConfig is the subset of config the Engine needs resolved into
// concrete values and collaborators, independent of how the caller loaded
// it (YAML file, env override, or test fixture).
type EngineConfig struct {
	ShellTimeout time.Duration
	FetchTimeout time.Duration
	FetchMaxBytes int64
	ReadFileMaxBytes int64
	SubprocessTimeout time.Duration
	// SubprocessCommand launches the long-lived code-evaluating subprocess
	// that subprocess_exec speaks the length-prefixed protocol to. It is
	// project configuration, not a fixed binary this core ships — e.g.
	// ["python3", "-u", "evaluator.py"].
	SubprocessCommand []string
}

// DefaultEngineConfig() returns stated defaults (edge cases;
// size caps) for components that don't override them explicitly.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
 ShellTimeout: 30 * time.Second,
 FetchTimeout: 15 * time.Second,
 FetchMaxBytes: 5 << 20, // 5 MiB
 ReadFileMaxBytes: 2 << 20, // 2 MiB
 SubprocessTimeout: 30 * time.Second,
	}
}

// NewEngine wires the collaborators into one non-owning bundle.
func NewEngine(sb *sandbox.Sandbox, re *rules.Engine, idx *vectorstore.Index, pm *patch.Manager, q *taskqueue.Queue, cfg EngineConfig) *Engine {
	return &Engine{
 Sandbox: sb,
 Rules: re,
 Index: idx,
 Patches: pm,
 Queue: q,
 ShellTimeout: cfg.ShellTimeout,
 FetchTimeout: cfg.FetchTimeout,
 FetchMaxBytes: cfg.FetchMaxBytes,
 ReadFileMaxBytes: cfg.ReadFileMaxBytes,
 SubprocessTimeout: cfg.SubprocessTimeout,
 SubprocessCommand: cfg.SubprocessCommand,
	}
}

// RegisterBuiltins constructs and registers every built-in tool against r.
// Dynamically-promoted tools are registered separately by whatever
// constructs them, through the same Registry.Register.
func (e *Engine) RegisterBuiltins(r *Registry, subprocesses *SubprocessManager) error {
	builtins := []Tool{
 newListFilesTool(e),
 newReadFileTool(e),
 newWriteFileTool(e),
 newShellTool(e),
 newFetchTool(e),
 newDataViewTool(e),
 newSubprocessExecTool(e, subprocesses),
 newSearchChunksTool(e),
 newCreatePatchTool(e),
 newListPatchesTool(e),
 newGetPatchTool(e),
 newQueueAddTool(e),
 newQueueNextTool(e),
 newQueueDoneTool(e),
 newQueueFailTool(e),
	}
	for _, t := range builtins {
 if err := r.Register(t); err != nil {
 return err
 }
	}
	return nil
}
