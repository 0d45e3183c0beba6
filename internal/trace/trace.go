// Package trace implements the per-run structured lifecycle logger (spec
//,). It is a thin slog wrapper, grounded on the
// internal/logging/mcp.go (which logs MCP tool invocations the same way)
// and internal/telemetry/query_metrics.go for the elapsed-time field shape.
package trace

import (
	"log/slog"
	"time"
)

// Logger emits structured CALL/RESULT events for one run.
type Logger struct {
	runID string
	logger *slog.Logger
}

// New binds a Logger to a run ID. A nil base logger falls back to slog.Default.
func New(runID string, base *slog.Logger) *Logger {
	if base == nil {
 base = slog.Default()
	}
	return &Logger{runID: runID, logger: base}
}

// Call logs a tool dispatch before execution.
func (l *Logger) Call(step int, toolName, toolCallID string) {
	l.logger.Info("CALL",
 "run_id", l.runID,
 "step", step,
 "tool", toolName,
 "tool_call_id", toolCallID,
	)
}

// Result logs a tool's outcome after execution.
func (l *Logger) Result(step int, toolName, toolCallID string, elapsed time.Duration, success bool) {
	l.logger.Info("RESULT",
 "run_id", l.runID,
 "step", step,
 "tool", toolName,
 "tool_call_id", toolCallID,
 "elapsed_ms", elapsed.Milliseconds(),
 "success", success,
	)
}

// Event logs an arbitrary run-scoped lifecycle event (step transitions,
// judge judgments, loop termination).
func (l *Logger) Event(kind string, attrs...any) {
	args := append([]any{"run_id", l.runID}, attrs...)
	l.logger.Info(kind, args...)
}
