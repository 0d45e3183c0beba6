package judge

import (
	"testing"

	"github.com/Aman-CERP/agentcore/internal/agenttypes"
	"github.com/stretchr/testify/assert"
)

func ctxWithCalls(calls...agenttypes.ToolCall) *agenttypes.ExecutionContext {
	ec := agenttypes.NewExecutionContext("run_test", "conv_test", nil, 50, 10)
	for _, c := range calls {
 ec.AddStep(agenttypes.Step{Type: agenttypes.StepCallTool, ToolCalls: []agenttypes.ToolCall{c}})
	}
	return ec
}

func TestJudge_LoopDetection_FiresOnFiveIdenticalCalls(t *testing.T) {
	j := New()
	call := agenttypes.ToolCall{Name: "list_files", Arguments: map[string]any{"path": "."}}
	ec := ctxWithCalls(call, call, call, call, call)

	jg := j.Evaluate(ec, "/ws", "/proj", "", "")
	assert.False(t, jg.Passed)
	assert.Equal(t, SeverityWarning, jg.Severity)
	assert.Contains(t, jg.Reason, "list_files")
}

func TestJudge_LoopDetection_SilentOnVariedCalls(t *testing.T) {
	j := New()
	ec := ctxWithCalls(
 agenttypes.ToolCall{Name: "list_files", Arguments: map[string]any{"path": "a"}},
 agenttypes.ToolCall{Name: "read_file", Arguments: map[string]any{"path": "b"}},
 agenttypes.ToolCall{Name: "list_files", Arguments: map[string]any{"path": "c"}},
	)
	jg := j.Evaluate(ec, "/ws", "/proj", "", "")
	assert.True(t, jg.Passed)
	assert.Equal(t, SeverityInfo, jg.Severity)
}

func TestJudge_WriteWithoutTest_FiresAfterWriteWithNoTest(t *testing.T) {
	j := New()
	ec := agenttypes.NewExecutionContext("run_test", "conv_test", nil, 50, 10)
	ec.AddStep(agenttypes.Step{Type: agenttypes.StepCallTool, ToolCalls: []agenttypes.ToolCall{{Name: "write_file", Arguments: map[string]any{"path": "x.go"}}}})

	jg := j.Evaluate(ec, "/ws", "/proj", "", "")
	assert.False(t, jg.Passed)
	assert.Contains(t, jg.Suggestion, "run tests")
}

func TestJudge_WriteWithoutTest_SilentAfterTestRun(t *testing.T) {
	j := New()
	ec := agenttypes.NewExecutionContext("run_test", "conv_test", nil, 50, 10)
	ec.AddStep(agenttypes.Step{Type: agenttypes.StepCallTool, ToolCalls: []agenttypes.ToolCall{{Name: "write_file", Arguments: map[string]any{"path": "x.go"}}}})
	ec.AddStep(agenttypes.Step{Type: agenttypes.StepCallTool, ToolCalls: []agenttypes.ToolCall{{Name: "shell", Arguments: map[string]any{"command": "go test./..."}}}})

	jg := j.Evaluate(ec, "/ws", "/proj", "", "")
	assert.True(t, jg.Passed)
}

func TestJudge_RepeatedShellErrors(t *testing.T) {
	j := New()
	ec := agenttypes.NewExecutionContext("run_test", "conv_test", nil, 50, 10)
	ec.AddStep(agenttypes.Step{
 Type: agenttypes.StepObserve,
 ToolCalls: []agenttypes.ToolCall{{Name: "shell"}},
 ToolResults: []agenttypes.ToolResult{{Success: false}},
	})
	ec.AddStep(agenttypes.Step{
 Type: agenttypes.StepObserve,
 ToolCalls: []agenttypes.ToolCall{{Name: "shell"}},
 ToolResults: []agenttypes.ToolResult{{Success: false}},
	})

	jg := j.Evaluate(ec, "/ws", "/proj", "", "")
	assert.False(t, jg.Passed)
	assert.Equal(t, SeverityWarning, jg.Severity)
}

func TestJudge_WriteOutsideWorkspace_IsError(t *testing.T) {
	j := New()
	ec := agenttypes.NewExecutionContext("run_test", "conv_test", nil, 50, 10)

	jg := j.Evaluate(ec, "/proj/workspace", "/proj", "/proj/src/main.go", "")
	assert.False(t, jg.Passed)
	assert.Equal(t, SeverityError, jg.Severity)
}

func TestJudge_WriteInsideWorkspace_IsSilent(t *testing.T) {
	j := New()
	ec := agenttypes.NewExecutionContext("run_test", "conv_test", nil, 50, 10)

	jg := j.Evaluate(ec, "/proj/workspace", "/proj", "/proj/workspace/notes.md", "")
	assert.True(t, jg.Passed)
}

func TestJudge_BudgetExhaustion(t *testing.T) {
	j := New()
	ec := agenttypes.NewExecutionContext("run_test", "conv_test", nil, 50, 1)
	ec.RecordToolUse()

	jg := j.Evaluate(ec, "/ws", "/proj", "", "")
	assert.False(t, jg.Passed)
	assert.Equal(t, SeverityWarning, jg.Severity)
}

func TestJudge_BudgetExhaustion_SilentWhenTestScheduled(t *testing.T) {
	j := New()
	ec := agenttypes.NewExecutionContext("run_test", "conv_test", nil, 50, 1)
	ec.RecordToolUse()

	jg := j.Evaluate(ec, "/ws", "/proj", "", "next step I will run the tests")
	assert.True(t, jg.Passed)
}
