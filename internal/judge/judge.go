// Package judge implements an advisory post-hoc inspector of a completed
// agent run: it never blocks a tool call itself (that is the rule engine's
// and sandbox's job; the loop only ever surfaces judge output as a system
// note), except that the loop treats an `error`-severity judgment on a
// project-file write as grounds for refusal. Structured as a validation
// pass over run history rather than config fields, mirroring the shape of
// this codebase's other validation passes.
package judge

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/agentcore/internal/agenttypes"
)

// Severity is the closed set of judgment severities.
type Severity string

const (
	SeverityInfo Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError Severity = "error"
)

// Judgment is the result of one check.
type Judgment struct {
	Passed bool `json:"passed"`
	Reason string `json:"reason,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Severity Severity `json:"severity"`
}

// info builds a silent, passing judgment (the zero-noise default).
func info() Judgment { return Judgment{Passed: true, Severity: SeverityInfo} }

// loopWindow is how many trailing steps the repetition check inspects
//.
const loopWindow = 5

// Judge inspects one run's step history after each step that could trigger
// a check.
type Judge struct {
	// TestIntentPhrases identify assistant text that schedules a test run,
	// used by the write-without-test and budget-exhaustion checks.
	TestIntentPhrases []string
}

// New returns a Judge with the default test-intent vocabulary.
func New() *Judge {
	return &Judge{TestIntentPhrases: []string{"run the tests", "run tests", "i will test", "next: test", "schedule a test"}}
}

// Evaluate runs every check over ctx and the latest assistant text, and
// returns the single highest-severity non-info judgment, or info if
// nothing fired. The checks are independent; only one judgment surfaces
// per step, matching "append it as a system note" (singular).
func (j *Judge) Evaluate(ctx *agenttypes.ExecutionContext, workspaceRoot, projectRoot string, lastWriteTarget string, lastAssistantText string) Judgment {
	checks := []Judgment{
 j.checkLoopDetection(ctx),
 j.checkRepeatedShellErrors(ctx),
 j.checkPatchDiscipline(ctx, lastAssistantText),
 j.checkWriteOutsideWorkspace(workspaceRoot, projectRoot, lastWriteTarget),
 j.checkWriteWithoutTest(ctx, lastAssistantText),
 j.checkBudgetExhaustion(ctx, lastAssistantText),
	}

	best := info()
	for _, jg := range checks {
 if jg.Severity == SeverityInfo {
 continue
 }
 if rank(jg.Severity) > rank(best.Severity) {
 best = jg
 }
	}
	return best
}

func rank(s Severity) int {
	switch s {
	case SeverityError:
 return 2
	case SeverityWarning:
 return 1
	default:
 return 0
	}
}

// checkLoopDetection flags the last loopWindow CALL_TOOL steps issuing the
// same single tool call with identical arguments.
func (j *Judge) checkLoopDetection(ctx *agenttypes.ExecutionContext) Judgment {
	calls := trailingToolCalls(ctx, loopWindow)
	if len(calls) < loopWindow {
 return info()
	}
	first := calls[0]
	for _, c := range calls[1:] {
 if c.Name != first.Name || !sameArgs(c.Arguments, first.Arguments) {
 return info()
 }
	}
	return Judgment{
 Passed: false,
 Reason: "the last " + itoa(loopWindow) + " tool calls all invoked " + first.Name + " with identical arguments",
 Suggestion: "vary the approach: inspect the result more closely, or try a different tool",
 Severity: SeverityWarning,
	}
}

// trailingToolCalls collects up to n single-call entries from the most
// recent CALL_TOOL steps. Steps issuing more than one call in parallel are
// skipped, since "identical tool + arguments" only applies cleanly to
// single-call steps.
func trailingToolCalls(ctx *agenttypes.ExecutionContext, n int) []agenttypes.ToolCall {
	var out []agenttypes.ToolCall
	for i := len(ctx.Steps) - 1; i >= 0 && len(out) < n; i-- {
 s := ctx.Steps[i]
 if s.Type != agenttypes.StepCallTool || len(s.ToolCalls) != 1 {
 continue
 }
 out = append([]agenttypes.ToolCall{s.ToolCalls[0]}, out...)
	}
	return out
}

func sameArgs(a, b map[string]any) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
 return false
	}
	return string(ab) == string(bb)
}

// checkRepeatedShellErrors flags two consecutive failed shell/subprocess_exec
// results with no intervening read_file/analysis step.
func (j *Judge) checkRepeatedShellErrors(ctx *agenttypes.ExecutionContext) Judgment {
	var lastFailedShell bool
	for _, s := range ctx.Steps {
 if s.Type != agenttypes.StepObserve {
 continue
 }
 for i, res := range s.ToolResults {
 name := ""
 if i < len(s.ToolCalls) {
 name = s.ToolCalls[i].Name
 }
 isShell := name == "shell" || name == "subprocess_exec"
 isAnalysis := name == "read_file" || name == "search_chunks"

 switch {
 case isShell && !res.Success:
 if lastFailedShell {
 return Judgment{
 Passed: false,
 Reason: "two consecutive shell calls failed with no intervening analysis",
 Suggestion: "read the failing output or inspect the relevant file before retrying the command",
 Severity: SeverityWarning,
 }
 }
 lastFailedShell = true
 case isAnalysis:
 lastFailedShell = false
 case isShell && res.Success:
 lastFailedShell = false
 }
 }
	}
	return info()
}

// checkPatchDiscipline flags assistant text proposing a change to a
// non-workspace path without a create_patch call in the same run.
func (j *Judge) checkPatchDiscipline(ctx *agenttypes.ExecutionContext, lastAssistantText string) Judgment {
	if !mentionsCodeChange(lastAssistantText) {
 return info()
	}
	if calledTool(ctx, "create_patch") {
 return info()
	}
	return Judgment{
 Passed: false,
 Reason: "the assistant described a code change without creating a patch",
 Suggestion: "call create_patch to propose the change as a reviewable bundle",
 Severity: SeverityWarning,
	}
}

// checkWriteOutsideWorkspace implements the one case where a judgment rises
// to `error`: a write_file target resolved under project_root but outside
// workspace_root, excluding the whitelisted temp area, must be refused
//. lastWriteTarget is the sandbox-resolved absolute
// path of the most recent write_file call, or empty if none occurred this
// step.
func (j *Judge) checkWriteOutsideWorkspace(workspaceRoot, projectRoot, lastWriteTarget string) Judgment {
	if lastWriteTarget == "" {
 return info()
	}
	if !strings.HasPrefix(lastWriteTarget, projectRoot) {
 return info()
	}
	if strings.HasPrefix(lastWriteTarget, workspaceRoot) {
 return info()
	}
	if strings.Contains(lastWriteTarget, string(filepath.Separator)+"tmp"+string(filepath.Separator)) {
 return info()
	}
	return Judgment{
 Passed: false,
 Reason: "write_file target " + lastWriteTarget + " is under project_root but outside workspace_root",
 Suggestion: "refuse the call; only workspace_root (or the whitelisted temp area) may be written directly",
 Severity: SeverityError,
	}
}

func mentionsCodeChange(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range []string{"i will change", "i'll modify", "i will modify", "i'll update", "let's change", "i will fix"} {
 if strings.Contains(lower, phrase) {
 return true
 }
	}
	return false
}

func calledTool(ctx *agenttypes.ExecutionContext, name string) bool {
	for _, s := range ctx.Steps {
 if s.Type != agenttypes.StepCallTool {
 continue
 }
 for _, c := range s.ToolCalls {
 if c.Name == name {
 return true
 }
 }
	}
	return false
}

// checkWriteWithoutTest flags a write_file/create_patch with no later
// shell/subprocess_exec call that looks like a test run.
func (j *Judge) checkWriteWithoutTest(ctx *agenttypes.ExecutionContext, lastAssistantText string) Judgment {
	lastWriteIdx := -1
	for i, s := range ctx.Steps {
 if s.Type != agenttypes.StepCallTool {
 continue
 }
 for _, c := range s.ToolCalls {
 if c.Name == "write_file" || c.Name == "create_patch" {
 lastWriteIdx = i
 }
 }
	}
	if lastWriteIdx < 0 {
 return info()
	}

	for _, s := range ctx.Steps[lastWriteIdx:] {
 if s.Type != agenttypes.StepCallTool {
 continue
 }
 for _, c := range s.ToolCalls {
 if (c.Name == "shell" || c.Name == "subprocess_exec") && looksLikeTestCommand(c.Arguments) {
 return info()
 }
 }
	}

	if j.schedulesTest(lastAssistantText) {
 return info()
	}

	return Judgment{
 Passed: false,
 Reason: "a write_file or create_patch call has no later test run in this run",
 Suggestion: "DO THIS NEXT: run tests",
 Severity: SeverityWarning,
	}
}

func looksLikeTestCommand(args map[string]any) bool {
	cmd, _ := args["command"].(string)
	lower := strings.ToLower(cmd)
	return strings.Contains(lower, "test")
}

func (j *Judge) schedulesTest(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range j.TestIntentPhrases {
 if strings.Contains(lower, phrase) {
 return true
 }
	}
	return false
}

// checkBudgetExhaustion flags a budget-blocked step with no test scheduling
// in the assistant text.
func (j *Judge) checkBudgetExhaustion(ctx *agenttypes.ExecutionContext, lastAssistantText string) Judgment {
	if ctx.CanUseTool() {
 return info()
	}
	if j.schedulesTest(lastAssistantText) {
 return info()
	}
	return Judgment{
 Passed: false,
 Reason: "the per-step tool budget is exhausted and no test run was scheduled",
 Suggestion: "the tool budget resets next step; plan the remaining work accordingly",
 Severity: SeverityWarning,
	}
}

func itoa(n int) string {
	if n == 0 {
 return "0"
	}
	neg := n < 0
	if neg {
 n = -n
	}
	var b []byte
	for n > 0 {
 b = append([]byte{byte('0' + n%10)}, b...)
 n /= 10
	}
	if neg {
 b = append([]byte{'-'}, b...)
	}
	return string(b)
}
