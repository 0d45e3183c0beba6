// Package rules implements pre-dispatch validation of tool calls against a
// list of safety rules, grounded on the forbidden-pattern checks scattered
// through the pack's agent runtimes (e.g. other_examples' tim-coutinho-agentops
// safety doc and its own input validation in internal/mcp/tools.go).
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Aman-CERP/agentcore/internal/agenttypes"
)

// Predicate reports whether a rule applies to a given tool call.
type Predicate func(toolName string, args map[string]any) bool

// AppliesToTools restricts a rule to a fixed set of tool names.
func AppliesToTools(names...string) Predicate {
	set := make(map[string]bool, len(names))
	for _, n := range names {
 set[n] = true
	}
	return func(toolName string, _ map[string]any) bool {
 return set[toolName]
	}
}

// AppliesToAll matches every tool call.
func AppliesToAll(string, map[string]any) bool { return true }

// SafetyRule forbids a set of patterns from appearing in any string-valued
// argument of tool calls it applies to.
type SafetyRule struct {
	Name string
	ForbiddenPatterns []*regexp.Regexp
	AppliesTo Predicate
}

// NewSafetyRule compiles forbidden substrings/regexes into a SafetyRule.
// Patterns are treated as regexes; a literal substring is a valid regex.
func NewSafetyRule(name string, appliesTo Predicate, patterns...string) (*SafetyRule, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
 re, err := regexp.Compile(p)
 if err != nil {
 return nil, fmt.Errorf("rule %q: invalid pattern %q: %w", name, p, err)
 }
 compiled = append(compiled, re)
	}
	if appliesTo == nil {
 appliesTo = AppliesToAll
	}
	return &SafetyRule{Name: name, ForbiddenPatterns: compiled, AppliesTo: appliesTo}, nil
}

// Violation describes one rule that rejected a tool call.
type Violation struct {
	RuleName string
	Reason string
}

// Engine evaluates ToolCalls against a fixed list of SafetyRules.
type Engine struct {
	rules []*SafetyRule
}

// NewEngine constructs an Engine from a rule set.
func NewEngine(rules...*SafetyRule) *Engine {
	return &Engine{rules: rules}
}

// Add appends a rule to the engine.
func (e *Engine) Add(r *SafetyRule) {
	e.rules = append(e.rules, r)
}

// Evaluate checks a tool call against every rule (it does not stop at the
// first match) and collects every violating rule in rule order, so the first
// entry of violations is the first rule that matched.
func (e *Engine) Evaluate(call agenttypes.ToolCall) (allowed bool, violations []Violation) {
	for _, rule := range e.rules {
 if !rule.AppliesTo(call.Name, call.Arguments) {
 continue
 }
 if reason, hit := rule.matches(call.Arguments); hit {
 violations = append(violations, Violation{RuleName: rule.Name, Reason: reason})
 }
	}
	return len(violations) == 0, violations
}

func (r *SafetyRule) matches(args map[string]any) (string, bool) {
	for key, v := range args {
 s, ok := v.(string)
 if !ok {
 continue
 }
 for _, pattern := range r.ForbiddenPatterns {
 if pattern.MatchString(s) {
 return fmt.Sprintf("argument %q matches forbidden pattern %q", key, pattern.String()), true
 }
 }
	}
	return "", false
}

// DefaultShellRules() returns the baseline forbidden-pattern rule guarding the
// shell tool against destructive or credential-reading commands.
func DefaultShellRules() *SafetyRule {
	rule, _ := NewSafetyRule(
 "shell-forbidden-patterns",
 AppliesToTools("shell"),
 `rm\s+-rf\s+/(\s|$)`,
 `:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;`, // fork bomb
 `dd\s+if=.*of=/dev/(sd|nvme|hd)`,
 `mkfs\.`,
 `>\s*/dev/sd`,
 `cat\s+.*\.(env|pem|key)\b`,
 strings.Join([]string{`(?i)`, `credentials`}, ""),
	)
	return rule
}
