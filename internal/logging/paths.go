package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLogDir() returns the default log directory (~/.agentcore/logs/).
// Falls back to temp directory if home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
 return filepath.Join(os.TempDir(), ".agentcore", "logs")
	}
	return filepath.Join(home, ".agentcore", "logs")
}

// DefaultLogPath() returns the default agent log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "agent.log")
}

// MCPLogPath() returns the MCP front-end adapter's log path. The adapter must
// never write to stdout/stderr (they carry the JSON-RPC stream), so its logs
// always go to this file instead.
func MCPLogPath() string {
	return filepath.Join(DefaultLogDir(), "mcp.log")
}

// LogSource represents the source of logs to view.
type LogSource string

const (
	// LogSourceAgent is the agent loop and tool-execution logs (default).
	LogSourceAgent LogSource = "agent"
	// LogSourceMCP is the MCP front-end adapter's logs.
	LogSourceMCP LogSource = "mcp"
	// LogSourceAll combines all log sources.
	LogSourceAll LogSource = "all"
)

// FindLogFile attempts to find the log file for viewing.
// Priority:
// 1. Explicit path (if provided)
// 2. ~/.agentcore/logs/agent.log (global)
//
// Returns an error if no log file is found.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
 if _, err := os.Stat(explicit); err == nil {
 return explicit, nil
 }
 return "", fmt.Errorf("log file not found: %s", explicit)
	}

	// Try global path
	globalPath := DefaultLogPath()
	if _, err := os.Stat(globalPath); err == nil {
 return globalPath, nil
	}

	return "", fmt.Errorf("no log file found. The agent may not have run with --debug yet.\nExpected at: %s", globalPath)
}

// FindLogFileBySource finds log files based on the source type.
// Returns a list of log file paths that exist.
func FindLogFileBySource(source LogSource, explicit string) ([]string, error) {
	// Explicit path takes precedence
	if explicit != "" {
 if _, err := os.Stat(explicit); err == nil {
 return []string{explicit}, nil
 }
 return nil, fmt.Errorf("log file not found: %s", explicit)
	}

	var paths []string
	var checked []string

	switch source {
	case LogSourceAgent:
 agentPath := DefaultLogPath()
 checked = append(checked, agentPath)
 if _, err := os.Stat(agentPath); err == nil {
 paths = append(paths, agentPath)
 }

	case LogSourceMCP:
 mcpPath := MCPLogPath()
 checked = append(checked, mcpPath)
 if _, err := os.Stat(mcpPath); err == nil {
 paths = append(paths, mcpPath)
 }

	case LogSourceAll:
 agentPath := DefaultLogPath()
 mcpPath := MCPLogPath()
 checked = append(checked, agentPath, mcpPath)

 if _, err := os.Stat(agentPath); err == nil {
 paths = append(paths, agentPath)
 }
 if _, err := os.Stat(mcpPath); err == nil {
 paths = append(paths, mcpPath)
 }

	default:
 return nil, fmt.Errorf("unknown log source: %s (use: agent, mcp, all)", source)
	}

	if len(paths) == 0 {
 hint := getLogHint(source)
 return nil, fmt.Errorf("no log files found for source '%s'.\nChecked: %v\n\n%s", source, checked, hint)
	}

	return paths, nil
}

// ParseLogSource parses a string into a LogSource.
func ParseLogSource(s string) LogSource {
	switch s {
	case "mcp":
 return LogSourceMCP
	case "all":
 return LogSourceAll
	default:
 return LogSourceAgent
	}
}

// EnsureLogDir() creates the log directory if it doesn't exist.
func EnsureLogDir() error {
	dir := DefaultLogDir()
	return os.MkdirAll(dir, 0o755)
}

// getLogHint returns a helpful message on how to generate logs for the given source.
func getLogHint(source LogSource) string {
	switch source {
	case LogSourceAgent:
 return "To generate agent logs:\n agentcore run --debug"
	case LogSourceMCP:
 return "To generate MCP front-end logs:\n agentcore mcp --debug"
	case LogSourceAll:
 return "To generate logs:\n Agent: agentcore run --debug\n MCP: agentcore mcp --debug"
	default:
 return ""
	}
}
