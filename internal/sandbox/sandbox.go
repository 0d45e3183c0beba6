// Package sandbox confines filesystem writes to a workspace root while
// permitting read-only access to the enclosing project tree, and enforces a
// resource circuit breaker before expensive operations. It is grounded on
// the internal/preflight disk/memory checks and internal/gitignore
// pattern matching, generalized to sandbox contract.
package sandbox

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
)

// defaultSensitivePatterns are always blocked for project reads, regardless
// of configuration.
var defaultSensitivePatterns = []string{
	".env", ".env.*", "*.pem", "*.key", "*secret*", "*credentials*", ".git/",
}

// Config configures a Sandbox instance.
type Config struct {
	// WorkspaceRoot is the only directory tree the agent may write under.
	WorkspaceRoot string
	// ProjectRoot is the enclosing, read-only project tree (typically the
	// parent of WorkspaceRoot).
	ProjectRoot string
	// BlockedDirs are additional directory names blocked everywhere (e.g. "patches").
	BlockedDirs []string
	// SensitivePatterns extend defaultSensitivePatterns for project reads.
	SensitivePatterns []string
	// MaxWorkspaceSizeBytes is the workspace size circuit-breaker threshold.
	MaxWorkspaceSizeBytes int64
	// MinFreeRAMPercent is the minimum free RAM percent circuit-breaker threshold.
	MinFreeRAMPercent float64
}

// Sandbox resolves and validates paths for the tool registry. It never
// raises; every failure comes back as an *agenterrors.ToolError.
type Sandbox struct {
	cfg Config
}

// New constructs a Sandbox from absolute workspace/project roots.
func New(cfg Config) (*Sandbox, error) {
	wsRoot, err := filepath.Abs(cfg.WorkspaceRoot)
	if err != nil {
 return nil, err
	}
	projRoot, err := filepath.Abs(cfg.ProjectRoot)
	if err != nil {
 return nil, err
	}
	cfg.WorkspaceRoot = wsRoot
	cfg.ProjectRoot = projRoot
	return &Sandbox{cfg: cfg}, nil
}

// WorkspaceRoot() returns the absolute workspace root.
func (s *Sandbox) WorkspaceRoot() string { return s.cfg.WorkspaceRoot }

// ProjectRoot() returns the absolute project root.
func (s *Sandbox) ProjectRoot() string { return s.cfg.ProjectRoot }

// canonicalize resolves symlinks when the path exists; for paths that don't
// yet exist (write targets), it canonicalizes the deepest existing ancestor
// and rejoins the remainder, so a not-yet-created file still gets containment
// checked against its real parent directory.
func canonicalize(path string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
 return resolved, nil
	}
	dir, base := filepath.Split(path)
	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	if dir == "" || dir == path {
 return path, nil
	}
	resolvedDir, err := canonicalize(dir)
	if err != nil {
 return path, nil //nolint: the path just doesn't exist yet; fall through lexically.
	}
	return filepath.Join(resolvedDir, base), nil
}

func contains(root, candidate string) bool {
	rel, err := filepath.Rel(root, candidate)
	if err != nil {
 return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && rel != "..")
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
 if ok, _ := filepath.Match(p, name); ok {
 return true
 }
 if strings.Contains(p, "*") {
 continue
 }
 if strings.Contains(name, strings.TrimSuffix(p, "/")) {
 return true
 }
	}
	return false
}

func (s *Sandbox) isBlocked(absPath string) bool {
	rel, err := filepath.Rel(s.cfg.ProjectRoot, absPath)
	if err != nil {
 rel = absPath
	}
	parts := strings.Split(rel, string(filepath.Separator))
	for _, part := range parts {
 for _, blocked := range s.cfg.BlockedDirs {
 if part == blocked {
 return true
 }
 }
	}
	return false
}

func (s *Sandbox) isSensitive(absPath string) bool {
	patterns := append(append([]string{}, defaultSensitivePatterns...), s.cfg.SensitivePatterns...)
	base := filepath.Base(absPath)
	rel, err := filepath.Rel(s.cfg.ProjectRoot, absPath)
	if err != nil {
 rel = absPath
	}
	if matchesAny(patterns, base) {
 return true
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
 if part == ".git" {
 return true
 }
	}
	return false
}

// resolveUnder joins rel onto root, canonicalizes, and requires containment
// within root, blocked-dir exclusion, and (optionally) non-sensitivity.
func (s *Sandbox) resolveUnder(root, rel string, checkSensitive bool) (string, *agenterrors.ToolError) {
	joined := filepath.Join(root, rel)
	resolved, err := canonicalize(joined)
	if err != nil {
 return "", agenterrors.Wrap(agenterrors.Workspace, agenterrors.CodePathOutsideWorkspace, "failed to resolve path", err)
	}
	if !contains(root, resolved) {
 return "", agenterrors.New(agenterrors.Workspace, agenterrors.CodePathOutsideWorkspace, "path escapes the allowed root").
 WithContext("path", rel)
	}
	if s.isBlocked(resolved) {
 return "", agenterrors.New(agenterrors.Workspace, agenterrors.CodePathOutsideWorkspace, "path targets a blocked directory").
 WithContext("path", rel)
	}
	if checkSensitive && s.isSensitive(resolved) {
 return "", agenterrors.New(agenterrors.Workspace, agenterrors.CodePathOutsideWorkspace, "path matches a sensitive pattern").
 WithContext("path", rel)
	}
	return resolved, nil
}

// Resolve returns an absolute path under WorkspaceRoot() suitable for writes.
func (s *Sandbox) Resolve(path string) (string, *agenterrors.ToolError) {
	return s.resolveUnder(s.cfg.WorkspaceRoot, path, false)
}

// ResolveRead returns an absolute path under WorkspaceRoot() for read intent.
// It applies the same checks as Resolve; neither requires the target to exist.
func (s *Sandbox) ResolveRead(path string) (string, *agenterrors.ToolError) {
	return s.resolveUnder(s.cfg.WorkspaceRoot, path, false)
}

// ResolveProjectRead returns an absolute path under ProjectRoot() for
// read-only access, rejecting sensitive patterns and requiring existence.
func (s *Sandbox) ResolveProjectRead(path string) (string, *agenterrors.ToolError) {
	resolved, toolErr := s.resolveUnder(s.cfg.ProjectRoot, path, true)
	if toolErr != nil {
 return "", toolErr
	}
	if _, err := os.Stat(resolved); err != nil {
 return "", agenterrors.New(agenterrors.Workspace, agenterrors.CodeNotAFile, "file does not exist").
 WithContext("path", path)
	}
	return resolved, nil
}

// ResolveEitherRead resolves path for read intent against the workspace
// root first, falling back to the project root.
func (s *Sandbox) ResolveEitherRead(path string) (string, *agenterrors.ToolError) {
	if resolved, toolErr := s.resolveUnder(s.cfg.WorkspaceRoot, path, false); toolErr == nil {
 return resolved, nil
	}
	return s.ResolveProjectRead(path)
}

// ResourceSnapshot reports the measurements CheckResources() evaluates.
type ResourceSnapshot struct {
	WorkspaceSizeBytes int64
	FreeRAMPercent float64
}

// CheckResources() fails advisorially before expensive operations when the
// workspace has grown past its cap or free RAM has dropped below the
// configured floor.
func (s *Sandbox) CheckResources() *agenterrors.ToolError {
	snap, err := s.measure()
	if err != nil {
 return agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeResourceLimit, "failed to measure() resource usage", err)
	}
	if s.cfg.MaxWorkspaceSizeBytes > 0 && snap.WorkspaceSizeBytes > s.cfg.MaxWorkspaceSizeBytes {
 return agenterrors.New(agenterrors.Runtime, agenterrors.CodeResourceLimit, "workspace size exceeds the configured maximum").
 WithContext("workspace_size_bytes", itoa(snap.WorkspaceSizeBytes))
	}
	if s.cfg.MinFreeRAMPercent > 0 && snap.FreeRAMPercent < s.cfg.MinFreeRAMPercent {
 return agenterrors.New(agenterrors.Runtime, agenterrors.CodeResourceLimit, "free RAM below the configured minimum").
 WithContext("free_ram_percent", ftoa(snap.FreeRAMPercent))
	}
	return nil
}

func (s *Sandbox) measure() (ResourceSnapshot, error) {
	var size int64
	err := filepath.Walk(s.cfg.WorkspaceRoot, func(path string, info os.FileInfo, err error) error {
 if err != nil {
 if os.IsNotExist(err) {
 return nil
 }
 return err
 }
 if !info.IsDir() {
 size += info.Size()
 }
 return nil
	})
	if err != nil {
 return ResourceSnapshot{}, err
	}
	return ResourceSnapshot{WorkspaceSizeBytes: size, FreeRAMPercent: freeRAMPercent()}, nil
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
