// Package patch implements the patch bundle lifecycle of: create,
// validate, list, retrieve, and status-transition reviewable change bundles
// under workspace/patches/<patch_id>/. Patches are never auto-applied — an
// external operator applies the diff. Persistence follows the
// temp-then-rename pattern of internal/chunkstore's manifest Save, generalized here to a four-file bundle plus a JSON sidecar
// for the mutable status field.
package patch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
	"github.com/Aman-CERP/agentcore/internal/agenttypes"
)

// Status is the closed set of patch lifecycle states.
type Status string

const (
	StatusProposed Status = "proposed"
	StatusApplied Status = "applied"
	StatusTested Status = "tested"
	StatusFailed Status = "failed"
	StatusRejected Status = "rejected"
)

// terminal() reports whether a status is rejected. Tested and failed also have
// no outgoing transitions, but those are refused by validTransitions instead.
func (s Status) terminal() bool {
	return s == StatusRejected
}

// Request carries the fields a caller proposes for a new patch.
type Request struct {
	Title string
	Description string
	TargetFiles []string
	Plan string
	Diff string
	Tests string
}

// Patch is the full in-memory view of one bundle.
type Patch struct {
	ID string `json:"patch_id"`
	Title string `json:"title"`
	Description string `json:"description"`
	TargetFiles []string `json:"target_files"`
	Status Status `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Full additionally carries the three markdown/diff bodies, returned by
// GetPatch.
type Full struct {
	Patch
	PlanMD string
	DiffText string
	TestsMD string
}

// Manager owns the workspace/patches directory.
type Manager struct {
	root string // workspace/patches
}

// NewManager returns a Manager rooted at dir (typically
// "<workspace_root>/patches").
func NewManager(dir string) *Manager {
	return &Manager{root: dir}
}

// Create validates req and, on success, writes the four-file bundle and
// returns the new patch ID plus an applier command string.
func (m *Manager) Create(req Request) (id string, applyCommand string, err error) {
	if req.Title == "" || req.Description == "" || req.Plan == "" || req.Diff == "" || req.Tests == "" {
 return "", "", agenterrors.New(agenterrors.Rules, agenterrors.CodePatchMissingFields, "title, description, plan, diff, and tests are all required")
	}
	if len(req.TargetFiles) == 0 {
 return "", "", agenterrors.New(agenterrors.Rules, agenterrors.CodePatchNoTargets, "target_files must be non-empty")
	}
	if !looksLikeUnifiedDiff(req.Diff) {
 return "", "", agenterrors.New(agenterrors.Rules, agenterrors.CodePatchInvalid, "diff does not parse as a unified diff")
	}

	now := time.Now()
	id = agenttypes.PatchID(now, req.Title)
	dir := filepath.Join(m.root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
 return "", "", agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodePatchInvalid, "failed to create patch directory", err)
	}

	p := Patch{
 ID: id,
 Title: req.Title,
 Description: req.Description,
 TargetFiles: req.TargetFiles,
 Status: StatusProposed,
 CreatedAt: now,
 UpdatedAt: now,
	}

	if err := writeFile(filepath.Join(dir, "plan.md"), req.Plan); err != nil {
 return "", "", err
	}
	if err := writeFile(filepath.Join(dir, "patch.diff"), req.Diff); err != nil {
 return "", "", err
	}
	if err := writeFile(filepath.Join(dir, "tests.md"), req.Tests); err != nil {
 return "", "", err
	}
	if err := writeMetadata(dir, p); err != nil {
 return "", "", err
	}

	applyCommand = "agentcore patches apply " + id
	return id, applyCommand, nil
}

// Validate reports whether all four files exist and the diff still parses,
//
func (m *Manager) Validate(id string) (bool, error) {
	dir := filepath.Join(m.root, id)
	for _, name := range []string{"plan.md", "patch.diff", "tests.md", "metadata.json"} {
 if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
 return false, agenterrors.New(agenterrors.Missing, agenterrors.CodePatchNotFound, "patch bundle is missing "+name)
 }
	}
	diff, err := os.ReadFile(filepath.Join(dir, "patch.diff"))
	if err != nil {
 return false, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodePatchInvalid, "failed to read diff", err)
	}
	if !looksLikeUnifiedDiff(string(diff)) {
 return false, agenterrors.New(agenterrors.Rules, agenterrors.CodePatchInvalid, "diff does not parse as a unified diff")
	}
	return true, nil
}

// List returns metadata for every patch, optionally filtered by status,
// ordered by created_at descending.
func (m *Manager) List(status Status) ([]Patch, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
 if os.IsNotExist(err) {
 return nil, nil
 }
 return nil, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodePatchInvalid, "failed to list patches directory", err)
	}

	var out []Patch
	for _, e := range entries {
 if !e.IsDir() {
 continue
 }
 p, err := readMetadata(filepath.Join(m.root, e.Name()))
 if err != nil {
 continue
 }
 if status != "" && p.Status != status {
 continue
 }
 out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Get returns the full content of one patch bundle.
func (m *Manager) Get(id string) (Full, error) {
	dir := filepath.Join(m.root, id)
	p, err := readMetadata(dir)
	if err != nil {
 return Full{}, agenterrors.New(agenterrors.Missing, agenterrors.CodePatchNotFound, "patch "+id+" not found")
	}

	plan, err := os.ReadFile(filepath.Join(dir, "plan.md"))
	if err != nil {
 return Full{}, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodePatchInvalid, "failed to read plan.md", err)
	}
	diff, err := os.ReadFile(filepath.Join(dir, "patch.diff"))
	if err != nil {
 return Full{}, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodePatchInvalid, "failed to read patch.diff", err)
	}
	tests, err := os.ReadFile(filepath.Join(dir, "tests.md"))
	if err != nil {
 return Full{}, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodePatchInvalid, "failed to read tests.md", err)
	}

	return Full{Patch: p, PlanMD: string(plan), DiffText: string(diff), TestsMD: string(tests)}, nil
}

// validTransitions is the closed status graph: proposed moves to any of
// applied/failed/tested/rejected; applied may additionally move to tested or
// failed (a later test run judging the already-applied change); every other
// state is sticky, most notably rejected.
var validTransitions = map[Status]map[Status]bool{
	StatusProposed: {StatusApplied: true, StatusFailed: true, StatusTested: true, StatusRejected: true},
	StatusApplied: {StatusTested: true, StatusFailed: true},
}

// UpdateStatus performs an atomic, metadata-only status transition.
func (m *Manager) UpdateStatus(id string, next Status) error {
	dir := filepath.Join(m.root, id)
	p, err := readMetadata(dir)
	if err != nil {
 return agenterrors.New(agenterrors.Missing, agenterrors.CodePatchNotFound, "patch "+id+" not found")
	}
	if p.Status.terminal() {
 return agenterrors.New(agenterrors.Rules, agenterrors.CodePatchInvalid, "patch "+id+" is in a terminal() status and cannot transition")
	}
	if !validTransitions[p.Status][next] {
 return agenterrors.New(agenterrors.Rules, agenterrors.CodePatchInvalid, "invalid transition from "+string(p.Status)+" to "+string(next))
	}
	p.Status = next
	p.UpdatedAt = time.Now()
	return writeMetadata(dir, p)
}

func writeFile(path, content string) error {
	if err := atomicWrite(path, []byte(content)); err != nil {
 return agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodePatchInvalid, "failed to write "+filepath.Base(path), err)
	}
	return nil
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
 return err
	}
	if _, err := f.Write(data); err != nil {
 f.Close()
 return err
	}
	if err := f.Sync(); err != nil {
 f.Close()
 return err
	}
	if err := f.Close(); err != nil {
 return err
	}
	return os.Rename(tmp, path)
}

// looksLikeUnifiedDiff performs a structural, stdlib-only check: at least
// one hunk header and matching "---"/"+++" file markers. It only verifies
// that the diff parses as a unified diff, not that it applies cleanly —
// applying patches is out of scope here.
func looksLikeUnifiedDiff(diff string) bool {
	if strings.TrimSpace(diff) == "" {
 return false
	}
	hasOldMarker := strings.Contains(diff, "\n--- ") || strings.HasPrefix(diff, "--- ")
	hasNewMarker := strings.Contains(diff, "\n+++ ") || strings.HasPrefix(diff, "+++ ")
	hasHunk := strings.Contains(diff, "\n@@ ") || strings.HasPrefix(diff, "@@ ")
	return hasOldMarker && hasNewMarker && hasHunk
}
