package tools

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
	"github.com/Aman-CERP/agentcore/internal/agenttypes"
)

// dataViewTool implements head/tail/shape/columns over CSV and
// newline-delimited JSON files. The pack carries no columnar (Parquet/Arrow)
// library, so this reads with stdlib encoding/csv and encoding/json/bufio
// (documented as a stdlib exception in DESIGN.md); shape/columns still
// honor "use format metadata, never load() the full payload"
// requirement by streaming rather than buffering the file.
type dataViewTool struct{ e *Engine }

func newDataViewTool(e *Engine) Tool { return dataViewTool{e} }

func (dataViewTool) Name() string { return "data_view" }
func (dataViewTool) Description() string { return "Inspect a CSV or newline-delimited JSON file: head, tail, shape, or column names, without loading the whole file." }
func (dataViewTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "path": stringProp("file path, relative to the workspace or project root"),
 "op": map[string]any{"type": "string", "enum": []any{"head", "tail", "shape", "columns"}, "description": "the view operation"},
 "n": intProp("row count for head/tail (default 10)"),
	}, "path", "op")
}

func (t dataViewTool) Execute(_ context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	path := argString(call.Arguments, "path", "")
	op := argString(call.Arguments, "op", "")
	n := argInt(call.Arguments, "n", 10)

	resolved, toolErr := t.e.Sandbox.ResolveEitherRead(path)
	if toolErr != nil {
 return errResult(call.ID, toolErr)
	}

	format := formatOf(resolved)
	if format == "" {
 return errResult(call.ID, agenterrors.New(agenterrors.Runtime, agenterrors.CodeUnsupportedFormat, "unsupported data format: "+filepath.Ext(resolved)))
	}

	f, err := os.Open(resolved)
	if err != nil {
 return errResult(call.ID, agenterrors.New(agenterrors.Missing, agenterrors.CodeNotAFile, "no such file: "+path))
	}
	defer f.Close()

	switch op {
	case "head":
 return dataViewLines(call.ID, f, n, false)
	case "tail":
 return dataViewLines(call.ID, f, n, true)
	case "shape":
 return dataViewShape(call.ID, f, format)
	case "columns":
 return dataViewColumns(call.ID, f, format)
	default:
 return errResult(call.ID, agenterrors.New(agenterrors.Rules, agenterrors.CodeSchemaViolation, "op must be one of head, tail, shape, columns"))
	}
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
 return "csv"
	case ".jsonl", ".ndjson":
 return "jsonl"
	default:
 return ""
	}
}

func dataViewLines(callID string, f *os.File, n int, tail bool) agenttypes.ToolResult {
	if n <= 0 {
 n = 10
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !tail {
 var lines []string
 for scanner.Scan() && len(lines) < n {
 lines = append(lines, scanner.Text())
 }
 return okResult(callID, strings.Join(lines, "\n"))
	}

	ring := make([]string, 0, n)
	for scanner.Scan() {
 ring = append(ring, scanner.Text())
 if len(ring) > n {
 ring = ring[1:]
 }
	}
	return okResult(callID, strings.Join(ring, "\n"))
}

func dataViewShape(callID string, f *os.File, format string) agenttypes.ToolResult {
	switch format {
	case "csv":
 r := csv.NewReader(bufio.NewReader(f))
 header, err := r.Read()
 if err != nil {
 return errResult(callID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeUnsupportedFormat, "failed to read CSV header", err))
 }
 rows := 0
 for {
 if _, err := r.Read(); err != nil {
 break
 }
 rows++
 }
 return okResult(callID, fmt.Sprintf("rows=%d columns=%d", rows, len(header)))
	case "jsonl":
 scanner := bufio.NewScanner(f)
 scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
 rows := 0
 for scanner.Scan() {
 if strings.TrimSpace(scanner.Text()) != "" {
 rows++
 }
 }
 return okResult(callID, fmt.Sprintf("rows=%d", rows))
	default:
 return errResult(callID, agenterrors.New(agenterrors.Runtime, agenterrors.CodeUnsupportedFormat, "shape is not supported for this format"))
	}
}

func dataViewColumns(callID string, f *os.File, format string) agenttypes.ToolResult {
	switch format {
	case "csv":
 r := csv.NewReader(bufio.NewReader(f))
 header, err := r.Read()
 if err != nil {
 return errResult(callID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeUnsupportedFormat, "failed to read CSV header", err))
 }
 return okResult(callID, strings.Join(header, ", "))
	case "jsonl":
 scanner := bufio.NewScanner(f)
 scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
 if !scanner.Scan() {
 return okResult(callID, "")
 }
 var row map[string]any
 if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
 return errResult(callID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeUnsupportedFormat, "failed to parse first JSON line", err))
 }
 names := make([]string, 0, len(row))
 for k := range row {
 names = append(names, k)
 }
 return okResult(callID, strings.Join(names, ", "))
	default:
 return errResult(callID, agenterrors.New(agenterrors.Runtime, agenterrors.CodeUnsupportedFormat, "columns is not supported for this format"))
	}
}
