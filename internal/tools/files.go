package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
	"github.com/Aman-CERP/agentcore/internal/agenttypes"
)

type listFilesTool struct{ e *Engine }

func newListFilesTool(e *Engine) Tool { return listFilesTool{e} }

func (listFilesTool) Name() string { return "list_files" }
func (listFilesTool) Description() string { return "List the contents of a directory under the workspace or the read-only project tree." }
func (listFilesTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "path": stringProp("directory path, relative to the workspace or project root"),
	}, "path")
}

func (t listFilesTool) Execute(_ context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	path := argString(call.Arguments, "path", "")
	resolved, toolErr := t.e.Sandbox.ResolveEitherRead(path)
	if toolErr != nil {
 return errResult(call.ID, toolErr)
	}
	entries, err := os.ReadDir(resolved)
	if err != nil {
 if os.IsNotExist(err) {
 return errResult(call.ID, agenterrors.New(agenterrors.Missing, agenterrors.CodeNotAFile, "no such directory: "+path))
 }
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeNotADirectory, "failed to list directory", err))
	}
	names := make([]string, 0, len(entries))
	for _, ent := range entries {
 name := ent.Name()
 if ent.IsDir() {
 name += "/"
 }
 names = append(names, name)
	}
	sort.Strings(names)
	return okResult(call.ID, strings.Join(names, "\n"))
}

type readFileTool struct{ e *Engine }

func newReadFileTool(e *Engine) Tool { return readFileTool{e} }

func (readFileTool) Name() string { return "read_file" }
func (readFileTool) Description() string { return "Read a file's contents, up to a fixed size cap, from the workspace or the read-only project tree." }
func (readFileTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "path": stringProp("file path, relative to the workspace or project root"),
	}, "path")
}

func (t readFileTool) Execute(_ context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	path := argString(call.Arguments, "path", "")
	resolved, toolErr := t.e.Sandbox.ResolveEitherRead(path)
	if toolErr != nil {
 return errResult(call.ID, toolErr)
	}
	info, err := os.Stat(resolved)
	if err != nil {
 return errResult(call.ID, agenterrors.New(agenterrors.Missing, agenterrors.CodeNotAFile, "no such file: "+path))
	}
	if info.IsDir() {
 return errResult(call.ID, agenterrors.New(agenterrors.Workspace, agenterrors.CodeNotAFile, "path is a directory, not a file"))
	}
	maxBytes := t.e.ReadFileMaxBytes
	if maxBytes <= 0 {
 maxBytes = DefaultEngineConfig().ReadFileMaxBytes
	}
	if info.Size() > maxBytes {
 return errResult(call.ID, agenterrors.New(agenterrors.Workspace, agenterrors.CodeFileTooLarge, fmt.Sprintf("file is %d bytes, exceeding the %d byte cap", info.Size(), maxBytes)))
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeNotAFile, "failed to read file", err))
	}
	if !utf8.Valid(data) {
 return errResult(call.ID, agenterrors.New(agenterrors.Runtime, agenterrors.CodeInvalidEncoding, "file is not valid UTF-8"))
	}
	return okResult(call.ID, string(data))
}

type writeFileTool struct{ e *Engine }

func newWriteFileTool(e *Engine) Tool { return writeFileTool{e} }

func (writeFileTool) Name() string { return "write_file" }
func (writeFileTool) Description() string { return "Create or overwrite a file under the workspace. Never writes outside the workspace root." }
func (writeFileTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "path": stringProp("file path, relative to the workspace root"),
 "content": stringProp("full file content to write"),
	}, "path", "content")
}

func (t writeFileTool) Execute(_ context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	path := argString(call.Arguments, "path", "")
	content := argString(call.Arguments, "content", "")

	if toolErr := t.e.Sandbox.CheckResources(); toolErr != nil {
 return errResult(call.ID, toolErr)
	}

	resolved, toolErr := t.e.Sandbox.Resolve(path)
	if toolErr != nil {
 return errResult(call.ID, toolErr)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeNotADirectory, "failed to create parent directories", err))
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeNotAFile, "failed to write file", err))
	}
	return okResult(call.ID, fmt.Sprintf("wrote %d bytes to %s", len(content), path))
}
