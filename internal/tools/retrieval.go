package tools

import (
	"context"
	"encoding/json"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
	"github.com/Aman-CERP/agentcore/internal/agenttypes"
	"github.com/Aman-CERP/agentcore/internal/chunkstore"
	"github.com/Aman-CERP/agentcore/internal/vectorstore"
)

type searchChunksTool struct{ e *Engine }

func newSearchChunksTool(e *Engine) Tool { return searchChunksTool{e} }

func (searchChunksTool) Name() string { return "search_chunks" }
func (searchChunksTool) Description() string { return "Hybrid keyword+semantic search over indexed code and documentation chunks." }
func (searchChunksTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "query": stringProp("the search query"),
 "k": intProp("maximum number of results (default 10)"),
 "filters": objectSchema(map[string]any{
 "path_prefix": stringProp("restrict results to this source-path prefix"),
 "file_type": stringProp("restrict results to this file suffix, e.g..go"),
 "chunk_type": map[string]any{"type": "string", "enum": []any{"function", "class", "section", "file"}},
 "tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
 }),
	}, "query")
}

func (t searchChunksTool) Execute(ctx context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	if t.e.Index == nil {
 return errResult(call.ID, agenterrors.New(agenterrors.Missing, agenterrors.CodeToolNotFound, "retrieval index is not configured"))
	}

	query := argString(call.Arguments, "query", "")
	k := argInt(call.Arguments, "k", 10)
	if k <= 0 {
 k = 10
	}

	var filters chunkstore.SearchFilters
	if raw, ok := call.Arguments["filters"]; ok {
 if m, ok := raw.(map[string]any); ok {
 filters.PathPrefix = argString(m, "path_prefix", "")
 filters.FileType = argString(m, "file_type", "")
 filters.ChunkType = chunkstore.ChunkType(argString(m, "chunk_type", ""))
 filters.Tags = argStringSlice(m, "tags")
 }
	}

	results, err := t.e.Index.Search(ctx, query, k, filters, vectorstore.DefaultWeights())
	if err != nil {
 if te, ok := err.(*agenterrors.ToolError); ok {
 return errResult(call.ID, te)
 }
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeEmbedFailed, "search failed", err))
	}

	type hit struct {
 ChunkID string `json:"chunk_id"`
 SourcePath string `json:"source_path"`
 Name string `json:"name,omitempty"`
 StartLine int `json:"start_line"`
 EndLine int `json:"end_line"`
 Score float64 `json:"score"`
 InBothLists bool `json:"in_both_lists"`
 Snippet string `json:"snippet"`
	}
	out := make([]hit, 0, len(results))
	for _, r := range results {
 out = append(out, hit{
 ChunkID: r.Chunk.ChunkID,
 SourcePath: r.Chunk.SourcePath,
 Name: r.Chunk.Name,
 StartLine: r.Chunk.StartLine,
 EndLine: r.Chunk.EndLine,
 Score: r.RRFScore,
 InBothLists: r.InBothLists,
 Snippet: r.Snippet,
 })
	}
	encoded, err := json.Marshal(out)
	if err != nil {
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeSchemaViolation, "failed to encode search results", err))
	}
	return okResult(call.ID, string(encoded))
}
