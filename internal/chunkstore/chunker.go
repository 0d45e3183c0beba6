package chunkstore

import (
	"context"
	"strings"
	"time"

	"github.com/Aman-CERP/agentcore/internal/agenttypes"
	"github.com/Aman-CERP/agentcore/internal/chunk"
)

// markdownExtensions identifies section-bearing markup files.
var markdownExtensions = map[string]bool{".md": true, ".markdown": true}

// ChunkFile splits one file's content into chunks
// deterministic, per-language chunking policy. It never returns an error:
// unsupported or unparseable content degrades to a single whole-file chunk.
func ChunkFile(ctx context.Context, path string, content []byte, language string) []ChunkMetadata {
	now := time.Now()
	ext := extOf(path)

	switch {
	case markdownExtensions[ext]:
 return chunkMarkdown(ctx, path, content, now)
	case language != "":
 if chunks := chunkCode(ctx, path, content, language, now); chunks != nil {
 return chunks
 }
 return []ChunkMetadata{wholeFileChunk(path, content, now)}
	default:
 return []ChunkMetadata{wholeFileChunk(path, content, now)}
	}
}

func extOf(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
 return ""
	}
	return strings.ToLower(path[idx:])
}

func wholeFileChunk(path string, content []byte, now time.Time) ChunkMetadata {
	text := string(content)
	return newChunk(path, text, 1, countLines(text), ChunkTypeFile, "", now)
}

func newChunk(path, content string, start, end int, ct ChunkType, name string, now time.Time) ChunkMetadata {
	return ChunkMetadata{
 ChunkID: agenttypes.ChunkID(content),
 SourcePath: path,
 StartLine: start,
 EndLine: end,
 ContentHash: agenttypes.ChunkID(content),
 ChunkType: ct,
 Name: name,
 CreatedAt: now,
 Content: content,
	}
}

func countLines(s string) int {
	if s == "" {
 return 1
	}
	n := strings.Count(s, "\n") + 1
	if strings.HasSuffix(s, "\n") {
 n--
	}
	if n < 1 {
 n = 1
	}
	return n
}

// chunkCode hands the file to the tree-sitter-aware code chunker: one chunk
// per top-level function, method, or class, each chunk's raw text prefixed
// with its file's package/import context. If no symbols are found it
// returns nil, signalling the caller to fall back to a whole-file chunk.
func chunkCode(ctx context.Context, path string, content []byte, language string, now time.Time) []ChunkMetadata {
	if _, ok := chunk.DefaultRegistry().GetByName(language); !ok {
 return nil
	}

	chunker := chunk.NewCodeChunker()
	defer chunker.Close()

	raw, err := chunker.Chunk(ctx, &chunk.FileInput{Path: path, Content: content, Language: language})
	if err != nil || len(raw) == 0 {
 return nil
	}

	out := make([]ChunkMetadata, 0, len(raw))
	for _, c := range raw {
 out = append(out, newChunk(path, c.Content, c.StartLine, c.EndLine, symbolChunkType(c), symbolName(c), now))
	}
	return out
}

// symbolChunkType classifies a chunk by its leading symbol's kind; a chunk
// split across multiple symbols (e.g. a class split by method) still
// carries at least its originating symbol at index 0.
func symbolChunkType(c *chunk.Chunk) ChunkType {
	if len(c.Symbols) == 0 {
 return ChunkTypeFunction
	}
	switch c.Symbols[0].Type {
	case chunk.SymbolTypeClass, chunk.SymbolTypeInterface, chunk.SymbolTypeType:
 return ChunkTypeClass
	default:
 return ChunkTypeFunction
	}
}

func symbolName(c *chunk.Chunk) string {
	if len(c.Symbols) == 0 {
 return ""
	}
	return c.Symbols[0].Name
}
