package chunkstore

import (
	"context"
	"time"

	"github.com/Aman-CERP/agentcore/internal/chunk"
)

// chunkMarkdown hands the file to the header-aware markdown chunker: one
// chunk per header-to-next-header span, with frontmatter, tables, and fenced
// code blocks kept intact. A file with no headers becomes one whole-file
// chunk.
func chunkMarkdown(ctx context.Context, path string, content []byte, now time.Time) []ChunkMetadata {
	chunker := chunk.NewMarkdownChunker()
	defer chunker.Close()

	raw, err := chunker.Chunk(ctx, &chunk.FileInput{Path: path, Content: content, Language: "markdown"})
	if err != nil || len(raw) == 0 {
 return []ChunkMetadata{wholeFileChunk(path, content, now)}
	}

	hasHeader := false
	for _, c := range raw {
		if c.Metadata["header_level"] != "0" {
			hasHeader = true
			break
		}
	}
	if !hasHeader {
		return []ChunkMetadata{wholeFileChunk(path, content, now)}
	}

	chunks := make([]ChunkMetadata, 0, len(raw))
	for _, c := range raw {
 chunks = append(chunks, newChunk(path, c.Content, c.StartLine, c.EndLine, ChunkTypeSection, sectionName(c), now))
	}
	return chunks
}

func sectionName(c *chunk.Chunk) string {
	if title, ok := c.Metadata["section_title"]; ok {
 return title
	}
	return c.Metadata["header_path"]
}
