// Package chunkstore implements the content-addressed chunk manifest and
// the inverted keyword index on top of internal/chunk's tree-sitter-aware
// code and markdown chunkers, plus the whole-file fallback for anything
// neither chunker recognizes.
package chunkstore

import "time"

// ChunkType is the closed set of chunk kinds.
type ChunkType string

const (
	ChunkTypeFunction ChunkType = "function"
	ChunkTypeClass ChunkType = "class"
	ChunkTypeSection ChunkType = "section"
	ChunkTypeFile ChunkType = "file"
)

// ChunkMetadata is the durable record of one chunk.
type ChunkMetadata struct {
	ChunkID string `json:"chunk_id"`
	SourcePath string `json:"source_path"`
	StartLine int `json:"start_line"`
	EndLine int `json:"end_line"`
	ContentHash string `json:"content_hash"`
	ChunkType ChunkType `json:"chunk_type"`
	Name string `json:"name,omitempty"`
	Tags []string `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Content string `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SearchFilters narrows a keyword or hybrid search.
type SearchFilters struct {
	PathPrefix string
	FileType string // suffix match, e.g. ".go"
	ChunkType ChunkType
	Tags []string // required set; candidate tags must be a superset
}

// SearchResult is one scored hit from a keyword or hybrid query.
type SearchResult struct {
	Chunk ChunkMetadata
	Score float64
	Snippet string
}
