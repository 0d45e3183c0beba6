package chunkstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
)

// Manifest is the persisted record of every known chunk, its file mtimes,
// per-file chunk membership, and the derived inverted index.
type Manifest struct {
	Chunks map[string]ChunkMetadata `json:"chunks"`
	FileMtimes map[string]float64 `json:"file_mtimes"`
	SourceToChunks map[string]map[string]bool `json:"source_to_chunks"`
	InvertedIndex map[string][]string `json:"inverted_index"`
	IndexDirty bool `json:"index_dirty"`
	EmbeddingFormat string `json:"embedding_format"`
}

// NewManifest() returns an empty, consistent() manifest.
func NewManifest() *Manifest {
	return &Manifest{
 Chunks: make(map[string]ChunkMetadata),
 FileMtimes: make(map[string]float64),
 SourceToChunks: make(map[string]map[string]bool),
 InvertedIndex: make(map[string][]string),
 IndexDirty: true,
 EmbeddingFormat: "contextual_v1",
	}
}

// RebuildIndex() recomputes InvertedIndex from the current Chunks, producing
// sorted, de-duplicated chunk-ID lists per token, and clears IndexDirty.
func (m *Manifest) RebuildIndex() {
	idx := make(map[string]map[string]bool)
	for id, c := range m.Chunks {
 seen := make(map[string]bool)
 for _, tok := range Tokenize(c.Content) {
 if seen[tok] {
 continue
 }
 seen[tok] = true
 if idx[tok] == nil {
 idx[tok] = make(map[string]bool)
 }
 idx[tok][id] = true
 }
	}
	rebuilt := make(map[string][]string, len(idx))
	for tok, ids := range idx {
 list := make([]string, 0, len(ids))
 for id := range ids {
 list = append(list, id)
 }
 sort.Strings(list)
 rebuilt[tok] = list
	}
	m.InvertedIndex = rebuilt
	m.IndexDirty = false
}

// consistent() reports whether every inverted-index entry and source_to_chunks
// entry references only existing chunk IDs.
func (m *Manifest) consistent() bool {
	for _, ids := range m.InvertedIndex {
 for _, id := range ids {
 if _, ok := m.Chunks[id]; !ok {
 return false
 }
 }
	}
	for _, ids := range m.SourceToChunks {
 for id := range ids {
 if _, ok := m.Chunks[id]; !ok {
 return false
 }
 }
	}
	return true
}

// manifestFile is the on-disk JSON shape; SourceToChunks is serialized as
// sorted slices for determinism and readability.
type manifestFile struct {
	Chunks map[string]ChunkMetadata `json:"chunks"`
	FileMtimes map[string]float64 `json:"file_mtimes"`
	SourceToChunks map[string][]string `json:"source_to_chunks"`
	InvertedIndex map[string][]string `json:"inverted_index"`
	IndexDirty bool `json:"index_dirty"`
	EmbeddingFormat string `json:"embedding_format"`
}

// Save atomically persists the manifest via write-tmp/fsync/rename.
func (m *Manifest) Save(path string) error {
	disk := manifestFile{
 Chunks: m.Chunks,
 FileMtimes: m.FileMtimes,
 SourceToChunks: make(map[string][]string, len(m.SourceToChunks)),
 InvertedIndex: m.InvertedIndex,
 IndexDirty: m.IndexDirty,
 EmbeddingFormat: m.EmbeddingFormat,
	}
	for src, set := range m.SourceToChunks {
 list := make([]string, 0, len(set))
 for id := range set {
 list = append(list, id)
 }
 sort.Strings(list)
 disk.SourceToChunks[src] = list
	}

	data, err := json.MarshalIndent(disk, "", " ")
	if err != nil {
 return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
 return err
	}
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

// LoadManifest loads a manifest from path. A structurally inconsistent
// manifest is returned with IndexDirty forced true rather than rejected, so
// the caller can rebuild the inverted index on next search.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
 if os.IsNotExist(err) {
 return NewManifest(), nil
 }
 return nil, err
	}

	var disk manifestFile
	if err := json.Unmarshal(data, &disk); err != nil {
 return NewManifest(), nil
	}

	m := &Manifest{
 Chunks: disk.Chunks,
 FileMtimes: disk.FileMtimes,
 SourceToChunks: make(map[string]map[string]bool, len(disk.SourceToChunks)),
 InvertedIndex: disk.InvertedIndex,
 IndexDirty: disk.IndexDirty,
 EmbeddingFormat: disk.EmbeddingFormat,
	}
	if m.Chunks == nil {
 m.Chunks = make(map[string]ChunkMetadata)
	}
	if m.FileMtimes == nil {
 m.FileMtimes = make(map[string]float64)
	}
	if m.InvertedIndex == nil {
 m.InvertedIndex = make(map[string][]string)
	}
	for src, list := range disk.SourceToChunks {
 set := make(map[string]bool, len(list))
 for _, id := range list {
 set[id] = true
 }
 m.SourceToChunks[src] = set
	}
	if m.EmbeddingFormat == "" {
 m.EmbeddingFormat = "contextual_v1"
	}

	if !m.consistent() {
 m.IndexDirty = true
	}
	return m, nil
}
