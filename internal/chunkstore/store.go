package chunkstore

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
	"github.com/gofrs/flock"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Store owns a Manifest and the on-disk path it persists to, serializing
// concurrent access with a single-writer RWMutex.
type Store struct {
	mu sync.RWMutex
	manifest *Manifest
	path string
	contentCache *lru.Cache[string, string]
	fileLock *flock.Flock

	// OnStale is invoked (outside the lock) for every chunk ID that becomes
	// unreferenced by any file during an ingest — the retrieval façade uses
	// this to evict the corresponding vector.
	OnStale func(chunkID string)
}

// Open loads (or creates) the manifest at path.
func Open(path string) (*Store, error) {
	m, err := LoadManifest(path)
	if err != nil {
 return nil, err
	}
	cache, _ := lru.New[string, string](2048)
	return &Store{
 manifest: m,
 path: path,
 contentCache: cache,
 fileLock: flock.New(path + ".lock"),
	}, nil
}

// Save persists the current manifest atomically, guarded by a cross-process
// file lock so two agentcore invocations sharing a workspace never
// interleave writes to the manifest.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.fileLock.Lock(); err != nil {
 return agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeCorruptedIndex, "failed to acquire manifest lock", err)
	}
	defer s.fileLock.Unlock()

	return s.manifest.Save(s.path)
}

// Ingest chunks one file's content and merges it into the manifest per the
// ingestion algorithm. skip reports whether the file was unchanged
// (same mtime and prior chunks present) and nothing was done.
func (s *Store) Ingest(ctx context.Context, path string, content []byte, language string, mtime float64) (skipped bool, err error) {
	var evicted []string
	defer func() {
		// Runs after the deferred unlock below, so OnStale is called with
		// no store lock held.
		if s.OnStale != nil {
			for _, id := range evicted {
				s.OnStale(id)
			}
		}
	}()
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.manifest.FileMtimes[path]; ok && existing == mtime {
 if _, hasChunks := s.manifest.SourceToChunks[path]; hasChunks {
 return true, nil
 }
	}

	newChunks := ChunkFile(ctx, path, content, language)

	newSet := make(map[string]bool, len(newChunks))
	for _, c := range newChunks {
 newSet[c.ChunkID] = true
 s.manifest.Chunks[c.ChunkID] = c
 if s.contentCache != nil {
 s.contentCache.Add(c.ChunkID, c.Content)
 }
	}

	oldSet := s.manifest.SourceToChunks[path]
	var stale []string
	for id := range oldSet {
 if !newSet[id] {
 stale = append(stale, id)
 }
	}

	s.manifest.SourceToChunks[path] = newSet
	s.manifest.FileMtimes[path] = mtime

	for _, id := range stale {
 if !s.referencedElsewhere(id, path) {
 delete(s.manifest.Chunks, id)
 evicted = append(evicted, id)
 }
	}

	s.manifest.IndexDirty = true
	return false, nil
}

func (s *Store) referencedElsewhere(chunkID, excludePath string) bool {
	for src, set := range s.manifest.SourceToChunks {
 if src == excludePath {
 continue
 }
 if set[chunkID] {
 return true
 }
	}
	return false
}

// EnsureIndex() rebuilds the inverted index if dirty. Callers must hold no
// lock; EnsureIndex() takes its own write lock when a rebuild is needed.
func (s *Store) EnsureIndex() {
	s.mu.RLock()
	dirty := s.manifest.IndexDirty
	s.mu.RUnlock()
	if !dirty {
 return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manifest.IndexDirty {
 s.manifest.RebuildIndex()
	}
}

// Get returns a chunk's metadata by ID.
func (s *Store) Get(chunkID string) (ChunkMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.manifest.Chunks[chunkID]
	return c, ok
}

// Count() returns the number of live chunks.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.manifest.Chunks)
}

// AllChunks() returns a snapshot of every live chunk, sorted by chunk ID for
// determinism.
func (s *Store) AllChunks() []ChunkMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChunkMetadata, 0, len(s.manifest.Chunks))
	for _, c := range s.manifest.Chunks {
 out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkID < out[j].ChunkID })
	return out
}

// Search performs the keyword search of: tokenize, AND-intersect
// postings, score by occurrence count, apply filters, truncate to k.
func (s *Store) Search(query string, k int, filters SearchFilters) []SearchResult {
	s.EnsureIndex()

	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens := Tokenize(query)
	if len(tokens) == 0 || k <= 0 {
 return nil
	}

	var candidateIDs []string
	for i, tok := range tokens {
 postings := s.manifest.InvertedIndex[tok]
 if len(postings) == 0 {
 return nil
 }
 if i == 0 {
 candidateIDs = append(candidateIDs, postings...)
 continue
 }
 candidateIDs = intersectSorted(candidateIDs, postings)
 if len(candidateIDs) == 0 {
 return nil
 }
	}

	type scored struct {
 id string
 score float64
	}
	results := make([]scored, 0, len(candidateIDs))
	for _, id := range candidateIDs {
 c, ok := s.manifest.Chunks[id]
 if !ok || !matchesFilters(c, filters) {
 continue
 }
 score := 0.0
 lowerContent := strings.ToLower(c.Content)
 for _, tok := range tokens {
 score += float64(strings.Count(lowerContent, tok))
 }
 results = append(results, scored{id: id, score: score})
	}

	sort.Slice(results, func(i, j int) bool {
 if results[i].score != results[j].score {
 return results[i].score > results[j].score
 }
 return results[i].id < results[j].id
	})

	if len(results) > k {
 results = results[:k]
	}

	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
 c := s.manifest.Chunks[r.id]
 out = append(out, SearchResult{Chunk: c, Score: r.score, Snippet: snippet(c.Content, query)})
	}
	return out
}

func intersectSorted(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
 switch {
 case a[i] == b[j]:
 out = append(out, a[i])
 i++
 j++
 case a[i] < b[j]:
 i++
 default:
 j++
 }
	}
	return out
}

func matchesFilters(c ChunkMetadata, f SearchFilters) bool {
	if f.PathPrefix != "" && !strings.HasPrefix(c.SourcePath, f.PathPrefix) {
 return false
	}
	if f.FileType != "" && !strings.HasSuffix(c.SourcePath, f.FileType) {
 return false
	}
	if f.ChunkType != "" && c.ChunkType != f.ChunkType {
 return false
	}
	if len(f.Tags) > 0 {
 have := make(map[string]bool, len(c.Tags))
 for _, t := range c.Tags {
 have[t] = true
 }
 for _, want := range f.Tags {
 if !have[want] {
 return false
 }
 }
	}
	return true
}

func snippet(content, query string) string {
	const window = 160
	lower := strings.ToLower(content)
	idx := -1
	for _, tok := range Tokenize(query) {
 if i := strings.Index(lower, tok); i >= 0 {
 idx = i
 break
 }
	}
	if idx < 0 {
 if len(content) <= window {
 return content
 }
 return content[:window]
	}
	start := idx - window/2
	if start < 0 {
 start = 0
	}
	end := start + window
	if end > len(content) {
 end = len(content)
	}
	return content[start:end]
}

// FileMTime returns a stat-derived float mtime suitable for Ingest.
func FileMTime(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
 return 0, agenterrors.Wrap(agenterrors.Missing, agenterrors.CodeNotAFile, "file not found", err)
	}
	return float64(info.ModTime().UnixNano()) / 1e9, nil
}

// DefaultIgnored reports whether a relative path should be excluded from
// ingestion: workspace artifacts, VCS metadata, build output,
// the patches directory, and sensitive patterns.
func DefaultIgnored(relPath string) bool {
	parts := strings.Split(relPath, string(filepath.Separator))
	ignoredDirs := map[string]bool{
 ".git": true, "node_modules": true, "vendor": true, "dist": true,
 "build": true, "patches": true, ".agentcore": true,
	}
	for _, p := range parts {
 if ignoredDirs[p] {
 return true
 }
	}
	base := filepath.Base(relPath)
	sensitive := []string{".env", ".pem", ".key"}
	for _, suf := range sensitive {
 if strings.HasSuffix(base, suf) {
 return true
 }
	}
	if strings.Contains(strings.ToLower(base), "secret") || strings.Contains(strings.ToLower(base), "credentials") {
 return true
	}
	return false
}
