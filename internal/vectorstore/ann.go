package vectorstore

import (
	"fmt"
	"sync"

	"github.com/coder/hnsw"
)

// AccelIndex is an optional approximate-nearest-neighbor index layered over
// the flat Store for large workspaces, where exhaustive cosine scans over
// every chunk vector become the query-latency bottleneck. It is never the
// source of truth: Store.Save()/Load persist the flat matrix, and AccelIndex
// is rebuilt from it lazily. Grounded on the
// internal/store/hnsw.go, adapted from a cache-backed VectorStore
// implementation into a query accelerator sitting in front of Store.
type AccelIndex struct {
	mu sync.RWMutex
	graph *hnsw.Graph[uint64]
	idMap map[string]uint64
	keyMap map[uint64]string
	nextKey uint64
}

// NewAccelIndex() constructs an empty accelerator using cosine distance, with
// its own M/EfSearch/Ml defaults.
func NewAccelIndex() *AccelIndex {
	g := hnsw.NewGraph[uint64]()
	g.Distance = hnsw.CosineDistance
	g.M = 16
	g.EfSearch = 20
	g.Ml = 0.25
	return &AccelIndex{
 graph: g,
 idMap: make(map[string]uint64),
 keyMap: make(map[uint64]string),
	}
}

// RebuildFrom repopulates the accelerator from every vector currently held
// by the flat store. Lazy deletion means the graph only ever grows; a full
// rebuild is the only way to reclaim it, so this is cheap enough to call
// whenever the flat store's row count changes materially.
func (a *AccelIndex) RebuildFrom(s *Store) {
	s.mu.RLock()
	ids := make([]string, len(s.ids))
	copy(ids, s.ids)
	vectors := make([][]float32, len(s.matrix))
	for i, row := range s.matrix {
 vectors[i] = append([]float32(nil), row...)
	}
	s.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.graph = hnsw.NewGraph[uint64]()
	a.graph.Distance = hnsw.CosineDistance
	a.graph.M = 16
	a.graph.EfSearch = 20
	a.graph.Ml = 0.25
	a.idMap = make(map[string]uint64, len(ids))
	a.keyMap = make(map[uint64]string, len(ids))
	a.nextKey = 0

	for i, id := range ids {
 key := a.nextKey
 a.nextKey++
 a.graph.Add(hnsw.MakeNode(key, vectors[i]))
 a.idMap[id] = key
 a.keyMap[key] = id
	}
}

// Search returns approximate top-k neighbor IDs with scores of
// 1 - distance/2, i.e. cosine similarity mapped into [0, 1]; these are not
// the raw cosine values Store.TopK returns. Callers that need exact results should use
// Store.TopK instead; Search is an opt-in accelerator for large indexes.
func (a *AccelIndex) Search(query []float32, k int) ([]Result, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.graph == nil || a.graph.Len() == 0 {
 return nil, nil
	}
	if k <= 0 {
 return nil, nil
	}

	nodes := a.graph.Search(query, k)
	out := make([]Result, 0, len(nodes))
	for _, n := range nodes {
 id, ok := a.keyMap[n.Key]
 if !ok {
 continue
 }
 dist := a.graph.Distance(query, n.Value)
 out = append(out, Result{ID: id, Score: 1.0 - float64(dist)/2.0})
	}
	return out, nil
}

// Len reports how many vectors the accelerator currently indexes (including
// lazily-deleted orphans, which only a RebuildFrom reclaims).
func (a *AccelIndex) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.graph == nil {
 return 0
	}
	return a.graph.Len()
}

func (a *AccelIndex) String() string {
	return fmt.Sprintf("AccelIndex(valid=%d, graph=%d)", len(a.idMap), a.Len())
}
