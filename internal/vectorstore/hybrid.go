package vectorstore

import (
	"context"
	"sort"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
	"github.com/Aman-CERP/agentcore/internal/chunkstore"
	"github.com/Aman-CERP/agentcore/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// DefaultRRFConstant is the smoothing constant k in RRF_score = Σ 1/(k+rank),
// empirically validated across domains. Grounded on the
// teacher's internal/search.DefaultRRFConstant.
const DefaultRRFConstant = 60

// Weights controls each retrieval source's contribution to the fused score,
// mirroring the internal/search.Weights.
type Weights struct {
	Keyword float64
	Semantic float64
}

// DefaultWeights() gives keyword and vector retrieval equal say.
func DefaultWeights() Weights { return Weights{Keyword: 1.0, Semantic: 1.0} }

// FusedResult is one hybrid search hit, preserving both sources' raw scores
// for callers that want to explain a ranking.
type FusedResult struct {
	Chunk chunkstore.ChunkMetadata
	RRFScore float64
	KeywordRank int
	VectorRank int
	InBothLists bool
	Snippet string
}

// Index is the hybrid retrieval façade (spec calls it "VectorGit" in design
// notes): it owns a chunkstore.Store for keyword search, a flat Store for
// vector search, an optional AccelIndex, and an EmbeddingGateway to turn
// query text and chunk content into vectors. SelfHeal rebuilds a corrupted
// vector store from the chunk store's live content; NewIndex does not call
// it and returns Load's CORRUPTED_INDEX error unchanged.
type Index struct {
	Chunks *chunkstore.Store
	Vectors *Store
	Accel *AccelIndex
	Embeddings gateway.EmbeddingGateway
	RRFConst int
	dir string
}

// NewIndex wires the three retrieval layers together. dir is where the
// vector store's ids/matrix/meta files live.
func NewIndex(chunks *chunkstore.Store, embeddings gateway.EmbeddingGateway, dim int, dir string) (*Index, error) {
	vs, err := Load(dir)
	if err != nil {
 return nil, err
	}
	if vs.Dim() == 0 {
 vs = New(dim, "contextual_v1")
	}
	return &Index{
 Chunks: chunks,
 Vectors: vs,
 Accel: NewAccelIndex(),
 Embeddings: embeddings,
 RRFConst: DefaultRRFConstant,
 dir: dir,
	}, nil
}

// SelfHeal rebuilds the vector store from scratch by re-embedding every
// live chunk in the chunk store. Nothing in this package calls it
// automatically when Load reports CORRUPTED_INDEX.
func (ix *Index) SelfHeal(ctx context.Context) error {
	chunks := ix.Chunks.AllChunks()
	fresh := New(ix.Vectors.Dim(), "contextual_v1")
	for _, c := range chunks {
 vec, err := ix.Embeddings.EmbedSingle(ctx, contextualize(c))
 if err != nil {
 return agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeEmbedFailed, "self-heal embedding failed for chunk "+c.ChunkID, err)
 }
 if err := fresh.Upsert(c.ChunkID, vec); err != nil {
 return err
 }
	}
	ix.Vectors = fresh
	ix.Accel.RebuildFrom(fresh)
	return ix.Vectors.Save(ix.dir)
}

// IndexChunk embeds and upserts a single chunk's vector, called after
// chunkstore.Store.Ingest produces new or changed chunks.
func (ix *Index) IndexChunk(ctx context.Context, c chunkstore.ChunkMetadata) error {
	vec, err := ix.Embeddings.EmbedSingle(ctx, contextualize(c))
	if err != nil {
 return agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeEmbedFailed, "embedding failed for chunk "+c.ChunkID, err)
	}
	return ix.Vectors.Upsert(c.ChunkID, vec)
}

// EvictChunk drops a chunk's vector; wired as chunkstore.Store.OnStale.
func (ix *Index) EvictChunk(chunkID string) {
	ix.Vectors.Remove(chunkID)
}

// Save persists the vector store.
func (ix *Index) Save() error {
	return ix.Vectors.Save(ix.dir)
}

// contextualize builds the text actually embedded for a chunk: its source
// path and symbol name prepended to content, so near-duplicate snippets in
// different files or under different symbols still embed distinctly under
// the "contextual_v1" embedding format.
func contextualize(c chunkstore.ChunkMetadata) string {
	return c.SourcePath + " :: " + c.Name + "\n" + c.Content
}

// Search runs keyword and vector retrieval independently, fuses them via
// reciprocal rank fusion, and returns the top k. Grounded on the
// teacher's internal/search.RRFFusion.Fuse, generalized from BM25+vector to
// this store's occurrence-count keyword scoring.
func (ix *Index) Search(ctx context.Context, query string, k int, filters chunkstore.SearchFilters, weights Weights) ([]FusedResult, error) {
	if ix.RRFConst <= 0 {
 ix.RRFConst = DefaultRRFConstant
	}

	var keywordHits []chunkstore.SearchResult
	var vectorHits []Result

	// Run keyword and vector retrieval concurrently, grounded on the
	// teacher's internal/search.Engine.parallelSearch: each source's
	// failure is independent, so a failed embedding call degrades to
	// keyword-only results rather than failing the whole query.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
 keywordHits = ix.Chunks.Search(query, k*3, filters)
 return nil
	})
	g.Go(func() error {
 if ix.Embeddings == nil || ix.Vectors.Len() == 0 {
 return nil
 }
 qvec, err := ix.Embeddings.EmbedSingle(gctx, query)
 if err != nil {
 return nil // keyword hits alone still answer the query
 }
 if ix.Accel != nil && ix.Accel.Len() >= ix.Vectors.Len() && ix.Vectors.Len() > 2000 {
 vectorHits, err = ix.Accel.Search(qvec, k*3)
 } else {
 vectorHits, err = ix.Vectors.TopK(qvec, k*3)
 }
 return err
	})
	if err := g.Wait(); err != nil {
 return nil, err
	}

	if len(keywordHits) == 0 && len(vectorHits) == 0 {
 return []FusedResult{}, nil
	}

	scores := make(map[string]*FusedResult)
	get := func(id string) *FusedResult {
 if r, ok := scores[id]; ok {
 return r
 }
 c, _ := ix.Chunks.Get(id)
 r := &FusedResult{Chunk: c}
 scores[id] = r
 return r
	}

	for rank, r := range keywordHits {
 fr := get(r.Chunk.ChunkID)
 fr.KeywordRank = rank + 1
 fr.Snippet = r.Snippet
 fr.RRFScore += weights.Keyword / float64(ix.RRFConst+rank+1)
	}
	for rank, r := range vectorHits {
 fr := get(r.ID)
 fr.VectorRank = rank + 1
 if fr.KeywordRank > 0 {
 fr.InBothLists = true
 }
 fr.RRFScore += weights.Semantic / float64(ix.RRFConst+rank+1)
	}

	missingRank := len(keywordHits)
	if len(vectorHits) > missingRank {
 missingRank = len(vectorHits)
	}
	missingRank++
	for _, fr := range scores {
 if fr.KeywordRank == 0 && fr.VectorRank > 0 {
 fr.RRFScore += weights.Keyword / float64(ix.RRFConst+missingRank)
 }
 if fr.VectorRank == 0 && fr.KeywordRank > 0 {
 fr.RRFScore += weights.Semantic / float64(ix.RRFConst+missingRank)
 }
	}

	out := make([]FusedResult, 0, len(scores))
	for _, fr := range scores {
 out = append(out, *fr)
	}
	sort.Slice(out, func(i, j int) bool {
 if out[i].RRFScore != out[j].RRFScore {
 return out[i].RRFScore > out[j].RRFScore
 }
 if out[i].InBothLists != out[j].InBothLists {
 return out[i].InBothLists
 }
 return out[i].Chunk.ChunkID < out[j].Chunk.ChunkID
	})

	if len(out) > k {
 out = out[:k]
	}
	if maxScore := topScore(out); maxScore > 0 {
 for i := range out {
 out[i].RRFScore /= maxScore
 }
	}
	return out, nil
}

func topScore(results []FusedResult) float64 {
	if len(results) == 0 {
 return 0
	}
	return results[0].RRFScore
}
