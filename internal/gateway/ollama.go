package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOllamaHost is used when EmbeddingsConfig.OllamaHost is empty.
const DefaultOllamaHost = "http://localhost:11434"

// ollamaEmbedRequest mirrors Ollama's /api/embed request body.
type ollamaEmbedRequest struct {
	Model string `json:"model"`
	Input any `json:"input"`
}

// ollamaEmbedResponse mirrors Ollama's /api/embed response body.
type ollamaEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// OllamaEmbedder is an EmbeddingGateway backed by a local Ollama server's
// /api/embed endpoint. Follows the pattern of internal/embed/ollama.go,
// trimmed to the single request path this interface needs: no auto model
// discovery, no progressive cold/warm timeout scaling, no connection-pool
// tuning knobs, since the design's embeddings config already pins a
// model and a flat per-request timeout.
type OllamaEmbedder struct {
	client *http.Client
	host string
	model string
	dims int
	batchSize int
}

// NewOllamaEmbedder constructs an OllamaEmbedder from resolved config
// values; host/model/batchSize/timeout must already have their defaults
// applied by the caller.
func NewOllamaEmbedder(host, model string, dims, batchSize int, timeout time.Duration) *OllamaEmbedder {
	return &OllamaEmbedder{
 client: &http.Client{Timeout: timeout},
 host: strings.TrimSuffix(host, "/"),
 model: model,
 dims: dims,
 batchSize: batchSize,
	}
}

// Dimensions() reports the embedder's configured vector width.
func (e *OllamaEmbedder) Dimensions() int { return e.dims }

// EmbedSingle embeds one string.
func (e *OllamaEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
 return make([]float32, e.dims), nil
	}
	out, err := e.doEmbed(ctx, []string{text})
	if err != nil {
 return nil, err
	}
	if len(out) == 0 {
 return nil, fmt.Errorf("ollama: no embedding returned")
	}
	return out[0], nil
}

// Embed embeds a batch of strings, chunked to batchSize requests.
func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))

	type indexedText struct {
 idx int
 text string
	}
	var nonEmpty []indexedText
	for i, t := range texts {
 if strings.TrimSpace(t) == "" {
 results[i] = make([]float32, e.dims)
 continue
 }
 nonEmpty = append(nonEmpty, indexedText{i, t})
	}

	batchSize := e.batchSize
	if batchSize <= 0 {
 batchSize = 32
	}
	for start := 0; start < len(nonEmpty); start += batchSize {
 end := start + batchSize
 if end > len(nonEmpty) {
 end = len(nonEmpty)
 }
 batch := nonEmpty[start:end]
 batchTexts := make([]string, len(batch))
 for i, it := range batch {
 batchTexts[i] = it.text
 }
 embeddings, err := e.doEmbed(ctx, batchTexts)
 if err != nil {
 return nil, fmt.Errorf("ollama: batch embed failed: %w", err)
 }
 for i, emb := range embeddings {
 results[batch[i].idx] = emb
 }
	}
	return results, nil
}

func (e *OllamaEmbedder) doEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	host := e.host
	if host == "" {
 host = DefaultOllamaHost
	}

	var input any
	if len(texts) == 1 {
 input = texts[0]
	} else {
 input = texts
	}

	body, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Input: input})
	if err != nil {
 return nil, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host+"/api/embed", bytes.NewReader(body))
	if err != nil {
 return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
 return nil, fmt.Errorf("ollama: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
 respBody, _ := io.ReadAll(resp.Body)
 return nil, fmt.Errorf("ollama: embed failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
 return nil, fmt.Errorf("ollama: decode response: %w", err)
	}

	out := make([][]float32, len(apiResp.Embeddings))
	for i, emb := range apiResp.Embeddings {
 v := make([]float32, len(emb))
 for j, x := range emb {
 v[j] = float32(x)
 }
 out[i] = normalizeVector(v)
	}
	return out, nil
}
