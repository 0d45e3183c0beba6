package gateway

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
	"unicode"
)

// StaticDimensions is the vector width produced by StaticEmbedder.
const StaticDimensions = 256

const (
	staticTokenWeight = 0.7
	staticNgramWeight = 0.3
	staticNgramSize = 3
)

var staticTokenRegex = regexp.MustCompile(`[a-zA-Z0-9]+`)

var staticStopWords = map[string]bool{
	"func": true, "function": true, "def": true, "class": true,
	"return": true, "import": true, "const": true, "var": true,
	"let": true, "int": true, "string": true, "bool": true,
	"void": true, "true": true, "false": true, "nil": true,
	"null": true, "this": true, "self": true, "new": true,
}

// StaticEmbedder is a dependency-free, deterministic EmbeddingGateway: a
// hashed bag-of-tokens-and-trigrams vector. It never reaches the network,
// so it is the embeddings.provider: "static" fallback when no embedding
// service is configured or reachable. Grounded on the
// internal/embed/static.go hash-based approach, trimmed to the fields
// agentcore's EmbeddingGateway interface actually needs.
type StaticEmbedder struct{}

// NewStaticEmbedder() constructs a StaticEmbedder.
func NewStaticEmbedder() *StaticEmbedder { return &StaticEmbedder{} }

// Dimensions() reports the fixed vector width.
func (e *StaticEmbedder) Dimensions() int { return StaticDimensions }

// EmbedSingle embeds one string.
func (e *StaticEmbedder) EmbedSingle(_ context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
 return make([]float32, StaticDimensions), nil
	}
	return normalizeVector(generateStaticVector(trimmed)), nil
}

// Embed embeds a batch of strings sequentially; the hash computation is
// cheap enough that concurrency would only add synchronization overhead.
func (e *StaticEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
 v, err := e.EmbedSingle(ctx, t)
 if err != nil {
 return nil, err
 }
 out[i] = v
	}
	return out, nil
}

func generateStaticVector(text string) []float32 {
	vector := make([]float32, StaticDimensions)

	for _, token := range filterStopWords(tokenizeStatic(text)) {
 vector[hashToIndex(token, StaticDimensions)] += staticTokenWeight
	}

	normalized := normalizeForNgrams(text)
	for _, ngram := range extractNgrams(normalized, staticNgramSize) {
 vector[hashToIndex(ngram, StaticDimensions)] += staticNgramWeight
	}

	return vector
}

func tokenizeStatic(text string) []string {
	var tokens []string
	for _, word := range staticTokenRegex.FindAllString(text, -1) {
 for _, t := range splitCodeToken(word) {
 if lower := strings.ToLower(t); lower != "" {
 tokens = append(tokens, lower)
 }
 }
	}
	return tokens
}

func splitCodeToken(token string) []string {
	if strings.Contains(token, "_") {
 var result []string
 for _, part := range strings.Split(token, "_") {
 if part != "" {
 result = append(result, splitCamelCase(part)...)
 }
 }
 return result
	}
	return splitCamelCase(token)
}

func splitCamelCase(s string) []string {
	if s == "" {
 return []string{}
	}
	var result []string
	var current strings.Builder
	runes := []rune(s)
	for i, r := range runes {
 if i > 0 && unicode.IsUpper(r) {
 prevLower := unicode.IsLower(runes[i-1])
 nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
 if prevLower || nextLower {
 if current.Len() > 0 {
 result = append(result, current.String())
 current.Reset()
 }
 }
 }
 current.WriteRune(r)
	}
	if current.Len() > 0 {
 result = append(result, current.String())
	}
	return result
}

func filterStopWords(tokens []string) []string {
	filtered := make([]string, 0, len(tokens))
	for _, t := range tokens {
 if !staticStopWords[t] {
 filtered = append(filtered, t)
 }
	}
	return filtered
}

func normalizeForNgrams(text string) string {
	var result strings.Builder
	for _, r := range strings.ToLower(text) {
 if unicode.IsLetter(r) || unicode.IsDigit(r) {
 result.WriteRune(r)
 }
	}
	return result.String()
}

func extractNgrams(text string, n int) []string {
	if len(text) < n {
 return []string{}
	}
	ngrams := make([]string, 0, len(text)-n+1)
	for i := 0; i <= len(text)-n; i++ {
 ngrams = append(ngrams, text[i:i+n])
	}
	return ngrams
}

func hashToIndex(s string, size int) int {
	h := fnv.New64()
	_, _ = h.Write([]byte(s))
	return int(h.Sum64() % uint64(size))
}

func normalizeVector(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
 sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
 return v
	}
	norm := float32(math.Sqrt(sumSq))
	out := make([]float32, len(v))
	for i, x := range v {
 out[i] = x / norm
	}
	return out
}
