package ai

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	openai "github.com/sashabaranov/go-openai"

	"github.com/johnquangdev/ytbuddy/pkg/config"
)

const embeddingBatchSize = 64

// OpenAIEmbedder embeds text through an OpenAI-compatible embeddings endpoint
type OpenAIEmbedder struct {
	cli        *openai.Client
	model      string
	dimensions int
}

// NewOpenAIEmbedder creates an embedder from config. The key comes only from
// cfg; config.Load fills it from the LLM key when unset.
func NewOpenAIEmbedder(cfg *config.EmbeddingConfig) *OpenAIEmbedder {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg != nil && cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	e := &OpenAIEmbedder{
		cli:        openai.NewClientWithConfig(clientConfig),
		model:      "text-embedding-004",
		dimensions: 768,
	}
	if cfg != nil {
		if cfg.Model != "" {
			e.model = cfg.Model
		}
		if cfg.Dimensions > 0 {
			e.dimensions = cfg.Dimensions
		}
	}
	return e
}

// Dimensions returns the configured vector size
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Embed returns one vector per input text, in input order
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embeddingBatchSize {
		end := start + embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		req := openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(e.model),
			Input: texts[start:end],
		}
		resp, err := e.cli.CreateEmbeddings(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("embedding generation failed: %w", err)
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("expected %d embeddings, got %d", end-start, len(resp.Data))
		}

		batch := make([][]float32, end-start)
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(batch) {
				return nil, fmt.Errorf("embedding index %d out of range", d.Index)
			}
			batch[d.Index] = d.Embedding
		}
		out = append(out, batch...)
	}
	return out, nil
}

// HashEmbedder is a deterministic bag-of-words embedder that needs no network.
// Each lower-cased word is hashed into one of Dimensions buckets and the
// result is L2-normalised, so cosine similarity tracks shared vocabulary.
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder returns a HashEmbedder with the given vector size
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 256
	}
	return &HashEmbedder{dimensions: dimensions}
}

// Dimensions returns the vector size
func (h *HashEmbedder) Dimensions() int {
	return h.dimensions
}

// Embed never fails
func (h *HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = h.vector(text)
	}
	return out, nil
}

func (h *HashEmbedder) vector(text string) []float32 {
	v := make([]float32, h.dimensions)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		f := fnv.New32a()
		_, _ = f.Write([]byte(w))
		v[f.Sum32()%uint32(h.dimensions)]++
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}
