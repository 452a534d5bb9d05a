package ai

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johnquangdev/ytbuddy/pkg/config"
)

func TestChatClientGenerate(t *testing.T) {
	// Mock OpenAI-compatible server
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		if payload["model"] != "test-model" {
			t.Errorf("unexpected model %v", payload["model"])
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": "  Paris.  "}},
			},
		})
	}))
	defer ts.Close()

	client := NewChatClient(&config.LLMConfig{APIKey: "test-key", BaseURL: ts.URL + "/v1", Model: "test-model"})

	got, err := client.Generate(context.Background(), "What is the capital of France?")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if got != "Paris." {
		t.Fatalf("Generate() = %q, want trimmed reply", got)
	}
	if client.Model() != "test-model" {
		t.Fatalf("Model() = %q", client.Model())
	}
}

func TestChatClientPropagatesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "You exceeded your current quota", "type": "insufficient_quota"},
		})
	}))
	defer ts.Close()

	client := NewChatClient(&config.LLMConfig{APIKey: "test-key", BaseURL: ts.URL + "/v1"})
	if _, err := client.Generate(context.Background(), "hi"); err == nil {
		t.Fatal("expected error from 429 response")
	}
}

func TestOpenAIEmbedderKeepsOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		// answer in reverse order to check index handling
		data := make([]map[string]interface{}, 0, len(payload.Input))
		for i := len(payload.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]interface{}{
				"object":    "embedding",
				"index":     i,
				"embedding": []float32{float32(i), 1},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"object": "list", "data": data})
	}))
	defer ts.Close()

	e := NewOpenAIEmbedder(&config.EmbeddingConfig{APIKey: "k", BaseURL: ts.URL + "/v1", Dimensions: 2})
	vecs, err := e.Embed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vecs))
	}
	for i, v := range vecs {
		if v[0] != float32(i) {
			t.Errorf("vector %d = %v, out of order", i, v)
		}
	}
}

func TestClientsIgnoreEnvironmentKeys(t *testing.T) {
	t.Setenv("LLM_API_KEY", "from-env")

	var auth []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/embeddings") {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"object": "list",
				"data":   []map[string]interface{}{{"object": "embedding", "index": 0, "embedding": []float32{1, 0}}},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": "ok"}},
			},
		})
	}))
	defer ts.Close()

	if _, err := NewChatClient(&config.LLMConfig{APIKey: "cfg-key", BaseURL: ts.URL + "/v1"}).Generate(context.Background(), "hi"); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if _, err := NewChatClient(&config.LLMConfig{BaseURL: ts.URL + "/v1"}).Generate(context.Background(), "hi"); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if _, err := NewOpenAIEmbedder(&config.EmbeddingConfig{BaseURL: ts.URL + "/v1", Dimensions: 2}).Embed(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("Embed() error: %v", err)
	}

	if len(auth) != 3 {
		t.Fatalf("got %d requests, want 3", len(auth))
	}
	if auth[0] != "Bearer cfg-key" {
		t.Errorf("configured key header = %q", auth[0])
	}
	for i, h := range auth[1:] {
		if strings.Contains(h, "from-env") {
			t.Errorf("request %d used the environment key: %q", i+1, h)
		}
	}
}

func TestHashEmbedderSimilarity(t *testing.T) {
	e := NewHashEmbedder(128)
	vecs, _ := e.Embed(context.Background(), []string{
		"What color is the sky?",
		"The sky is blue and grass is green.",
		"Quarterly revenue grew by ten percent.",
	})

	cos := func(a, b []float32) float64 {
		var dot float64
		for i := range a {
			dot += float64(a[i]) * float64(b[i])
		}
		return dot
	}

	if cos(vecs[0], vecs[1]) <= cos(vecs[0], vecs[2]) {
		t.Fatal("expected shared vocabulary to score higher")
	}

	var norm float64
	for _, x := range vecs[1] {
		norm += float64(x) * float64(x)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Fatalf("vector not normalised: %v", norm)
	}
}
