package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		LLM:         LLMConfig{APIKey: "key"},
		Embedding:   EmbeddingConfig{Provider: EmbeddingProviderHash, Dimensions: 64},
		RateLimit:   RateLimitConfig{MaxAttempts: 3},
		Cache:       CacheConfig{Backend: CacheBackendMemory, TTL: time.Hour},
		VectorStore: VectorStoreConfig{Kind: VectorStoreMemory, ChunkSize: 500, ChunkOverlap: 100, TopK: 4, MaxTranscriptLength: 100000},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing api key", mutate: func(c *Config) { c.LLM.APIKey = "" }, wantErr: true},
		{name: "unknown vector store", mutate: func(c *Config) { c.VectorStore.Kind = "chroma" }, wantErr: true},
		{name: "blob with bad backend", mutate: func(c *Config) {
			c.VectorStore.Kind = VectorStoreBlob
			c.VectorStore.BlobBackend = "s3"
		}, wantErr: true},
		{name: "blob with minio", mutate: func(c *Config) {
			c.VectorStore.Kind = VectorStoreBlob
			c.VectorStore.BlobBackend = BlobBackendMinIO
		}},
		{name: "zero transcript cap", mutate: func(c *Config) { c.VectorStore.MaxTranscriptLength = 0 }, wantErr: true},
		{name: "unknown cache backend", mutate: func(c *Config) { c.Cache.Backend = "memcached" }, wantErr: true},
		{name: "overlap not smaller than size", mutate: func(c *Config) { c.VectorStore.ChunkOverlap = 500 }, wantErr: true},
		{name: "pgvector without database", mutate: func(c *Config) { c.VectorStore.Kind = VectorStorePgVector }, wantErr: true},
		{name: "pgvector with database", mutate: func(c *Config) {
			c.VectorStore.Kind = VectorStorePgVector
			c.Database.Enabled = true
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("LLM_API_KEY", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT_MIN_INTERVAL", "3s")
	t.Setenv("TRANSCRIPT_LANGUAGES", "en,fr")
	t.Setenv("VECTOR_STORE_TOP_K", "6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.RateLimit.MinInterval != 3*time.Second {
		t.Errorf("RateLimit.MinInterval = %v, want 3s", cfg.RateLimit.MinInterval)
	}
	if len(cfg.Transcript.Languages) != 2 || cfg.Transcript.Languages[1] != "fr" {
		t.Errorf("Transcript.Languages = %v, want [en fr]", cfg.Transcript.Languages)
	}
	if cfg.VectorStore.TopK != 6 {
		t.Errorf("VectorStore.TopK = %d, want 6", cfg.VectorStore.TopK)
	}
	if cfg.VectorStore.MaxTranscriptLength != 100000 {
		t.Errorf("VectorStore.MaxTranscriptLength = %d, want 100000", cfg.VectorStore.MaxTranscriptLength)
	}
	if cfg.LLM.Model != "gemini-2.0-flash-lite" {
		t.Errorf("LLM.Model = %q, want default", cfg.LLM.Model)
	}
	if cfg.Embedding.APIKey != "secret" {
		t.Errorf("Embedding.APIKey should fall back to the LLM key, got %q", cfg.Embedding.APIKey)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	c := &Config{Database: DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable"
	if got := c.GetDatabaseDSN(); got != want {
		t.Fatalf("GetDatabaseDSN() = %q, want %q", got, want)
	}
}
