package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Vector store kinds
const (
	VectorStoreMemory   = "memory"
	VectorStoreBlob     = "blob"
	VectorStorePgVector = "pgvector"
	VectorStoreMilvus   = "milvus"
)

// Blob backends for the blob vector store
const (
	BlobBackendFilesystem = "filesystem"
	BlobBackendMinIO      = "minio"
)

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Embedding providers
const (
	EmbeddingProviderOpenAI = "openai"
	EmbeddingProviderHash   = "hash"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig      `envconfig:"SERVER"`
	LLM         LLMConfig         `envconfig:"LLM"`
	Embedding   EmbeddingConfig   `envconfig:"EMBEDDING"`
	RateLimit   RateLimitConfig   `envconfig:"RATE_LIMIT"`
	Cache       CacheConfig       `envconfig:"CACHE"`
	Redis       RedisConfig       `envconfig:"REDIS"`
	Database    DatabaseConfig    `envconfig:"DB"`
	VectorStore VectorStoreConfig `envconfig:"VECTOR_STORE"`
	Milvus      MilvusConfig      `envconfig:"MILVUS"`
	Storage     StorageConfig     `envconfig:"STORAGE"`
	Transcript  TranscriptConfig  `envconfig:"TRANSCRIPT"`
	Assembly    AssemblyConfig    `envconfig:"ASSEMBLYAI"`
	Log         LogConfig         `envconfig:"LOG"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `split_words:"true" default:"8080"`
	Host            string        `split_words:"true" default:"0.0.0.0"`
	Environment     string        `split_words:"true" default:"development"`
	AllowedOrigins  []string      `split_words:"true" default:"*"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// LLMConfig holds the generation backend configuration.
// Any OpenAI-compatible endpoint works; the default points at Gemini.
type LLMConfig struct {
	APIKey      string        `split_words:"true"`
	BaseURL     string        `split_words:"true" default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	Model       string        `split_words:"true" default:"gemini-2.0-flash-lite"`
	Temperature float32       `split_words:"true" default:"0.2"`
	MaxTokens   int           `split_words:"true" default:"1024"`
	Timeout     time.Duration `split_words:"true" default:"60s"`
}

// EmbeddingConfig holds embedding configuration
type EmbeddingConfig struct {
	Provider   string `split_words:"true" default:"openai"`
	APIKey     string `split_words:"true"`
	BaseURL    string `split_words:"true"`
	Model      string `split_words:"true" default:"text-embedding-004"`
	Dimensions int    `split_words:"true" default:"768"`
}

// RateLimitConfig controls spacing and retries of generation calls
type RateLimitConfig struct {
	MinInterval    time.Duration `split_words:"true" default:"2100ms"`
	MaxAttempts    int           `split_words:"true" default:"3"`
	InitialBackoff time.Duration `split_words:"true" default:"1s"`
	MaxBackoff     time.Duration `split_words:"true" default:"10s"`
}

// CacheConfig holds artifact cache configuration
type CacheConfig struct {
	Backend         string        `split_words:"true" default:"memory"`
	TTL             time.Duration `split_words:"true" default:"1h"`
	CleanupInterval time.Duration `split_words:"true" default:"5m"`
	KeyPrefix       string        `split_words:"true" default:"ytbuddy:artifact:"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"6379"`
	Password string `split_words:"true"`
	DB       int    `split_words:"true" default:"0"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled       bool   `split_words:"true" default:"false"`
	Host          string `split_words:"true" default:"localhost"`
	Port          string `split_words:"true" default:"5432"`
	User          string `split_words:"true" default:"postgres"`
	Password      string `split_words:"true" default:"postgres"`
	Name          string `split_words:"true" default:"ytbuddy"`
	SSLMode       string `split_words:"true" default:"disable"`
	MaxConns      int    `split_words:"true" default:"25"`
	MinConns      int    `split_words:"true" default:"5"`
	MigrationsDir string `split_words:"true" default:"migrations"`
	AutoMigrate   bool   `split_words:"true" default:"false"`
}

// VectorStoreConfig selects and tunes the transcript index backend
type VectorStoreConfig struct {
	Kind                string `split_words:"true" default:"memory"`
	BlobBackend         string `split_words:"true" default:"filesystem"`
	Dir                 string `split_words:"true" default:"data/indexes"`
	ChunkSize           int    `split_words:"true" default:"500"`
	ChunkOverlap        int    `split_words:"true" default:"100"`
	TopK                int    `split_words:"true" default:"4"`
	MaxTranscriptLength int    `split_words:"true" default:"100000"`
}

// MilvusConfig holds Milvus configuration
type MilvusConfig struct {
	Address    string `split_words:"true" default:"localhost:19530"`
	Username   string `split_words:"true"`
	Password   string `split_words:"true"`
	Collection string `split_words:"true" default:"ytbuddy_chunks"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string `split_words:"true" default:"localhost:9000"`
	AccessKeyID     string `split_words:"true" default:"minioadmin"`
	SecretAccessKey string `split_words:"true" default:"minioadmin"`
	BucketName      string `split_words:"true" default:"ytbuddy-indexes"`
	UseSSL          bool   `split_words:"true" default:"false"`
}

// TranscriptConfig holds caption fetching configuration
type TranscriptConfig struct {
	Languages []string      `split_words:"true" default:"en,hi"`
	Timeout   time.Duration `split_words:"true" default:"30s"`
}

// AssemblyConfig holds speech-to-text fallback configuration.
// The fallback is disabled while AudioURLTemplate is empty.
type AssemblyConfig struct {
	APIKey           string        `split_words:"true"`
	AudioURLTemplate string        `split_words:"true"`
	LanguageCode     string        `split_words:"true" default:"en"`
	Timeout          time.Duration `split_words:"true" default:"10m"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `split_words:"true" default:"info"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if config.Embedding.APIKey == "" {
		config.Embedding.APIKey = config.LLM.APIKey
	}
	if config.Embedding.BaseURL == "" {
		config.Embedding.BaseURL = config.LLM.BaseURL
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}

	switch c.VectorStore.Kind {
	case VectorStoreMemory, VectorStoreBlob, VectorStorePgVector, VectorStoreMilvus:
	default:
		return fmt.Errorf("VECTOR_STORE_KIND must be one of memory, blob, pgvector, milvus (got %q)", c.VectorStore.Kind)
	}
	if c.VectorStore.Kind == VectorStoreBlob {
		switch c.VectorStore.BlobBackend {
		case BlobBackendFilesystem, BlobBackendMinIO:
		default:
			return fmt.Errorf("VECTOR_STORE_BLOB_BACKEND must be filesystem or minio (got %q)", c.VectorStore.BlobBackend)
		}
	}

	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory or redis (got %q)", c.Cache.Backend)
	}

	switch c.Embedding.Provider {
	case EmbeddingProviderOpenAI, EmbeddingProviderHash:
	default:
		return fmt.Errorf("EMBEDDING_PROVIDER must be openai or hash (got %q)", c.Embedding.Provider)
	}

	if c.VectorStore.ChunkSize <= 0 {
		return fmt.Errorf("VECTOR_STORE_CHUNK_SIZE must be positive")
	}
	if c.VectorStore.ChunkOverlap < 0 || c.VectorStore.ChunkOverlap >= c.VectorStore.ChunkSize {
		return fmt.Errorf("VECTOR_STORE_CHUNK_OVERLAP must be in [0, chunk size)")
	}
	if c.VectorStore.TopK <= 0 {
		return fmt.Errorf("VECTOR_STORE_TOP_K must be positive")
	}
	if c.VectorStore.MaxTranscriptLength <= 0 {
		return fmt.Errorf("VECTOR_STORE_MAX_TRANSCRIPT_LENGTH must be positive")
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS must be positive")
	}
	if c.RateLimit.MaxAttempts <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX_ATTEMPTS must be positive")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.VectorStore.Kind == VectorStorePgVector && !c.Database.Enabled {
		return fmt.Errorf("VECTOR_STORE_KIND=pgvector requires DB_ENABLED=true")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetServerAddr returns the listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
