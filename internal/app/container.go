// Package app wires the ytbuddy components from configuration.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/ytbuddy/internal/adapter/handler"
	"github.com/johnquangdev/ytbuddy/internal/adapter/repository"
	"github.com/johnquangdev/ytbuddy/internal/domain/repositories"
	"github.com/johnquangdev/ytbuddy/internal/infrastructure/cache"
	"github.com/johnquangdev/ytbuddy/internal/infrastructure/database"
	"github.com/johnquangdev/ytbuddy/internal/infrastructure/external/assemblyai"
	"github.com/johnquangdev/ytbuddy/internal/infrastructure/external/youtube"
	"github.com/johnquangdev/ytbuddy/internal/infrastructure/storage"
	"github.com/johnquangdev/ytbuddy/internal/infrastructure/vectorstore"
	aiuse "github.com/johnquangdev/ytbuddy/internal/usecase/ai"
	"github.com/johnquangdev/ytbuddy/internal/usecase/qa"
	"github.com/johnquangdev/ytbuddy/internal/usecase/transcript"
	"github.com/johnquangdev/ytbuddy/internal/usecase/video"
	pkgai "github.com/johnquangdev/ytbuddy/pkg/ai"
	"github.com/johnquangdev/ytbuddy/pkg/config"
	"github.com/johnquangdev/ytbuddy/pkg/textsplit"
)

// Container holds the wired services and the resources to release on Close
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Clock   clock.Clock
	DB      *gorm.DB
	Gateway *aiuse.Gateway
	Indexes *qa.IndexManager
	QA      qa.Service
	Video   video.Service

	closers []func() error
}

// New builds every component selected by cfg. Call Close when done.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger, Clock: clock.New()}
	if err := c.build(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	cfg := c.Config

	// Database
	var repo repositories.TranscriptRepository
	if cfg.Database.Enabled {
		log.Println("📦 Connecting to database...")
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db
		c.closers = append(c.closers, func() error { return database.CloseDB(db) })

		if cfg.Database.AutoMigrate {
			if cfg.IsProduction() {
				return fmt.Errorf("DB_AUTO_MIGRATE is enabled in production; run `ytbuddy migrate up` instead")
			}
			log.Println("🔄 Applying migrations...")
			if err := database.AutoMigrate(db, cfg.Database.MigrationsDir); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
		}
		repo = repository.NewTranscriptRepository(db)
	} else {
		log.Println("⚠️  Database disabled, transcripts are not persisted")
	}

	// Artifact cache
	store, err := c.artifactStore()
	if err != nil {
		return err
	}
	artifacts := aiuse.NewArtifactCache(store, c.Clock, cfg.Cache.TTL, c.Logger)

	// Generation
	log.Println("🤖 Initializing AI components...")
	chat := pkgai.NewChatClient(&cfg.LLM)
	c.Gateway = aiuse.NewGateway(chat,
		aiuse.WithClock(c.Clock),
		aiuse.WithMinInterval(cfg.RateLimit.MinInterval),
		aiuse.WithRetry(cfg.RateLimit.MaxAttempts, cfg.RateLimit.InitialBackoff, cfg.RateLimit.MaxBackoff),
		aiuse.WithCacheCounter(artifacts),
		aiuse.WithLogger(c.Logger),
	)
	summarizer := aiuse.NewAIService(c.Gateway, artifacts, c.Logger)

	// Transcripts
	log.Println("📜 Initializing transcript sources...")
	var sources []repositories.TranscriptSource
	if repo != nil {
		sources = append(sources, transcript.NewRepositorySource(repo))
	}
	sources = append(sources, youtube.NewCaptionSource(&cfg.Transcript, c.Logger))
	if cfg.Assembly.AudioURLTemplate != "" {
		sources = append(sources, assemblyai.NewSource(pkgai.NewAssemblyAIClient(&cfg.Assembly), cfg.Assembly.AudioURLTemplate, c.Logger))
	}
	chain := transcript.NewChain(repo, c.Logger, sources...)

	// Index
	index, err := c.vectorIndex(ctx)
	if err != nil {
		return err
	}
	splitter, err := textsplit.New(cfg.VectorStore.ChunkSize, cfg.VectorStore.ChunkOverlap)
	if err != nil {
		return err
	}
	c.Indexes = qa.NewIndexManager(index, chain, splitter, cfg.VectorStore.TopK, c.Logger)
	c.Indexes.SetMaxTranscriptLength(cfg.VectorStore.MaxTranscriptLength)

	composer := qa.NewComposer(c.Gateway, c.Indexes, cfg.VectorStore.TopK, c.Logger)
	c.QA = qa.NewQAService(composer, c.Clock, c.Logger)
	c.Video = video.NewVideoService(chain, summarizer, c.Indexes, repo, c.Clock, c.Logger)
	return nil
}

func (c *Container) artifactStore() (repositories.ArtifactStore, error) {
	cfg := c.Config
	if cfg.Cache.Backend == config.CacheBackendRedis {
		log.Println("📦 Connecting to Redis...")
		client, err := cache.NewRedisClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.closers = append(c.closers, client.Close)
		return cache.NewRedisStore(client, cfg.Cache.KeyPrefix, c.Clock), nil
	}
	store := cache.NewMemoryStore(c.Clock, cfg.Cache.CleanupInterval)
	c.closers = append(c.closers, store.Close)
	return store, nil
}

func (c *Container) embedder() repositories.Embedder {
	if c.Config.Embedding.Provider == config.EmbeddingProviderHash {
		return pkgai.NewHashEmbedder(c.Config.Embedding.Dimensions)
	}
	return pkgai.NewOpenAIEmbedder(&c.Config.Embedding)
}

func (c *Container) vectorIndex(ctx context.Context) (repositories.VectorIndex, error) {
	cfg := c.Config
	embedder := c.embedder()

	switch cfg.VectorStore.Kind {
	case config.VectorStoreBlob:
		var blobs vectorstore.BlobStore
		if cfg.VectorStore.BlobBackend == config.BlobBackendMinIO {
			log.Println("🪣 Connecting to MinIO...")
			mc, err := storage.NewMinIOClient(ctx, &cfg.Storage)
			if err != nil {
				return nil, err
			}
			blobs = mc
		} else {
			fs, err := storage.NewFileStore(cfg.VectorStore.Dir)
			if err != nil {
				return nil, err
			}
			blobs = fs
		}
		return vectorstore.NewBlobIndex(blobs, embedder), nil

	case config.VectorStorePgVector:
		log.Println("🧭 Connecting to pgvector...")
		idx, err := vectorstore.NewPgVectorIndex(ctx, cfg.GetDatabaseDSN(), embedder)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() error { idx.Close(); return nil })
		return idx, nil

	case config.VectorStoreMilvus:
		log.Println("🧭 Connecting to Milvus...")
		idx, err := vectorstore.NewMilvusIndex(ctx, &cfg.Milvus, embedder)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, idx.Close)
		return idx, nil

	default:
		return vectorstore.NewMemoryIndex(embedder), nil
	}
}

// Handlers builds the HTTP router over the container's services
func (c *Container) Handlers() *handler.Router {
	return handler.NewRouter(
		c.Config,
		handler.NewQAHandler(c.QA, c.Logger),
		handler.NewVideoHandler(c.Video, c.Gateway, c.Clock, c.Logger),
	)
}

// Close releases resources in reverse order of acquisition
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}
