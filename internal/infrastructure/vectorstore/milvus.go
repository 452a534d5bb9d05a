package vectorstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	"github.com/johnquangdev/ytbuddy/internal/domain/repositories"
	"github.com/johnquangdev/ytbuddy/pkg/config"
)

const (
	milvusFieldVideoID = "video_id"
	milvusFieldBuildID = "build_id"
	milvusFieldOrdinal = "chunk_index"
	milvusFieldText    = "text"
	milvusFieldVector  = "vector"

	// markerOrdinal tags the row that publishes a finished build
	markerOrdinal = -1
)

// milvusAPI is the part of client.Client the index uses
type milvusAPI interface {
	Query(ctx context.Context, collectionName string, partitionNames []string, expr string, outputFields []string, opts ...client.SearchQueryOptionFunc) (client.ResultSet, error)
	Insert(ctx context.Context, collName string, partitionName string, columns ...entity.Column) (entity.Column, error)
	Flush(ctx context.Context, collName string, async bool, opts ...client.FlushOption) error
	Delete(ctx context.Context, collName string, partitionName string, expr string) error
	Search(ctx context.Context, collName string, partitions []string, expr string, outputFields []string, vectors []entity.Vector, vectorField string, metricType entity.MetricType, topK int, sp entity.SearchParam, opts ...client.SearchQueryOptionFunc) ([]client.SearchResult, error)
	Close() error
}

// MilvusIndex stores chunk embeddings in a Milvus collection. Every Build
// writes its chunks under a fresh build id and, once they are flushed,
// inserts a marker row naming that build. Readers only follow markers, so
// a build that failed or never finished stays invisible and the previous
// build keeps serving.
type MilvusIndex struct {
	mc       milvusAPI
	coll     string
	embedder repositories.Embedder
	newID    func() string
}

// NewMilvusIndex connects to Milvus and prepares the collection
func NewMilvusIndex(ctx context.Context, cfg *config.MilvusConfig, embedder repositories.Embedder) (*MilvusIndex, error) {
	mc, err := client.NewClient(ctx, client.Config{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("connect milvus: %w", err)
	}

	if err := ensureMilvusCollection(ctx, mc, cfg.Collection, embedder.Dimensions()); err != nil {
		mc.Close()
		return nil, err
	}
	return newMilvusIndex(mc, cfg.Collection, embedder), nil
}

func newMilvusIndex(mc milvusAPI, coll string, embedder repositories.Embedder) *MilvusIndex {
	return &MilvusIndex{mc: mc, coll: coll, embedder: embedder, newID: uuid.NewString}
}

func ensureMilvusCollection(ctx context.Context, mc client.Client, coll string, dim int) error {
	has, err := mc.HasCollection(ctx, coll)
	if err != nil {
		return err
	}
	if !has {
		schema := entity.NewSchema().WithName(coll).WithDescription("transcript chunks")
		schema.WithField(entity.NewField().WithName("id").WithIsAutoID(true).WithIsPrimaryKey(true).WithDataType(entity.FieldTypeInt64))
		schema.WithField(entity.NewField().WithName(milvusFieldVideoID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(32))
		schema.WithField(entity.NewField().WithName(milvusFieldBuildID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(64))
		schema.WithField(entity.NewField().WithName(milvusFieldOrdinal).WithDataType(entity.FieldTypeInt64))
		schema.WithField(entity.NewField().WithName(milvusFieldText).WithDataType(entity.FieldTypeVarChar).WithMaxLength(8192))
		schema.WithField(entity.NewField().WithName(milvusFieldVector).WithDataType(entity.FieldTypeFloatVector).WithDim(int64(dim)))

		if err := mc.CreateCollection(ctx, schema, int32(2)); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}

		idx, err := entity.NewIndexHNSW(entity.COSINE, 8, 200)
		if err != nil {
			return fmt.Errorf("new hnsw index: %w", err)
		}
		if err := mc.CreateIndex(ctx, coll, milvusFieldVector, idx, false, client.WithIndexName("idx_vector")); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	if err := mc.LoadCollection(ctx, coll, false); err != nil {
		return fmt.Errorf("load collection: %w", err)
	}
	return nil
}

// Close closes the Milvus connection
func (m *MilvusIndex) Close() error {
	return m.mc.Close()
}

func quoteMilvus(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

func markerFilter(videoID string) string {
	return fmt.Sprintf("%s == %s && %s == %d", milvusFieldVideoID, quoteMilvus(videoID), milvusFieldOrdinal, markerOrdinal)
}

func buildChunksFilter(videoID, buildID string) string {
	return fmt.Sprintf("%s == %s && %s == %s && %s >= 0",
		milvusFieldVideoID, quoteMilvus(videoID), milvusFieldBuildID, quoteMilvus(buildID), milvusFieldOrdinal)
}

func staleRowsFilter(videoID, buildID string) string {
	return fmt.Sprintf("%s == %s && %s != %s",
		milvusFieldVideoID, quoteMilvus(videoID), milvusFieldBuildID, quoteMilvus(buildID))
}

// publishedBuild returns the build id named by the video's marker, if any.
// Markers are read with strong consistency so a finished Build is seen at once.
func (m *MilvusIndex) publishedBuild(ctx context.Context, videoID string) (string, bool, error) {
	rs, err := m.mc.Query(ctx, m.coll, []string{}, markerFilter(videoID), []string{milvusFieldBuildID},
		client.WithLimit(1),
		client.WithSearchQueryConsistencyLevel(entity.ClStrong),
	)
	if err != nil {
		return "", false, fmt.Errorf("query milvus: %w", err)
	}
	col, ok := rs.GetColumn(milvusFieldBuildID).(*entity.ColumnVarChar)
	if !ok || col.Len() == 0 {
		return "", false, nil
	}
	return col.Data()[0], true, nil
}

// Exists reports whether a finished build is published for videoID
func (m *MilvusIndex) Exists(ctx context.Context, videoID string) (bool, error) {
	_, ok, err := m.publishedBuild(ctx, videoID)
	return ok, err
}

func (m *MilvusIndex) insertRows(ctx context.Context, videoID, buildID string, ordinals []int64, texts []string, vectors [][]float32) error {
	videoIDs := make([]string, len(ordinals))
	buildIDs := make([]string, len(ordinals))
	for i := range ordinals {
		videoIDs[i] = videoID
		buildIDs[i] = buildID
	}
	_, err := m.mc.Insert(ctx, m.coll, "",
		entity.NewColumnVarChar(milvusFieldVideoID, videoIDs),
		entity.NewColumnVarChar(milvusFieldBuildID, buildIDs),
		entity.NewColumnInt64(milvusFieldOrdinal, ordinals),
		entity.NewColumnVarChar(milvusFieldText, texts),
		entity.NewColumnFloatVector(milvusFieldVector, m.embedder.Dimensions(), vectors),
	)
	return err
}

// Build writes the chunks as a new build, publishes it, then drops older builds
func (m *MilvusIndex) Build(ctx context.Context, videoID string, chunks []entities.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks to index for %s", videoID)
	}
	vectors, err := embedChunks(func(texts []string) ([][]float32, error) {
		return m.embedder.Embed(ctx, texts)
	}, chunks)
	if err != nil {
		return err
	}

	buildID := m.newID()
	ordinals := make([]int64, len(chunks))
	for i, c := range chunks {
		ordinals[i] = int64(c.Ordinal)
	}

	if err := m.insertRows(ctx, videoID, buildID, ordinals, chunkTexts(chunks), vectors); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}
	if err := m.mc.Flush(ctx, m.coll, false); err != nil {
		return fmt.Errorf("flush chunks: %w", err)
	}

	// The marker carries a unit vector; searches exclude it by ordinal.
	marker := make([]float32, m.embedder.Dimensions())
	marker[0] = 1
	if err := m.insertRows(ctx, videoID, buildID, []int64{markerOrdinal}, []string{buildID}, [][]float32{marker}); err != nil {
		return fmt.Errorf("insert marker: %w", err)
	}
	if err := m.mc.Flush(ctx, m.coll, false); err != nil {
		return fmt.Errorf("flush marker: %w", err)
	}

	// Older builds are unreachable once the new marker is flushed; a failed
	// cleanup only leaves orphan rows behind.
	_ = m.mc.Delete(ctx, m.coll, "", staleRowsFilter(videoID, buildID))
	return nil
}

// Search runs an HNSW cosine search restricted to the video
func (m *MilvusIndex) Search(ctx context.Context, videoID, query string, k int) ([]entities.Passage, error) {
	buildID, exists, err := m.publishedBuild(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", videoID, entities.ErrIndexNotFound)
	}
	if k <= 0 {
		return nil, nil
	}

	vectors, err := m.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	sp, err := entity.NewIndexHNSWSearchParam(74)
	if err != nil {
		return nil, fmt.Errorf("search param: %w", err)
	}
	res, err := m.mc.Search(ctx, m.coll, []string{}, buildChunksFilter(videoID, buildID),
		[]string{milvusFieldOrdinal, milvusFieldText},
		[]entity.Vector{entity.FloatVector(vectors[0])},
		milvusFieldVector, entity.COSINE, k, sp,
		client.WithSearchQueryConsistencyLevel(entity.ClStrong))
	if err != nil {
		return nil, fmt.Errorf("search milvus: %w", err)
	}

	var passages []entities.Passage
	for _, r := range res {
		cols := map[string]entity.Column{}
		for _, c := range r.Fields {
			cols[c.Name()] = c
		}
		for i := 0; i < r.ResultCount; i++ {
			var (
				ordinal int64
				text    string
			)
			if c, ok := cols[milvusFieldOrdinal].(*entity.ColumnInt64); ok {
				if data := c.Data(); i < len(data) {
					ordinal = data[i]
				}
			}
			if c, ok := cols[milvusFieldText].(*entity.ColumnVarChar); ok {
				if data := c.Data(); i < len(data) {
					text = data[i]
				}
			}
			passages = append(passages, entities.Passage{
				Chunk: entities.Chunk{VideoID: videoID, Ordinal: int(ordinal), Text: text},
				Score: float64(r.Scores[i]),
			})
		}
	}
	return rank(passages, k), nil
}
