package index

import (
	"context"
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factlens/factlens/internal/model"
)

// hashEmbedder produces deterministic vectors from text content.
type hashEmbedder struct {
	dims  int
	calls int
}

func (e *hashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	e.calls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *hashEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	return e.vector(text), nil
}

func (e *hashEmbedder) Dimensions() int { return e.dims }

func (e *hashEmbedder) vector(text string) []float32 {
	v := make([]float32, e.dims)
	h := fnv.New32a()
	for i := range v {
		h.Reset()
		_, _ = h.Write([]byte(text))
		_, _ = h.Write([]byte{byte(i)})
		v[i] = float32(h.Sum32()%1000)/1000 + 0.001
	}
	return v
}

func newTestService(t *testing.T, chunkSize, overlap int) (*Service, *MemoryStore, *hashEmbedder) {
	t.Helper()
	store := NewMemoryStore(8)
	embedder := &hashEmbedder{dims: 8}
	svc, err := NewService(store, embedder, ServiceConfig{ChunkSize: chunkSize, Overlap: overlap}, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Setup(context.Background()))
	return svc, store, embedder
}

func TestService_IndexDocuments_PointCountEqualsChunkCount(t *testing.T) {
	svc, store, _ := newTestService(t, 50, 5)

	docs := []model.Document{
		{ID: "a", Title: "A", Date: "2024-01-01", Body: "one sentence. another sentence follows here. and a third one for good measure, definitely long enough."},
		{ID: "b", Title: "B", Date: "2024-02-02", Body: "short body."},
		{ID: "c", Title: "C", Date: "2024-03-03", Body: ""}, // contributes nothing
	}

	wantChunks := 0
	for _, d := range docs {
		wantChunks += len(Chunk(d.Body, 50, 5))
	}

	n, err := svc.IndexDocuments(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, wantChunks, n)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, wantChunks, count)
}

func TestService_IndexDocuments_Empty(t *testing.T) {
	svc, store, embedder := newTestService(t, 50, 5)

	n, err := svc.IndexDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, embedder.calls, "no documents means no embedding calls")

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestService_IndexDocuments_OneBatchPerDocument(t *testing.T) {
	svc, _, embedder := newTestService(t, 30, 3)

	docs := []model.Document{
		{ID: "a", Body: "a long enough body that certainly splits into several chunks over here."},
		{ID: "b", Body: "another long enough body that also splits into several distinct chunks."},
	}

	_, err := svc.IndexDocuments(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 2, embedder.calls, "all chunks of a document go through one batched call")
}

func TestService_IndexDocuments_FreshPointIDs(t *testing.T) {
	svc, store, _ := newTestService(t, 40, 0)

	doc := model.Document{ID: "same", Body: "body text that will be chunked into multiple pieces right here, long enough for two."}
	_, err := svc.IndexDocuments(context.Background(), []model.Document{doc})
	require.NoError(t, err)
	_, err = svc.IndexDocuments(context.Background(), []model.Document{doc})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, p := range store.points {
		assert.False(t, seen[p.ID], "point IDs must be unique: %s", p.ID)
		seen[p.ID] = true
		assert.Equal(t, "same", p.Payload.PaperID)
	}
}

func TestMemoryStore_Search_LimitAndOrder(t *testing.T) {
	store := NewMemoryStore(2)
	require.NoError(t, store.Setup(context.Background()))

	points := []Point{
		{ID: "1", Vector: []float32{1, 0}, Payload: Payload{PaperID: "exact", ChunkText: "exact"}},
		{ID: "2", Vector: []float32{0.9, 0.1}, Payload: Payload{PaperID: "close", ChunkText: "close"}},
		{ID: "3", Vector: []float32{0, 1}, Payload: Payload{PaperID: "far", ChunkText: "far"}},
	}
	require.NoError(t, store.Upload(context.Background(), points))

	results, err := store.Search(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].PaperID)
	assert.Equal(t, "close", results[1].PaperID)

	// Limit above point count returns all available, no error.
	results, err = store.Search(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestRetriever_Retrieve(t *testing.T) {
	svc, store, embedder := newTestService(t, 50, 5)

	docs := []model.Document{
		{ID: "p1", Body: "vitamin D supplementation reduced fracture risk in elderly patients over two years."},
	}
	_, err := svc.IndexDocuments(context.Background(), docs)
	require.NoError(t, err)

	retriever := NewRetriever(embedder, store, nil)
	ce := model.ClaimEvidence{Claim: "vitamin D prevents fractures", Evidence: []string{"elderly study"}}

	results, err := retriever.Retrieve(context.Background(), ce, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
	assert.Equal(t, "p1", results[0].PaperID)
}

func TestRetriever_Retrieve_EmptyEvidence(t *testing.T) {
	store := NewMemoryStore(8)
	require.NoError(t, store.Setup(context.Background()))
	retriever := NewRetriever(&hashEmbedder{dims: 8}, store, nil)

	results, err := retriever.Retrieve(context.Background(), model.ClaimEvidence{Claim: "claim only"}, 5)
	require.NoError(t, err)
	assert.Empty(t, results, "empty index yields empty results, not an error")
}
