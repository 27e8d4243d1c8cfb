package index

import "context"

// Embedder maps text to fixed-length vectors. Batch embedding preserves
// input order; all chunks of a document go through a single batched call.
type Embedder interface {
	// EmbedBatch embeds many texts in one call, preserving order.
	// An empty input returns an empty result without a network call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query text.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the fixed vector length this embedder produces.
	// It must equal the vector store's configured vector size.
	Dimensions() int
}
