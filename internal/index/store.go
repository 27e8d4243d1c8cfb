package index

import (
	"context"

	"github.com/factlens/factlens/internal/model"
)

// Payload is the metadata stored alongside each vector. PaperID ties a chunk
// back to its source document; one document maps to many points.
type Payload struct {
	PaperID   string `json:"paper_id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	ChunkText string `json:"chunk_text"`
}

// Point is one vector index record. The ID is generated fresh per point and
// carries no document identity.
type Point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// Store persists points in a named collection and supports similarity
// search. Implementations own all points once Upload succeeds.
type Store interface {
	// Setup creates the collection if it does not exist. Idempotent and
	// safe under concurrent first-time creation.
	Setup(ctx context.Context) error

	// Upload inserts points in batches. An empty input is a no-op. A batch
	// failure leaves earlier batches committed and is surfaced as an error.
	Upload(ctx context.Context, points []Point) error

	// Search returns up to limit nearest points by cosine similarity,
	// ordered by descending score. Fewer points than limit is not an error.
	Search(ctx context.Context, vector []float32, limit int) ([]model.SearchResult, error)

	// Count returns the number of points in the collection, letting callers
	// detect a partially uploaded corpus.
	Count(ctx context.Context) (int, error)
}
