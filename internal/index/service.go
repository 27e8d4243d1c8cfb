// Package index owns chunking, embedding and the vector store: turning
// normalized documents into searchable points and back into ranked passages.
package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/factlens/factlens/internal/model"
)

// Service composes the chunker, the embedder and a Store. Construction fails
// fast when the embedder's dimensionality does not match the store's.
type Service struct {
	store     Store
	embedder  Embedder
	chunkSize int
	overlap   int
	log       *slog.Logger
}

// ServiceConfig holds chunking parameters.
type ServiceConfig struct {
	ChunkSize int
	Overlap   int
}

// NewService creates an indexing service.
func NewService(store Store, embedder Embedder, cfg ServiceConfig, log *slog.Logger) (*Service, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", cfg.ChunkSize)
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got %d", cfg.Overlap)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:     store,
		embedder:  embedder,
		chunkSize: cfg.ChunkSize,
		overlap:   cfg.Overlap,
		log:       log,
	}, nil
}

// Setup prepares the underlying collection.
func (s *Service) Setup(ctx context.Context) error {
	return s.store.Setup(ctx)
}

// IndexDocuments chunks every document body, embeds each document's chunks
// in one batched call, and uploads the resulting points. It returns the
// number of points uploaded, which always equals the total chunk count.
// Documents with empty bodies contribute nothing.
func (s *Service) IndexDocuments(ctx context.Context, docs []model.Document) (int, error) {
	var points []Point
	for _, doc := range docs {
		chunks := Chunk(doc.Body, s.chunkSize, s.overlap)
		if len(chunks) == 0 {
			s.log.Debug("document has no chunks", "id", doc.ID)
			continue
		}

		vectors, err := s.embedder.EmbedBatch(ctx, chunks)
		if err != nil {
			return 0, fmt.Errorf("embed document %s: %w", doc.ID, err)
		}
		if len(vectors) != len(chunks) {
			return 0, fmt.Errorf("embed document %s: %d chunks but %d vectors", doc.ID, len(chunks), len(vectors))
		}

		for i, chunk := range chunks {
			points = append(points, Point{
				ID:     uuid.NewString(),
				Vector: vectors[i],
				Payload: Payload{
					PaperID:   doc.ID,
					Title:     doc.Title,
					Date:      doc.Date,
					ChunkText: chunk,
				},
			})
		}
	}

	if err := s.store.Upload(ctx, points); err != nil {
		return 0, err
	}

	s.log.Info("indexed documents", "documents", len(docs), "points", len(points))
	return len(points), nil
}

// Count reports the collection's point count.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
