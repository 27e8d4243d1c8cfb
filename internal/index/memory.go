package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/factlens/factlens/internal/model"
)

// MemoryStore is an in-memory Store using brute-force cosine similarity.
// It backs tests and offline runs; semantics match QdrantStore.
type MemoryStore struct {
	mu         sync.RWMutex
	vectorSize int
	ready      bool
	points     []Point
}

// NewMemoryStore creates a store for vectors of the given size.
func NewMemoryStore(vectorSize int) *MemoryStore {
	return &MemoryStore{vectorSize: vectorSize}
}

// Setup marks the store ready. Idempotent; existing points survive repeated
// calls, mirroring the no-op behavior of a real collection.
func (s *MemoryStore) Setup(ctx context.Context) error {
	if s.vectorSize <= 0 {
		return fmt.Errorf("setup memory store: invalid vector size %d", s.vectorSize)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	return nil
}

// Upload appends points, verifying dimensions.
func (s *MemoryStore) Upload(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return fmt.Errorf("upload: memory store not set up")
	}
	for _, p := range points {
		if len(p.Vector) != s.vectorSize {
			return fmt.Errorf("upload: point %s has %d dimensions, expected %d", p.ID, len(p.Vector), s.vectorSize)
		}
	}
	s.points = append(s.points, points...)
	return nil
}

// Search returns min(limit, count) results ordered by descending cosine
// similarity.
func (s *MemoryStore) Search(ctx context.Context, vector []float32, limit int) ([]model.SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		score float64
		point Point
	}
	scores := make([]scored, len(s.points))
	for i, p := range s.points {
		scores[i] = scored{score: cosine(p.Vector, vector), point: p}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if limit > len(scores) {
		limit = len(scores)
	}
	results := make([]model.SearchResult, 0, limit)
	for _, sc := range scores[:limit] {
		results = append(results, model.SearchResult{
			PaperID:   sc.point.Payload.PaperID,
			ChunkText: sc.point.Payload.ChunkText,
		})
	}
	return results, nil
}

// Count returns the number of stored points.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points), nil
}

// Drop discards all points.
func (s *MemoryStore) Drop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = nil
	s.ready = false
	return nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
