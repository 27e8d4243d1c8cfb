package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/factlens/factlens/internal/model"
)

// QdrantStore is a REST client to Qdrant owning one named collection with
// cosine distance.
type QdrantStore struct {
	url        string
	apiKey     string
	collection string
	vectorSize int
	batchSize  int
	client     *http.Client
	log        *slog.Logger

	// setupMu serializes in-process Setup calls; the 409-tolerant create
	// below covers races with other processes.
	setupMu sync.Mutex
}

// QdrantConfig configures the store.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	VectorSize int
	BatchSize  int
	Timeout    time.Duration
}

// DefaultBatchSize bounds how many points travel in one upsert call.
const DefaultBatchSize = 500

// NewQdrantStore creates a new store.
func NewQdrantStore(cfg QdrantConfig, log *slog.Logger) (*QdrantStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant URL is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant collection name is required")
	}
	if cfg.VectorSize <= 0 {
		return nil, fmt.Errorf("qdrant vector size must be positive, got %d", cfg.VectorSize)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	return &QdrantStore{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		vectorSize: cfg.VectorSize,
		batchSize:  cfg.BatchSize,
		client:     &http.Client{Timeout: timeout},
		log:        log,
	}, nil
}

// Setup creates the collection if it is missing. Calling it again is a
// log-only no-op; a concurrent create racing from another process is
// absorbed by treating conflict responses as success.
func (s *QdrantStore) Setup(ctx context.Context) error {
	s.setupMu.Lock()
	defer s.setupMu.Unlock()

	exists, err := s.collectionExists(ctx)
	if err != nil {
		return fmt.Errorf("setup collection %q: %w", s.collection, err)
	}
	if exists {
		s.log.Info("using existing collection", "collection", s.collection)
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.vectorSize,
			"distance": "Cosine",
		},
	}
	status, err := s.doJSON(ctx, http.MethodPut, s.collectionURL(""), body, nil)
	if err != nil {
		return fmt.Errorf("setup collection %q: create: %w", s.collection, err)
	}
	if status == http.StatusConflict {
		// Someone else created it between our check and create.
		s.log.Info("collection created concurrently", "collection", s.collection)
		return nil
	}
	if status >= 300 {
		return fmt.Errorf("setup collection %q: create returned HTTP %d", s.collection, status)
	}

	s.log.Info("collection created", "collection", s.collection, "vector_size", s.vectorSize)
	return nil
}

// Upload inserts points in batches of batchSize, each with wait=true so a
// failure in batch k leaves batches 1..k-1 durably committed.
func (s *QdrantStore) Upload(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		s.log.Debug("no points to upload")
		return nil
	}

	total := len(points)
	batches := (total + s.batchSize - 1) / s.batchSize
	for i := 0; i < total; i += s.batchSize {
		end := i + s.batchSize
		if end > total {
			end = total
		}
		body := map[string]any{"points": points[i:end]}

		status, err := s.doJSON(ctx, http.MethodPut, s.collectionURL("/points?wait=true"), body, nil)
		if err == nil && status >= 300 {
			err = fmt.Errorf("HTTP %d", status)
		}
		if err != nil {
			batch := i/s.batchSize + 1
			return fmt.Errorf("upload to collection %q: batch %d/%d failed, %d of %d points committed: %w",
				s.collection, batch, batches, i, total, err)
		}
	}

	s.log.Info("uploaded points", "collection", s.collection, "points", total, "batches", batches)
	return nil
}

// Search returns up to limit nearest points ordered by descending score.
func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit int) ([]model.SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload Payload `json:"payload"`
		} `json:"result"`
	}
	status, err := s.doJSON(ctx, http.MethodPost, s.collectionURL("/points/search"), req, &resp)
	if err == nil && status >= 300 {
		err = fmt.Errorf("HTTP %d", status)
	}
	if err != nil {
		return nil, fmt.Errorf("search collection %q: %w", s.collection, err)
	}

	results := make([]model.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, model.SearchResult{
			PaperID:   r.Payload.PaperID,
			ChunkText: r.Payload.ChunkText,
		})
	}

	s.log.Debug("search complete", "collection", s.collection, "results", len(results))
	return results, nil
}

// Count returns the exact number of points in the collection.
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	status, err := s.doJSON(ctx, http.MethodPost, s.collectionURL("/points/count"), map[string]any{"exact": true}, &resp)
	if err == nil && status >= 300 {
		err = fmt.Errorf("HTTP %d", status)
	}
	if err != nil {
		return 0, fmt.Errorf("count collection %q: %w", s.collection, err)
	}
	return resp.Result.Count, nil
}

// Drop deletes the collection. Dropping a missing collection is not an error.
func (s *QdrantStore) Drop(ctx context.Context) error {
	status, err := s.doJSON(ctx, http.MethodDelete, s.collectionURL(""), nil, nil)
	if err != nil {
		return fmt.Errorf("drop collection %q: %w", s.collection, err)
	}
	if status >= 300 && status != http.StatusNotFound {
		return fmt.Errorf("drop collection %q: HTTP %d", s.collection, status)
	}
	s.log.Info("collection dropped", "collection", s.collection)
	return nil
}

func (s *QdrantStore) collectionExists(ctx context.Context) (bool, error) {
	status, err := s.doJSON(ctx, http.MethodGet, s.collectionURL(""), nil, nil)
	if err != nil {
		return false, err
	}
	switch {
	case status == http.StatusOK:
		return true, nil
	case status == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("existence check returned HTTP %d", status)
	}
}

func (s *QdrantStore) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.url, s.collection, suffix)
}

// doJSON performs one request and decodes the response into out when
// provided. The HTTP status is returned for the caller to interpret.
func (s *QdrantStore) doJSON(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
