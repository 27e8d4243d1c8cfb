package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/factlens/factlens/internal/model"
)

// Retriever turns a claim/evidence pair into a query vector and returns the
// most similar indexed passages.
type Retriever struct {
	embedder Embedder
	store    Store
	log      *slog.Logger
}

// NewRetriever creates a retriever over the given embedder and store.
func NewRetriever(embedder Embedder, store Store, log *slog.Logger) *Retriever {
	if log == nil {
		log = slog.Default()
	}
	return &Retriever{embedder: embedder, store: store, log: log}
}

// Retrieve embeds the combined claim/evidence text once and searches the
// store. Empty evidence reduces the query to the claim alone.
func (r *Retriever) Retrieve(ctx context.Context, ce model.ClaimEvidence, limit int) ([]model.SearchResult, error) {
	query := ce.CombinedText()
	if query == "" {
		return nil, fmt.Errorf("retrieve: empty claim/evidence query")
	}

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.store.Search(ctx, vector, limit)
	if err != nil {
		return nil, err
	}

	r.log.Debug("retrieved passages", "limit", limit, "results", len(results))
	return results, nil
}
