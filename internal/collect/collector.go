// Package collect gathers candidate documents from scholarly archives
// and normalizes them into the uniform Document shape the indexer
// expects.
package collect

import (
	"context"

	"github.com/factlens/factlens/internal/model"
)

// Collector searches an upstream archive for documents matching the
// given keyword queries. Records come back in the archive's own field
// naming; Normalize reconciles them.
type Collector interface {
	// Name returns the source identifier (e.g. "arxiv")
	Name() string

	// Collect runs every query against the archive and returns the
	// union of raw records. A failed query is logged and skipped so
	// one flaky keyword does not sink the whole collection.
	Collect(ctx context.Context, queries []string) ([]model.RawRecord, error)
}
