// Package pipeline runs the end-to-end claim verification flow: a
// video is transcribed, its central claim extracted, a supporting
// corpus collected and indexed, and a verdict produced against the
// retrieved passages.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/factlens/factlens/internal/model"
)

// Stage labels emitted through the progress callback
const (
	StageValidate   = "validate"
	StageTranscribe = "transcribe"
	StageAnalyze    = "analyze"
	StageCollect    = "collect"
	StageIndex      = "index"
	StageRetrieve   = "retrieve"
	StageVerdict    = "verdict"
)

// Transcriber produces a transcript for a video URL
type Transcriber interface {
	Transcribe(ctx context.Context, videoURL string) (string, error)
}

// Analyzer extracts structured facts from free text
type Analyzer interface {
	ExtractClaimEvidence(ctx context.Context, transcript string) (model.ClaimEvidence, error)
	ExtractKeywords(ctx context.Context, ce model.ClaimEvidence) (model.KeywordSet, error)
}

// Verdictor judges a claim against retrieved passages
type Verdictor interface {
	Verdict(ctx context.Context, ce model.ClaimEvidence, results []model.SearchResult) (string, error)
}

// Collector gathers raw records for keyword queries
type Collector interface {
	Collect(ctx context.Context, queries []string) ([]model.RawRecord, error)
}

// Indexer prepares the vector collection and fills it with documents
type Indexer interface {
	Setup(ctx context.Context) error
	IndexDocuments(ctx context.Context, docs []model.Document) (int, error)
}

// Retriever finds the passages most similar to the claim
type Retriever interface {
	Retrieve(ctx context.Context, ce model.ClaimEvidence, limit int) ([]model.SearchResult, error)
}

// Normalizer maps raw records onto the uniform Document shape
type Normalizer func(records []model.RawRecord) []model.Document

// Progress is invoked after each completed stage with a short status
// label and a human-readable detail line
type Progress func(stage, detail string)

// Result holds everything a completed run produced
type Result struct {
	VideoURL      string
	Transcript    string
	ClaimEvidence model.ClaimEvidence
	Keywords      model.KeywordSet
	Documents     []model.Document
	PointsIndexed int
	Passages      []model.SearchResult
	Verdict       string
	Elapsed       time.Duration
}

// Pipeline wires the verification stages together
type Pipeline struct {
	transcriber Transcriber
	analyzer    Analyzer
	collector   Collector
	normalize   Normalizer
	indexer     Indexer
	retriever   Retriever
	verdictor   Verdictor
	limit       int
	progress    Progress
	log         *slog.Logger
}

// Options configures a Pipeline
type Options struct {
	Transcriber Transcriber
	Analyzer    Analyzer
	Collector   Collector
	Normalizer  Normalizer
	Indexer     Indexer
	Retriever   Retriever
	Verdictor   Verdictor
	SearchLimit int
	Progress    Progress
	Logger      *slog.Logger
}

// New creates a pipeline from the given collaborators
func New(opts Options) (*Pipeline, error) {
	switch {
	case opts.Transcriber == nil:
		return nil, fmt.Errorf("transcriber is required")
	case opts.Analyzer == nil:
		return nil, fmt.Errorf("analyzer is required")
	case opts.Collector == nil:
		return nil, fmt.Errorf("collector is required")
	case opts.Normalizer == nil:
		return nil, fmt.Errorf("normalizer is required")
	case opts.Indexer == nil:
		return nil, fmt.Errorf("indexer is required")
	case opts.Retriever == nil:
		return nil, fmt.Errorf("retriever is required")
	case opts.Verdictor == nil:
		return nil, fmt.Errorf("verdictor is required")
	}

	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 5
	}
	if opts.Progress == nil {
		opts.Progress = func(string, string) {}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Pipeline{
		transcriber: opts.Transcriber,
		analyzer:    opts.Analyzer,
		collector:   opts.Collector,
		normalize:   opts.Normalizer,
		indexer:     opts.Indexer,
		retriever:   opts.Retriever,
		verdictor:   opts.Verdictor,
		limit:       opts.SearchLimit,
		progress:    opts.Progress,
		log:         opts.Logger,
	}, nil
}

// Run executes the six verification stages in order. Any stage error
// terminates the run; later stages are never attempted.
func (p *Pipeline) Run(ctx context.Context, videoURL string) (*Result, error) {
	if videoURL == "" {
		return nil, p.fail(StageValidate, fmt.Errorf("no video URL supplied"))
	}

	start := time.Now()
	result := &Result{VideoURL: videoURL}

	// 1. Transcript
	transcript, err := p.transcriber.Transcribe(ctx, videoURL)
	if err != nil {
		return nil, p.fail(StageTranscribe, err)
	}
	result.Transcript = transcript
	p.progress(StageTranscribe, fmt.Sprintf("transcript extracted (%d chars)", len(transcript)))

	// 2. Claim/evidence, then keywords
	ce, err := p.analyzer.ExtractClaimEvidence(ctx, transcript)
	if err != nil {
		return nil, p.fail(StageAnalyze, err)
	}
	keywords, err := p.analyzer.ExtractKeywords(ctx, ce)
	if err != nil {
		return nil, p.fail(StageAnalyze, err)
	}
	result.ClaimEvidence = ce
	result.Keywords = keywords
	p.progress(StageAnalyze, fmt.Sprintf("claim extracted, %d keywords", len(keywords.Keywords)))

	// 3. Corpus collection
	records, err := p.collector.Collect(ctx, keywords.Keywords)
	if err != nil {
		return nil, p.fail(StageCollect, err)
	}
	docs := p.normalize(records)
	result.Documents = docs
	p.progress(StageCollect, fmt.Sprintf("%d documents collected", len(docs)))

	// 4. Index: setup is fatal on failure, nothing downstream can run
	if err := p.indexer.Setup(ctx); err != nil {
		return nil, p.fail(StageIndex, err)
	}
	points, err := p.indexer.IndexDocuments(ctx, docs)
	if err != nil {
		return nil, p.fail(StageIndex, err)
	}
	result.PointsIndexed = points
	p.progress(StageIndex, fmt.Sprintf("%d points indexed", points))

	// 5. Retrieval
	passages, err := p.retriever.Retrieve(ctx, ce, p.limit)
	if err != nil {
		return nil, p.fail(StageRetrieve, err)
	}
	result.Passages = passages
	p.progress(StageRetrieve, fmt.Sprintf("%d passages retrieved", len(passages)))

	// 6. Verdict
	verdict, err := p.verdictor.Verdict(ctx, ce, passages)
	if err != nil {
		return nil, p.fail(StageVerdict, err)
	}
	result.Verdict = verdict
	result.Elapsed = time.Since(start)
	p.progress(StageVerdict, verdict)

	p.log.Info("pipeline run complete",
		"url", videoURL, "documents", len(docs),
		"points", points, "elapsed", result.Elapsed)

	return result, nil
}

func (p *Pipeline) fail(stage string, err error) error {
	wrapped := fmt.Errorf("%s: %w", stage, err)
	p.progress(stage, "failed: "+err.Error())
	p.log.Error("pipeline stage failed", "stage", stage, "error", err)
	return wrapped
}
