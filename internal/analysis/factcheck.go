package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/factlens/factlens/internal/llm"
	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/prompt"
)

// FactChecker produces the final verdict for a claim given the retrieved
// passages. The verdict is free text and is never parsed further.
type FactChecker struct {
	provider llm.Provider
	prompts  *prompt.Manager
	log      *slog.Logger
}

// NewFactChecker creates a new FactChecker.
func NewFactChecker(provider llm.Provider, prompts *prompt.Manager, log *slog.Logger) *FactChecker {
	if log == nil {
		log = slog.Default()
	}
	return &FactChecker{provider: provider, prompts: prompts, log: log}
}

// Verdict asks the reasoning model to adjudicate the claim against the
// retrieved passages. An empty passage list is allowed; the prompt then says
// so explicitly instead of pretending evidence exists.
func (f *FactChecker) Verdict(ctx context.Context, ce model.ClaimEvidence, results []model.SearchResult) (string, error) {
	p, err := f.prompts.Get("factcheck")
	if err != nil {
		return "", err
	}

	system, user := p.Render(map[string]string{
		"claim":    ce.Claim,
		"evidence": formatEvidence(ce.Evidence),
		"passages": formatPassages(results),
	})

	verdict, err := f.provider.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	})
	if err != nil {
		return "", fmt.Errorf("verdict: %w", err)
	}
	if strings.TrimSpace(verdict) == "" {
		return "", fmt.Errorf("verdict: empty response from %s", f.provider.Name())
	}

	f.log.Debug("verdict produced", "passages", len(results))
	return verdict, nil
}

func formatEvidence(evidence []string) string {
	if len(evidence) == 0 {
		return "(none stated)"
	}
	var b strings.Builder
	for _, e := range evidence {
		fmt.Fprintf(&b, "- %s\n", e)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPassages(results []model.SearchResult) string {
	if len(results) == 0 {
		return "(no relevant passages were retrieved)"
	}
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] paper %s:\n%s\n\n", i+1, r.PaperID, r.ChunkText)
	}
	return strings.TrimRight(b.String(), "\n")
}
