// Package analysis turns reasoning-model output into the canonical claim,
// keyword and verdict shapes. The model's responses are untyped strings at
// this boundary; everything is schema-checked here before the rest of the
// pipeline sees it.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/factlens/factlens/internal/llm"
	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/prompt"
)

// ParseError reports reasoning output that did not match the expected schema.
// Raw carries the offending text for diagnosis.
type ParseError struct {
	What string
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s from LLM response: %v (raw: %q)", e.What, e.Err, e.Raw)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Analyzer extracts claims, evidence and keywords from transcripts.
type Analyzer struct {
	provider llm.Provider
	prompts  *prompt.Manager
	log      *slog.Logger
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(provider llm.Provider, prompts *prompt.Manager, log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{provider: provider, prompts: prompts, log: log}
}

// ExtractClaimEvidence asks the reasoning model for the central claim and its
// supporting evidence. The response must be a JSON object with a non-empty
// claim; evidence is normalized to a non-nil slice.
func (a *Analyzer) ExtractClaimEvidence(ctx context.Context, transcript string) (model.ClaimEvidence, error) {
	var ce model.ClaimEvidence

	p, err := a.prompts.Get("claim_evidence")
	if err != nil {
		return ce, err
	}
	system, user := p.Render(map[string]string{"transcript": transcript})

	response, err := a.provider.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	})
	if err != nil {
		return ce, fmt.Errorf("claim/evidence extraction: %w", err)
	}

	raw := stripCodeFence(response)
	if err := json.Unmarshal([]byte(raw), &ce); err != nil {
		return model.ClaimEvidence{}, &ParseError{What: "claim/evidence", Raw: response, Err: err}
	}
	if strings.TrimSpace(ce.Claim) == "" {
		return model.ClaimEvidence{}, &ParseError{What: "claim/evidence", Raw: response, Err: fmt.Errorf("empty claim")}
	}
	if ce.Evidence == nil {
		ce.Evidence = []string{}
	}

	a.log.Debug("extracted claim/evidence", "claim", ce.Claim, "evidence_count", len(ce.Evidence))
	return ce, nil
}

// ExtractKeywords derives literature search phrases from a claim/evidence
// pair. The model may answer either {"keywords": [...]} or a bare JSON
// array; both are accepted, but at least one keyword is required.
func (a *Analyzer) ExtractKeywords(ctx context.Context, ce model.ClaimEvidence) (model.KeywordSet, error) {
	var ks model.KeywordSet

	p, err := a.prompts.Get("keywords")
	if err != nil {
		return ks, err
	}
	system, user := p.Render(map[string]string{"combined_text": ce.CombinedText()})

	response, err := a.provider.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	})
	if err != nil {
		return ks, fmt.Errorf("keyword extraction: %w", err)
	}

	raw := stripCodeFence(response)
	if err := json.Unmarshal([]byte(raw), &ks); err != nil {
		// Bare array form: ["kw one", "kw two"]
		var list []string
		if err2 := json.Unmarshal([]byte(raw), &list); err2 != nil {
			return model.KeywordSet{}, &ParseError{What: "keywords", Raw: response, Err: err}
		}
		ks.Keywords = list
	}

	ks.Keywords = cleanKeywords(ks.Keywords)
	if len(ks.Keywords) == 0 {
		return model.KeywordSet{}, &ParseError{What: "keywords", Raw: response, Err: fmt.Errorf("no keywords returned")}
	}

	a.log.Debug("extracted keywords", "count", len(ks.Keywords))
	return ks, nil
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, kw := range in {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// stripCodeFence unwraps ```json ... ``` fences some models insist on.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
