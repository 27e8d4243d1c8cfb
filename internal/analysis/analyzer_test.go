package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/factlens/factlens/internal/llm"
	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/prompt"
)

// scriptedProvider returns canned responses in order.
type scriptedProvider struct {
	responses []string
	err       error
	calls     int
	lastUser  string
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	for _, m := range messages {
		if m.Role == llm.RoleUser {
			p.lastUser = m.Content
		}
	}
	if p.calls >= len(p.responses) {
		return "", errors.New("no more scripted responses")
	}
	r := p.responses[p.calls]
	p.calls++
	return r, nil
}

func mustPrompts(t *testing.T) *prompt.Manager {
	t.Helper()
	m, err := prompt.NewManager("")
	if err != nil {
		t.Fatalf("load prompts: %v", err)
	}
	return m
}

func TestAnalyzer_ExtractClaimEvidence(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"claim":"Drug X cured condition Y","evidence":["10 patients treated","complete remission"]}`,
	}}
	a := NewAnalyzer(provider, mustPrompts(t), nil)

	ce, err := a.ExtractClaimEvidence(context.Background(), "Drug X cured condition Y in 10 patients")
	if err != nil {
		t.Fatalf("ExtractClaimEvidence failed: %v", err)
	}
	if ce.Claim != "Drug X cured condition Y" {
		t.Errorf("unexpected claim: %q", ce.Claim)
	}
	if len(ce.Evidence) != 2 {
		t.Errorf("expected 2 evidence items, got %d", len(ce.Evidence))
	}
	if !strings.Contains(provider.lastUser, "Drug X cured condition Y in 10 patients") {
		t.Error("transcript was not injected into the user prompt")
	}
}

func TestAnalyzer_ExtractClaimEvidence_CodeFence(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"```json\n{\"claim\":\"c\",\"evidence\":[]}\n```",
	}}
	a := NewAnalyzer(provider, mustPrompts(t), nil)

	ce, err := a.ExtractClaimEvidence(context.Background(), "t")
	if err != nil {
		t.Fatalf("ExtractClaimEvidence failed: %v", err)
	}
	if ce.Claim != "c" {
		t.Errorf("unexpected claim: %q", ce.Claim)
	}
	if ce.Evidence == nil {
		t.Error("evidence must never be nil on success")
	}
}

func TestAnalyzer_ExtractClaimEvidence_MalformedJSON(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"the claim is that drug X works"}}
	a := NewAnalyzer(provider, mustPrompts(t), nil)

	_, err := a.ExtractClaimEvidence(context.Background(), "t")
	if err == nil {
		t.Fatal("expected parse error")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if !strings.Contains(parseErr.Raw, "drug X works") {
		t.Error("parse error must carry the raw offending text")
	}
}

func TestAnalyzer_ExtractClaimEvidence_EmptyClaim(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{"claim":"  ","evidence":["e"]}`}}
	a := NewAnalyzer(provider, mustPrompts(t), nil)

	if _, err := a.ExtractClaimEvidence(context.Background(), "t"); err == nil {
		t.Fatal("expected error for empty claim")
	}
}

func TestAnalyzer_ExtractKeywords_ObjectForm(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{"keywords":["drug X phase 3 trial","condition Y remission rate"]}`}}
	a := NewAnalyzer(provider, mustPrompts(t), nil)

	ks, err := a.ExtractKeywords(context.Background(), model.ClaimEvidence{Claim: "c", Evidence: []string{"e"}})
	if err != nil {
		t.Fatalf("ExtractKeywords failed: %v", err)
	}
	if len(ks.Keywords) != 2 {
		t.Errorf("expected 2 keywords, got %v", ks.Keywords)
	}
}

func TestAnalyzer_ExtractKeywords_BareArrayForm(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`["kw one", "", "kw two"]`}}
	a := NewAnalyzer(provider, mustPrompts(t), nil)

	ks, err := a.ExtractKeywords(context.Background(), model.ClaimEvidence{Claim: "c"})
	if err != nil {
		t.Fatalf("ExtractKeywords failed: %v", err)
	}
	if len(ks.Keywords) != 2 {
		t.Errorf("blank keywords should be dropped, got %v", ks.Keywords)
	}
}

func TestAnalyzer_ExtractKeywords_Empty(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{"keywords":[]}`}}
	a := NewAnalyzer(provider, mustPrompts(t), nil)

	if _, err := a.ExtractKeywords(context.Background(), model.ClaimEvidence{Claim: "c"}); err == nil {
		t.Fatal("expected error when no keywords are returned")
	}
}

func TestFactChecker_Verdict(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"The passages support the claim. Verdict: supported"}}
	f := NewFactChecker(provider, mustPrompts(t), nil)

	verdict, err := f.Verdict(context.Background(),
		model.ClaimEvidence{Claim: "c", Evidence: []string{"e1"}},
		[]model.SearchResult{{PaperID: "arxiv:1", ChunkText: "passage text"}})
	if err != nil {
		t.Fatalf("Verdict failed: %v", err)
	}
	if !strings.Contains(verdict, "Verdict:") {
		t.Errorf("unexpected verdict: %q", verdict)
	}
	if !strings.Contains(provider.lastUser, "arxiv:1") {
		t.Error("passages were not injected into the prompt")
	}
}

func TestFactChecker_Verdict_NoPassages(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"Verdict: insufficient evidence"}}
	f := NewFactChecker(provider, mustPrompts(t), nil)

	verdict, err := f.Verdict(context.Background(), model.ClaimEvidence{Claim: "c", Evidence: []string{}}, nil)
	if err != nil {
		t.Fatalf("Verdict failed: %v", err)
	}
	if verdict == "" {
		t.Error("verdict must still be produced with no passages")
	}
	if !strings.Contains(provider.lastUser, "no relevant passages") {
		t.Error("prompt should state that no passages were retrieved")
	}
}
