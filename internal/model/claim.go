package model

import "strings"

// ClaimEvidence is the central assertion extracted from a transcript together
// with its supporting statements. It is produced once by the analysis stage
// and treated as immutable afterwards.
type ClaimEvidence struct {
	Claim    string   `json:"claim"`
	Evidence []string `json:"evidence"`
}

// CombinedText joins the claim and its evidence into a single block of text,
// the form fed to keyword extraction and query embedding.
func (ce ClaimEvidence) CombinedText() string {
	evidence := strings.Join(ce.Evidence, " ")
	return strings.TrimSpace(ce.Claim + "\n---\n" + evidence)
}

// KeywordSet holds the search phrases derived from a claim/evidence pair.
// One literature query is issued per keyword.
type KeywordSet struct {
	Keywords []string `json:"keywords"`
}
