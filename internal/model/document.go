package model

// RawRecord is a document record as returned by a collector, before
// normalization. Collectors disagree on key casing ("id" vs "Id" vs
// "entry_id"), so the shape stays dynamic until the normalizer reconciles it.
type RawRecord map[string]any

// Document is the canonical shape every collected paper is normalized to.
// Date is always an ISO date string, never a raw timestamp; Source is always
// lowercase. Documents live only for the duration of one pipeline run; what
// persists is the chunks derived from them.
type Document struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Body   string `json:"body"`
	Source string `json:"source"`
}

// SearchResult is one retrieved passage, reduced to the fields the verdict
// stage needs. Sequences of SearchResult are ordered by descending similarity.
type SearchResult struct {
	PaperID   string `json:"id"`
	ChunkText string `json:"chunk_text"`
}
