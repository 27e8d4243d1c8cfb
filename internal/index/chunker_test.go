package index

import (
	"strings"
	"testing"
)

func TestChunk_Empty(t *testing.T) {
	if got := Chunk("", 100, 10); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestChunk_ShortInput(t *testing.T) {
	chunks := Chunk("short text", 100, 10)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("expected single chunk, got %v", chunks)
	}
}

func TestChunk_MaxSize(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet. ", 200)
	size, overlap := 150, 20

	chunks := Chunk(text, size, overlap)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > size {
			t.Errorf("chunk %d has %d runes, exceeds size %d", i, n, size)
		}
	}
}

func TestChunk_RoundTrip(t *testing.T) {
	texts := []string{
		strings.Repeat("First paragraph sentence one. Sentence two follows here.\n\nSecond paragraph starts. ", 40),
		strings.Repeat("word ", 500),
		strings.Repeat("x", 1000), // no boundaries at all
		"exact\n\nparagraph\n\nbreaks\n\n" + strings.Repeat("filler text with spaces. ", 60),
	}

	for _, text := range texts {
		for _, p := range []struct{ size, overlap int }{{100, 0}, {100, 10}, {64, 31}, {37, 5}} {
			chunks := Chunk(text, p.size, p.overlap)
			got := Reassemble(chunks, p.overlap)
			if got != text {
				t.Errorf("round trip failed for size=%d overlap=%d (got %d runes, want %d)",
					p.size, p.overlap, len([]rune(got)), len([]rune(text)))
			}
		}
	}
}

func TestChunk_OverlapShared(t *testing.T) {
	text := strings.Repeat("some sentence here. ", 50)
	overlap := 15

	chunks := Chunk(text, 120, overlap)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		cur := []rune(chunks[i])
		tail := string(prev[len(prev)-overlap:])
		head := string(cur[:overlap])
		if tail != head {
			t.Errorf("chunks %d/%d do not share %d runes: %q vs %q", i-1, i, overlap, tail, head)
		}
	}
}

func TestChunk_Deterministic(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta. ", 100)
	a := Chunk(text, 90, 12)
	b := Chunk(text, 90, 12)
	if len(a) != len(b) {
		t.Fatalf("nondeterministic chunk count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestChunk_PrefersSentenceBoundary(t *testing.T) {
	// A sentence ends comfortably inside the window; the cut should land
	// right after it rather than mid-word at the hard limit.
	text := "This is the first sentence. This is the second sentence that keeps going for a while longer."
	chunks := Chunk(text, 40, 0)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %v", chunks)
	}
	if !strings.HasSuffix(chunks[0], ".") && !strings.HasSuffix(chunks[0], ". ") {
		t.Errorf("first chunk should end at a sentence boundary, got %q", chunks[0])
	}
}

func TestChunk_RuneSafe(t *testing.T) {
	text := strings.Repeat("한국어 텍스트와 mixed content. ", 60)
	chunks := Chunk(text, 50, 8)
	if got := Reassemble(chunks, 8); got != text {
		t.Error("round trip failed for multi-byte text")
	}
}
