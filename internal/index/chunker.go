package index

// Chunk splits text into segments of at most size runes, preferring to break
// at paragraph, then sentence, then word boundaries. Consecutive chunks share
// exactly overlap runes, and every chunk is a verbatim substring of the
// input, so the original text can be reassembled by dropping the leading
// overlap of each chunk after the first.
//
// Empty input yields nil. The same input and parameters always yield the
// same chunks.
func Chunk(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			return chunks
		}

		// The cut must land beyond the overlap region or the next chunk
		// would not advance.
		cut := breakPoint(runes, start+overlap+1, end)
		chunks = append(chunks, string(runes[start:cut]))
		start = cut - overlap
	}
}

// breakPoint returns the best cut position in (lo, hi], scanning backwards
// for a paragraph break, then a sentence end, then any whitespace. The cut
// falls just after the boundary rune so separators stay with the preceding
// chunk. Falls back to the hard limit hi when no boundary exists.
func breakPoint(runes []rune, lo, hi int) int {
	for i := hi; i > lo; i-- {
		if runes[i-1] == '\n' && i >= 2 && runes[i-2] == '\n' {
			return i
		}
	}
	for i := hi; i > lo; i-- {
		switch runes[i-1] {
		case '.', '!', '?', '\n':
			return i
		}
	}
	for i := hi; i > lo; i-- {
		if runes[i-1] == ' ' || runes[i-1] == '\t' {
			return i
		}
	}
	return hi
}

// Reassemble is the inverse of Chunk: it joins chunks produced with the
// given overlap back into the original text.
func Reassemble(chunks []string, overlap int) string {
	if len(chunks) == 0 {
		return ""
	}
	out := []rune(chunks[0])
	for _, c := range chunks[1:] {
		runes := []rune(c)
		if overlap < len(runes) {
			out = append(out, runes[overlap:]...)
		}
	}
	return string(out)
}
