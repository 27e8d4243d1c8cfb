package collect

import (
	"fmt"
	"strings"
	"time"

	"github.com/factlens/factlens/internal/model"
)

// Candidate key spellings per field, tried in priority order. Each
// archive names its fields differently and the normalizer absorbs
// that variance instead of every collector agreeing on one casing.
var (
	idKeys     = []string{"id", "Id", "entry_id", "ID"}
	titleKeys  = []string{"Title", "title"}
	dateKeys   = []string{"date", "Date", "published"}
	bodyKeys   = []string{"Body", "body"}
	sourceKeys = []string{"source", "Source"}
)

// Normalize maps raw archive records onto the uniform Document shape.
// The output always has the same length as the input: a record with
// missing fields degrades to defaults, it is never dropped.
func Normalize(records []model.RawRecord) []model.Document {
	docs := make([]model.Document, 0, len(records))
	for _, rec := range records {
		source := firstString(rec, sourceKeys)
		if source == "" {
			source = "unknown"
		}

		docs = append(docs, model.Document{
			ID:     firstString(rec, idKeys),
			Title:  firstString(rec, titleKeys),
			Date:   normalizeDate(firstValue(rec, dateKeys)),
			Body:   firstString(rec, bodyKeys),
			Source: strings.ToLower(source),
		})
	}
	return docs
}

// firstValue returns the value of the first candidate key present
// with a non-empty value.
func firstValue(rec model.RawRecord, keys []string) any {
	for _, key := range keys {
		if v, ok := rec[key]; ok && v != nil {
			if s, isStr := v.(string); isStr && s == "" {
				continue
			}
			return v
		}
	}
	return nil
}

func firstString(rec model.RawRecord, keys []string) string {
	v := firstValue(rec, keys)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// normalizeDate reduces a date value to its YYYY-MM-DD form. Timestamp
// values keep only the date portion; plain strings pass through as-is.
func normalizeDate(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case time.Time:
		return d.Format("2006-01-02")
	case string:
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			return t.Format("2006-01-02")
		}
		return d
	default:
		return fmt.Sprintf("%v", d)
	}
}
