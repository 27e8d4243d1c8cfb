package config

import (
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidate_DimensionMismatch(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Dimensions = 768
	cfg.Qdrant.VectorSize = 1536

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for dimension mismatch")
	}
}

func TestValidate_OverlapBounds(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{"overlap zero", 100, 0, false},
		{"overlap below size", 100, 99, false},
		{"overlap equals size", 100, 100, true},
		{"overlap above size", 100, 150, true},
		{"negative overlap", 100, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Chunk.Size = tt.size
			cfg.Chunk.Overlap = tt.overlap
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_UnknownSource(t *testing.T) {
	cfg := Default()
	cfg.Collect.Sources = []string{"arxiv", "scihub"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestValidate_EmptyCollection(t *testing.T) {
	cfg := Default()
	cfg.Qdrant.Collection = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty collection name")
	}
}
