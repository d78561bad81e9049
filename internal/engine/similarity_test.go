package engine

import (
	"math"
	"reflect"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"scaled", []float32{1, 1}, []float32{5, 5}, 1},
		{"empty", nil, nil, 0},
		{"mismatched lengths", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankBySimilarity(t *testing.T) {
	matches := []VisualSearchMatch{
		{Timestamp: "00:10", SimilarityScore: 0.3},
		{Timestamp: "00:20", SimilarityScore: 0.9},
		{Timestamp: "00:30", SimilarityScore: 0.9},
		{Timestamp: "00:40", SimilarityScore: 0.5},
	}
	RankBySimilarity(matches)

	gotOrder := []string{matches[0].Timestamp, matches[1].Timestamp, matches[2].Timestamp, matches[3].Timestamp}
	wantOrder := []string{"00:20", "00:30", "00:40", "00:10"}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Errorf("RankBySimilarity() order = %v, want %v", gotOrder, wantOrder)
	}
}

func TestFilterBySimilarity(t *testing.T) {
	matches := []VisualSearchMatch{
		{Timestamp: "00:10", SimilarityScore: 0.9},
		{Timestamp: "00:20", SimilarityScore: 0.6},
		{Timestamp: "00:30", SimilarityScore: 0.2},
		{Timestamp: "00:40", SimilarityScore: 0.1},
	}

	t.Run("drops below threshold", func(t *testing.T) {
		got := FilterBySimilarity(matches, 0.5, 1)
		if len(got) != 2 {
			t.Fatalf("FilterBySimilarity() len = %d, want 2", len(got))
		}
		if got[0].Timestamp != "00:10" || got[1].Timestamp != "00:20" {
			t.Errorf("FilterBySimilarity() = %v", got)
		}
	})

	t.Run("keeps minKeep when threshold too strict", func(t *testing.T) {
		got := FilterBySimilarity(matches, 0.99, 3)
		if len(got) != 3 {
			t.Fatalf("FilterBySimilarity() len = %d, want 3", len(got))
		}
		if got[0].Timestamp != "00:10" {
			t.Errorf("FilterBySimilarity()[0] = %v, want best match first", got[0])
		}
	})

	t.Run("returns all when fewer than minKeep", func(t *testing.T) {
		got := FilterBySimilarity(matches[:2], 0.99, 5)
		if len(got) != 2 {
			t.Errorf("FilterBySimilarity() len = %d, want 2", len(got))
		}
	})
}
