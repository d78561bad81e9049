package videos

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/anatolykoptev/go_videomind/internal/engine"
)

func TestHistoryCRUD(t *testing.T) {
	engine.Init(engine.Config{HistoryDBPath: filepath.Join(t.TempDir(), "history.db")})
	ctx := context.Background()

	analysis := engine.VideoAnalysis{
		Success:        true,
		VideoURL:       "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		VideoID:        "dQw4w9WgXcQ",
		VideoSummary:   "## Overview [00:00]\nA walkthrough of the build.",
		HasTranscripts: true,
	}
	if err := SaveAnalysis(ctx, analysis, "Build Walkthrough"); err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}

	t.Run("get", func(t *testing.T) {
		rec, err := GetAnalysis(ctx, "dQw4w9WgXcQ")
		if err != nil {
			t.Fatalf("GetAnalysis() error = %v", err)
		}
		if rec.Title != "Build Walkthrough" {
			t.Errorf("Title = %q, want %q", rec.Title, "Build Walkthrough")
		}
		if !rec.HasTranscripts {
			t.Error("HasTranscripts = false, want true")
		}
		if rec.Summary != analysis.VideoSummary {
			t.Errorf("Summary = %q, want %q", rec.Summary, analysis.VideoSummary)
		}
	})

	t.Run("save replaces existing entry", func(t *testing.T) {
		updated := analysis
		updated.VideoSummary = "## Overview [00:00]\nRe-analyzed."
		if err := SaveAnalysis(ctx, updated, "Build Walkthrough"); err != nil {
			t.Fatalf("SaveAnalysis() error = %v", err)
		}
		rec, err := GetAnalysis(ctx, "dQw4w9WgXcQ")
		if err != nil {
			t.Fatalf("GetAnalysis() error = %v", err)
		}
		if rec.Summary != updated.VideoSummary {
			t.Errorf("Summary = %q, want %q", rec.Summary, updated.VideoSummary)
		}
		list, err := ListAnalyses(ctx, HistoryListInput{})
		if err != nil {
			t.Fatalf("ListAnalyses() error = %v", err)
		}
		if list.Total != 1 {
			t.Errorf("Total = %d, want 1 (upsert must not duplicate)", list.Total)
		}
	})

	t.Run("list", func(t *testing.T) {
		second := engine.VideoAnalysis{
			VideoID:      "9bZkp7q19f0",
			VideoURL:     "https://www.youtube.com/watch?v=9bZkp7q19f0",
			VideoSummary: "Another video.",
		}
		if err := SaveAnalysis(ctx, second, ""); err != nil {
			t.Fatalf("SaveAnalysis() error = %v", err)
		}
		list, err := ListAnalyses(ctx, HistoryListInput{Limit: 1})
		if err != nil {
			t.Fatalf("ListAnalyses() error = %v", err)
		}
		if len(list.Analyses) != 1 {
			t.Errorf("len(Analyses) = %d, want 1 (limit)", len(list.Analyses))
		}
		if list.Total != 2 {
			t.Errorf("Total = %d, want 2", list.Total)
		}
	})

	t.Run("list truncates long summaries", func(t *testing.T) {
		long := engine.VideoAnalysis{
			VideoID:      "M7lc1UVf-VE",
			VideoURL:     "https://www.youtube.com/watch?v=M7lc1UVf-VE",
			VideoSummary: strings.Repeat("An unusually detailed section. ", 30),
		}
		if err := SaveAnalysis(ctx, long, "API Deep Dive"); err != nil {
			t.Fatalf("SaveAnalysis() error = %v", err)
		}
		defer DeleteAnalysis(ctx, "M7lc1UVf-VE") //nolint:errcheck

		list, err := ListAnalyses(ctx, HistoryListInput{})
		if err != nil {
			t.Fatalf("ListAnalyses() error = %v", err)
		}
		var got string
		for _, a := range list.Analyses {
			if a.VideoID == "M7lc1UVf-VE" {
				got = a.Summary
			}
		}
		if got == "" {
			t.Fatal("saved entry missing from list")
		}
		if utf8.RuneCountInString(got) >= utf8.RuneCountInString(long.VideoSummary) {
			t.Errorf("list summary not truncated: %d runes", utf8.RuneCountInString(got))
		}
		rec, err := GetAnalysis(ctx, "M7lc1UVf-VE")
		if err != nil {
			t.Fatalf("GetAnalysis() error = %v", err)
		}
		if rec.Summary != long.VideoSummary {
			t.Error("GetAnalysis() must return the full summary")
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := DeleteAnalysis(ctx, "9bZkp7q19f0"); err != nil {
			t.Fatalf("DeleteAnalysis() error = %v", err)
		}
		if _, err := GetAnalysis(ctx, "9bZkp7q19f0"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetAnalysis() after delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete missing", func(t *testing.T) {
		if err := DeleteAnalysis(ctx, "nonexistent01"); !errors.Is(err, ErrNotFound) {
			t.Errorf("DeleteAnalysis() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("save requires video id", func(t *testing.T) {
		if err := SaveAnalysis(ctx, engine.VideoAnalysis{}, ""); err == nil {
			t.Error("SaveAnalysis() with empty video_id: expected error")
		}
	})
}
