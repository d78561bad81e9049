package engine

import (
	"reflect"
	"testing"
)

func intPtr(n int) *int { return &n }

func TestNormalizeTimestampsReconciles(t *testing.T) {
	tests := []struct {
		name     string
		cand     TimestampCandidate
		want     Timestamp
		wantNote bool
	}{
		{
			name:     "seconds claim overwritten by display time",
			cand:     TimestampCandidate{Time: "01:30", Description: "Topic", Seconds: intPtr(95)},
			want:     Timestamp{Time: "01:30", Description: "Topic", Seconds: 90},
			wantNote: true,
		},
		{
			name:     "matching claim passes silently",
			cand:     TimestampCandidate{Time: "01:30", Description: "Topic", Seconds: intPtr(90)},
			want:     Timestamp{Time: "01:30", Description: "Topic", Seconds: 90},
			wantNote: false,
		},
		{
			name:     "missing claim computed from display time",
			cand:     TimestampCandidate{Time: "0:15", Description: "Topic"},
			want:     Timestamp{Time: "00:15", Description: "Topic", Seconds: 15},
			wantNote: false,
		},
		{
			name:     "sixty minutes is a valid two-group time",
			cand:     TimestampCandidate{Time: "60:00", Description: "Late", Seconds: intPtr(999)},
			want:     Timestamp{Time: "01:00:00", Description: "Late", Seconds: 3600},
			wantNote: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report := NormalizeTimestamps([]TimestampCandidate{tt.cand}, 0)
			if len(got) != 1 {
				t.Fatalf("NormalizeTimestamps() kept %d records, want 1 (report: %v)", len(got), report.Notes)
			}
			if got[0] != tt.want {
				t.Errorf("NormalizeTimestamps() = %+v, want %+v", got[0], tt.want)
			}
			if tt.wantNote && len(report.Notes) == 0 {
				t.Error("NormalizeTimestamps() emitted no correction note")
			}
			if !tt.wantNote && len(report.Notes) != 0 {
				t.Errorf("NormalizeTimestamps() unexpected notes: %v", report.Notes)
			}
		})
	}
}

func TestNormalizeTimestampsDrops(t *testing.T) {
	tests := []struct {
		name        string
		cand        TimestampCandidate
		maxDuration int
	}{
		{"malformed time", TimestampCandidate{Time: "bad", Description: "X"}, 0},
		{"seconds group out of range", TimestampCandidate{Time: "1:60", Description: "X"}, 0},
		{"single group", TimestampCandidate{Time: "90", Description: "X"}, 0},
		{"offset above ceiling", TimestampCandidate{Time: "11:40", Description: "X"}, 600},
		{"offset above default ceiling", TimestampCandidate{Time: "120:01", Description: "X"}, 0},
		{"empty description", TimestampCandidate{Time: "1:30", Description: "  "}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report := NormalizeTimestamps([]TimestampCandidate{tt.cand}, tt.maxDuration)
			if len(got) != 0 {
				t.Errorf("NormalizeTimestamps() kept %+v, want drop", got)
			}
			if report.Dropped != 1 {
				t.Errorf("report.Dropped = %d, want 1", report.Dropped)
			}
			if len(report.Notes) == 0 {
				t.Error("report.Notes is empty, want drop diagnostic")
			}
		})
	}
}

func TestNormalizeTimestampsCeilingBoundary(t *testing.T) {
	cands := []TimestampCandidate{
		{Time: "10:00", Description: "At ceiling"},
		{Time: "10:01", Description: "Past ceiling"},
	}
	got, report := NormalizeTimestamps(cands, 600)
	if len(got) != 1 || got[0].Seconds != 600 {
		t.Fatalf("NormalizeTimestamps() = %+v, want only the 600s record", got)
	}
	if report.Dropped != 1 {
		t.Errorf("report.Dropped = %d, want 1", report.Dropped)
	}
}

func TestNormalizeTimestampsDedup(t *testing.T) {
	cands := []TimestampCandidate{
		{Time: "1:30", Description: "Intro"},
		{Time: "01:30", Description: "Intro"},
		{Time: "1:30", Description: "Other"},
		{Time: "2:00", Description: "Intro"},
	}
	got, report := NormalizeTimestamps(cands, 0)
	if len(got) != 3 {
		t.Fatalf("NormalizeTimestamps() kept %d records, want 3: %+v", len(got), got)
	}
	if got[0].Description != "Intro" || got[0].Seconds != 90 {
		t.Errorf("first record = %+v, want the earliest (90s, Intro)", got[0])
	}
	if report.Dropped != 1 {
		t.Errorf("report.Dropped = %d, want 1", report.Dropped)
	}
}

func TestNormalizeTimestampsEndToEnd(t *testing.T) {
	cands := []TimestampCandidate{
		{Time: "2:00", Description: "B"},
		{Time: "bad", Description: "X"},
		{Time: "0:05", Description: "A"},
	}
	want := []Timestamp{
		{Time: "00:05", Description: "A", Seconds: 5},
		{Time: "02:00", Description: "B", Seconds: 120},
	}
	got, report := NormalizeTimestamps(cands, 0)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTimestamps() = %+v, want %+v", got, want)
	}
	if report.Dropped != 1 {
		t.Errorf("report.Dropped = %d, want 1", report.Dropped)
	}
}

func TestNormalizeTimestampsStableOrder(t *testing.T) {
	cands := []TimestampCandidate{
		{Time: "1:30", Description: "First"},
		{Time: "0:30", Description: "Earlier"},
		{Time: "01:30", Description: "Second"},
	}
	got, _ := NormalizeTimestamps(cands, 0)
	if len(got) != 3 {
		t.Fatalf("NormalizeTimestamps() kept %d records, want 3", len(got))
	}
	if got[0].Description != "Earlier" || got[1].Description != "First" || got[2].Description != "Second" {
		t.Errorf("order = %q, %q, %q; want Earlier, First, Second",
			got[0].Description, got[1].Description, got[2].Description)
	}
}

func TestNormalizeTimestampsIdempotent(t *testing.T) {
	cands := []TimestampCandidate{
		{Time: "2:00", Description: "B", Seconds: intPtr(115)},
		{Time: "60:00", Description: "C"},
		{Time: "0:05", Description: "A"},
	}
	first, _ := NormalizeTimestamps(cands, 0)

	again := make([]TimestampCandidate, len(first))
	for i, ts := range first {
		again[i] = TimestampCandidate{Time: ts.Time, Description: ts.Description, Seconds: intPtr(ts.Seconds)}
	}
	second, report := NormalizeTimestamps(again, 0)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass = %+v, want %+v", second, first)
	}
	if report.Dropped != 0 || len(report.Notes) != 0 {
		t.Errorf("second pass report = %+v, want clean", report)
	}
}

func TestNormalizeTimestampsEmptyInput(t *testing.T) {
	got, report := NormalizeTimestamps(nil, 0)
	if got == nil || len(got) != 0 {
		t.Errorf("NormalizeTimestamps(nil) = %v, want empty non-nil slice", got)
	}
	if report.Dropped != 0 {
		t.Errorf("report.Dropped = %d, want 0", report.Dropped)
	}
}
