package engine

import (
	"reflect"
	"testing"
)

func TestExtractTimestampCandidates(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []TimestampCandidate
	}{
		{
			name: "bracketed stamps in prose",
			raw:  "Intro starts [0:00] and topic begins [0:15]",
			want: []TimestampCandidate{
				{Time: "0:00", Description: "Intro starts"},
				{Time: "0:15", Description: "and topic begins"},
			},
		},
		{
			name: "chapter list",
			raw:  "0:00 - Intro\n1:30 - Main topic\n12:45 - Summary",
			want: []TimestampCandidate{
				{Time: "0:00", Description: "Intro"},
				{Time: "1:30", Description: "Main topic"},
				{Time: "12:45", Description: "Summary"},
			},
		},
		{
			name: "hour stamps",
			raw:  "1:02:03 Deep dive",
			want: []TimestampCandidate{
				{Time: "1:02:03", Description: "Deep dive"},
			},
		},
		{
			name: "markdown bullets",
			raw:  "* 00:10 Setup\n* 02:30 Demo",
			want: []TimestampCandidate{
				{Time: "00:10", Description: "Setup"},
				{Time: "02:30", Description: "Demo"},
			},
		},
		{
			name: "numbered list prefers following text",
			raw:  "1. 0:30 Getting started",
			want: []TimestampCandidate{
				{Time: "0:30", Description: "Getting started"},
			},
		},
		{
			name: "stamp without descriptive neighbor skipped",
			raw:  "12:45\nplain text without stamps",
			want: nil,
		},
		{
			name: "no matches",
			raw:  "nothing to see here",
			want: nil,
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTimestampCandidates(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTimestampCandidates() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractTimestampCandidatesNormalizes(t *testing.T) {
	raw := "Intro starts [0:00] and topic begins [0:15]"
	got, report := NormalizeTimestamps(ExtractTimestampCandidates(raw), 0)
	want := []Timestamp{
		{Time: "00:00", Description: "Intro starts", Seconds: 0},
		{Time: "00:15", Description: "and topic begins", Seconds: 15},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalized fallback = %+v, want %+v", got, want)
	}
	if report.Dropped != 0 {
		t.Errorf("report.Dropped = %d, want 0", report.Dropped)
	}
}

func TestExtractTimestampCandidatesRejectsLooseDigits(t *testing.T) {
	raw := "version 1.2.3 released at 12:345 or v10:1"
	if got := ExtractTimestampCandidates(raw); got != nil {
		t.Errorf("ExtractTimestampCandidates() = %+v, want nil", got)
	}
}
