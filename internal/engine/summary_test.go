package engine

import (
	"strings"
	"testing"
)

func TestSummaryTimestamps(t *testing.T) {
	summary := "## Overview\nThe intro starts [0:00] with a greeting.\nThe demo begins [04:30] in the studio."

	got := SummaryTimestamps(summary, 0)
	if len(got) != 2 {
		t.Fatalf("SummaryTimestamps() returned %d marks, want 2: %+v", len(got), got)
	}

	if got[0].Time != "00:00" || got[0].Seconds != 0 {
		t.Errorf("first mark = %+v, want 00:00 / 0s", got[0])
	}
	if got[0].Description != "The intro starts" {
		t.Errorf("first mark description = %q, want %q", got[0].Description, "The intro starts")
	}
	if want := strings.Index(summary, "[0:00]"); got[0].TextPosition != want {
		t.Errorf("first mark position = %d, want %d", got[0].TextPosition, want)
	}

	if got[1].Time != "04:30" || got[1].Seconds != 270 {
		t.Errorf("second mark = %+v, want 04:30 / 270s", got[1])
	}
	if want := strings.Index(summary, "[04:30]"); got[1].TextPosition != want {
		t.Errorf("second mark position = %d, want %d", got[1].TextPosition, want)
	}
}

func TestSummaryTimestampsSkipsInvalid(t *testing.T) {
	summary := "Bad stamp [1:60] here, good stamp [1:30] there, too late [50:00] gone."
	got := SummaryTimestamps(summary, 600)
	if len(got) != 1 {
		t.Fatalf("SummaryTimestamps() returned %d marks, want 1: %+v", len(got), got)
	}
	if got[0].Seconds != 90 {
		t.Errorf("kept mark = %+v, want the 90s one", got[0])
	}
}

func TestSummaryTimestampsHeadingLabel(t *testing.T) {
	summary := "## Setup [00:30]\nInstall the tools."
	got := SummaryTimestamps(summary, 0)
	if len(got) != 1 {
		t.Fatalf("SummaryTimestamps() returned %d marks, want 1", len(got))
	}
	if got[0].Description != "Setup" {
		t.Errorf("label = %q, want %q", got[0].Description, "Setup")
	}
}

func TestSummaryTimestampsLoneStamp(t *testing.T) {
	got := SummaryTimestamps("[02:00]", 0)
	if len(got) != 1 {
		t.Fatalf("SummaryTimestamps() returned %d marks, want 1", len(got))
	}
	if got[0].Description != "" || got[0].Seconds != 120 {
		t.Errorf("mark = %+v, want empty label at 120s", got[0])
	}
}

func TestSummaryTimestampsNone(t *testing.T) {
	if got := SummaryTimestamps("no stamps in this text", 0); len(got) != 0 {
		t.Errorf("SummaryTimestamps() = %+v, want none", got)
	}
}
