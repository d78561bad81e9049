package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// defaultOffsetCeiling bounds timestamp offsets when the video duration
// is unknown (two hours).
const defaultOffsetCeiling = 7200

// NormalizeTimestamps cleans model-produced timestamp candidates into a
// sorted, deduplicated sequence. The display string is authoritative: it is
// re-parsed, rendered in canonical form, and its offset overwrites any
// disagreeing seconds claim (noted in the report). Records with a malformed
// time, an offset above maxDuration, or an empty description are dropped.
// maxDuration <= 0 falls back to defaultOffsetCeiling. Survivors keep input
// order among equal offsets.
func NormalizeTimestamps(candidates []TimestampCandidate, maxDuration int) ([]Timestamp, NormalizeReport) {
	ceiling := maxDuration
	if ceiling <= 0 {
		ceiling = defaultOffsetCeiling
	}

	var report NormalizeReport
	drop := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		report.Dropped++
		report.Notes = append(report.Notes, msg)
		slog.Debug("timestamp dropped", slog.String("reason", msg))
	}

	type dupKey struct {
		seconds     int
		description string
	}
	seen := make(map[dupKey]bool, len(candidates))
	out := make([]Timestamp, 0, len(candidates))

	for _, c := range candidates {
		secs, ok := ParseClockTime(c.Time)
		if !ok {
			drop("dropped %q: malformed time", c.Time)
			continue
		}
		if c.Seconds != nil && *c.Seconds != secs {
			note := fmt.Sprintf("corrected %q: claimed %ds, display time is %ds", c.Time, *c.Seconds, secs)
			report.Notes = append(report.Notes, note)
			slog.Debug("timestamp corrected", slog.String("time", c.Time),
				slog.Int("claimed", *c.Seconds), slog.Int("actual", secs))
			IncrTimestampsCorrected()
		}

		rec := Timestamp{
			Time:        FormatClockTime(secs),
			Description: strings.TrimSpace(c.Description),
			Seconds:     secs,
		}

		if rec.Seconds < 0 || rec.Seconds > ceiling {
			drop("dropped %q: offset %ds outside 0-%ds", rec.Time, rec.Seconds, ceiling)
			continue
		}
		if !IsCanonicalClock(rec.Time) {
			drop("dropped %q: non-canonical time", rec.Time)
			continue
		}
		if rec.Description == "" {
			drop("dropped %q: empty description", rec.Time)
			continue
		}

		key := dupKey{rec.Seconds, rec.Description}
		if seen[key] {
			drop("dropped duplicate %q %q", rec.Time, rec.Description)
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Seconds < out[j].Seconds })

	if report.Dropped > 0 {
		AddTimestampsDropped(report.Dropped)
	}
	return out, report
}
