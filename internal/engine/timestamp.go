package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Clock-time parsing for timestamp records. Accepted shapes are M:SS / MM:SS
// (minutes unconstrained, seconds 0-59) and H:MM:SS (hours unconstrained,
// minutes and seconds 0-59). Parse failure is an explicit result, never a
// zero value: 0 is a legitimate offset for a video's opening timestamp.

// canonicalClockRE matches the canonical rendering produced by
// FormatClockTime: zero-padded MM:SS with minutes 00-59, or H*:MM:SS.
var canonicalClockRE = regexp.MustCompile(`^(?:[0-5]\d:[0-5]\d|\d{2,}:[0-5]\d:[0-5]\d)$`)

// ParseClockTime converts a clock-style string to total seconds.
// Returns (0, false) for anything that is not exactly two or three
// colon-separated unsigned integer groups within range.
func ParseClockTime(s string) (int, bool) {
	groups := strings.Split(strings.TrimSpace(s), ":")
	if len(groups) != 2 && len(groups) != 3 {
		return 0, false
	}

	vals := make([]int, len(groups))
	for i, g := range groups {
		// ParseUint rejects signs, spaces and empty groups
		n, err := strconv.ParseUint(g, 10, 32)
		if err != nil {
			return 0, false
		}
		vals[i] = int(n)
	}

	if len(groups) == 2 {
		if vals[1] > 59 {
			return 0, false
		}
		return vals[0]*60 + vals[1], true
	}

	if vals[1] > 59 || vals[2] > 59 {
		return 0, false
	}
	return vals[0]*3600 + vals[1]*60 + vals[2], true
}

// FormatClockTime renders seconds in canonical form: HH:MM:SS above one hour,
// MM:SS below, components zero-padded to two digits.
func FormatClockTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// IsCanonicalClock reports whether s is already in the canonical form
// FormatClockTime produces.
func IsCanonicalClock(s string) bool {
	return canonicalClockRE.MatchString(s)
}
