package engine

import (
	"regexp"
	"strings"
	"unicode"
)

// fallbackTimeRE matches clock-style stamps in free-form text: one to three
// digit minutes or hours, then MM or MM:SS.
var fallbackTimeRE = regexp.MustCompile(`\b\d{1,3}:\d{2}(?::\d{2})?\b`)

// descCutset is the separator punctuation trimmed off description segments:
// list bullets, dashes, brackets and chapter separators.
const descCutset = " \t\r-–—:;|>*#.[](){}"

// ExtractTimestampCandidates recovers timestamp candidates from degraded
// model output or raw chapter text. Each stamp is paired with the adjacent
// text segment on its line, preferring the text before the stamp and falling
// back to the text after it. Stamps with no descriptive neighbor are
// skipped. Zero matches yields an empty result, not an error.
func ExtractTimestampCandidates(raw string) []TimestampCandidate {
	var out []TimestampCandidate
	for _, line := range strings.Split(raw, "\n") {
		locs := fallbackTimeRE.FindAllStringIndex(line, -1)
		for i, loc := range locs {
			prevEnd := 0
			if i > 0 {
				prevEnd = locs[i-1][1]
			}
			nextStart := len(line)
			if i+1 < len(locs) {
				nextStart = locs[i+1][0]
			}

			desc := descriptiveSegment(line[prevEnd:loc[0]])
			if desc == "" {
				desc = descriptiveSegment(line[loc[1]:nextStart])
			}
			if desc == "" {
				continue
			}
			out = append(out, TimestampCandidate{Time: line[loc[0]:loc[1]], Description: desc})
		}
	}
	return out
}

// descriptiveSegment trims separator punctuation and keeps the segment only
// if it still contains a letter. Bare list numbering like "3." does not
// describe a timestamp.
func descriptiveSegment(s string) string {
	s = strings.Trim(s, descCutset)
	for _, r := range s {
		if unicode.IsLetter(r) {
			return s
		}
	}
	return ""
}
