package engine

import (
	"regexp"
	"strings"
)

// summaryStampRE matches inline bracketed clock stamps in summary text.
var summaryStampRE = regexp.MustCompile(`\[(\d{1,3}:\d{2}(?::\d{2})?)\]`)

// SummaryTimestamps extracts the inline [MM:SS] marks a summary carries and
// returns them in document order. TextPosition is the byte offset of the
// opening bracket, so clients can link summary text to playback offsets.
// Stamps that do not parse or exceed maxDuration are skipped. The label is
// the descriptive text nearest the stamp, empty when the stamp stands alone.
func SummaryTimestamps(summary string, maxDuration int) []SummaryTimestamp {
	ceiling := maxDuration
	if ceiling <= 0 {
		ceiling = defaultOffsetCeiling
	}

	matches := summaryStampRE.FindAllStringSubmatchIndex(summary, -1)
	out := make([]SummaryTimestamp, 0, len(matches))
	prevEnd := 0
	for i, m := range matches {
		stamp := summary[m[2]:m[3]]
		secs, ok := ParseClockTime(stamp)
		if !ok || secs > ceiling {
			prevEnd = m[1]
			continue
		}

		// Label: text before the stamp, bounded by the previous stamp and
		// the start of the line; text after it when nothing precedes.
		segStart := prevEnd
		if nl := strings.LastIndex(summary[segStart:m[0]], "\n"); nl >= 0 {
			segStart += nl + 1
		}
		desc := descriptiveSegment(summary[segStart:m[0]])
		if desc == "" {
			segEnd := len(summary)
			if i+1 < len(matches) {
				segEnd = matches[i+1][0]
			}
			if nl := strings.Index(summary[m[1]:segEnd], "\n"); nl >= 0 {
				segEnd = m[1] + nl
			}
			desc = descriptiveSegment(summary[m[1]:segEnd])
		}

		out = append(out, SummaryTimestamp{
			Time:         FormatClockTime(secs),
			Description:  TruncateAtWord(desc, 100),
			Seconds:      secs,
			TextPosition: m[0],
		})
		prevEnd = m[1]
	}
	return out
}
