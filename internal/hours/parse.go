package hours

import (
	"fmt"
	"strings"
)

// EndOfDay is the normalised value of an "open until midnight" end bound.
const EndOfDay = 24 * 60

const midnight = "00:00"

// ParseTimeToMinutes parses "H:MM" or "HH:MM" into minutes since midnight.
// Anything else, including closed-day markers, reports false.
func ParseTimeToMinutes(text string) (int, bool) {
	s := strings.TrimSpace(text)
	colon := strings.IndexByte(s, ':')
	if colon < 1 || colon > 2 || len(s)-colon-1 != 2 {
		return 0, false
	}
	h, ok := digits(s[:colon])
	if !ok {
		return 0, false
	}
	m, ok := digits(s[colon+1:])
	if !ok {
		return 0, false
	}
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// NormalizeEnd parses an end bound, reading "00:00" as end of day unless the start is also "00:00".
func NormalizeEnd(start, end string) (int, bool) {
	if strings.TrimSpace(end) == midnight && strings.TrimSpace(start) != midnight {
		return EndOfDay, true
	}
	return ParseTimeToMinutes(end)
}

// FormatMinutes renders minutes since midnight as HH:MM; EndOfDay renders as "24:00".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func digits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
