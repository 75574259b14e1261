package youtube

import (
	"regexp"
	"strconv"
)

// durationPattern matches the compact ISO 8601 durations the videos endpoint
// returns, e.g. "PT1H2M3S", "PT45S", "PT". Each component is optional but
// must appear in descending unit order; anything else is unparseable.
var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts an ISO 8601 video duration into total seconds.
// Malformed input yields 0 rather than an error, so one bad duration never
// fails a whole batch.
func ParseDuration(raw string) int {
	m := durationPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}

	hours := atoi(m[1])
	minutes := atoi(m[2])
	seconds := atoi(m[3])

	return hours*3600 + minutes*60 + seconds
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
