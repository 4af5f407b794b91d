package txc

import (
	"fmt"
	"strings"

	iso8601 "github.com/senseyeio/duration"
)

// NormaliseDuration rewrites a PTnHnMnS duration so that seconds and
// minutes never exceed 59, carrying upwards into hours. Values that do not
// parse are returned untouched; normalising a normalised duration yields
// the same string.
func NormaliseDuration(value string) string {
	if value == "" {
		return value
	}

	parsed, err := iso8601.ParseISO8601(value)
	if err != nil {
		return value
	}

	parsed.TM += parsed.TS / 60
	parsed.TS = parsed.TS % 60
	parsed.TH += parsed.TM / 60
	parsed.TM = parsed.TM % 60

	return formatDuration(parsed)
}

func formatDuration(d iso8601.Duration) string {
	var builder strings.Builder
	builder.WriteString("P")

	if d.Y != 0 {
		fmt.Fprintf(&builder, "%dY", d.Y)
	}
	if d.M != 0 {
		fmt.Fprintf(&builder, "%dM", d.M)
	}
	if d.W != 0 {
		fmt.Fprintf(&builder, "%dW", d.W)
	}
	if d.D != 0 {
		fmt.Fprintf(&builder, "%dD", d.D)
	}

	fmt.Fprintf(&builder, "T%dH%dM%dS", d.TH, d.TM, d.TS)

	return builder.String()
}

// DurationSeconds evaluates a PTnHnMnS duration to seconds. Calendar
// components longer than a week never appear in run times and are
// rejected.
func DurationSeconds(value string) (int, bool) {
	if value == "" {
		return 0, true
	}

	parsed, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, false
	}

	if parsed.Y != 0 || parsed.M != 0 {
		return 0, false
	}

	days := parsed.D + parsed.W*7

	return ((days*24+parsed.TH)*60+parsed.TM)*60 + parsed.TS, true
}

// ZeroDuration reports whether a run time is absent or evaluates to zero
// seconds. An empty RunTime element and PT0H0M0S are equivalent.
func ZeroDuration(value string) bool {
	seconds, ok := DurationSeconds(strings.TrimSpace(value))

	return ok && seconds == 0
}
