package parser

import (
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

func isValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// durationDays gives a very small subset of duration-string parsing: "Nd",
// "Nw", "Nm" (business-agnostic: weeks are 7 days, months are 30 days).
// Anything else is not derivable and returns ok=false.
func durationDays(d string) (int, bool) {
	if d == "" {
		return 0, false
	}
	unit := d[len(d)-1]
	numStr := d[:len(d)-1]
	n := 0
	for _, r := range numStr {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if numStr == "" {
		return 0, false
	}
	switch unit {
	case 'd':
		return n, true
	case 'w':
		return n * 7, true
	case 'm':
		return n * 30, true
	default:
		return 0, false
	}
}

// formatDuration is the inverse of durationDays for the common case: a
// whole number of days is rendered as "Nd".
func formatDuration(days int) string {
	return strconv.Itoa(days) + "d"
}
