package report

import (
	"fmt"
	"math"
	"time"
)

const (
	day   = 24 * time.Hour
	month = 30 * day
	year  = 365 * day
)

// TimeAgo describes how long before now t happened, e.g. "3 minutes ago".
// Months are 30 days and years 365 days. A t after now is "in the future".
func TimeAgo(t, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < 0 {
		return "in the future"
	}

	switch {
	case elapsed < time.Minute:
		return ago(elapsed, time.Second, "second")
	case elapsed < time.Hour:
		return ago(elapsed, time.Minute, "minute")
	case elapsed < day:
		return ago(elapsed, time.Hour, "hour")
	case elapsed < month:
		return ago(elapsed, day, "day")
	case elapsed < year:
		return ago(elapsed, month, "month")
	default:
		return ago(elapsed, year, "year")
	}
}

func ago(elapsed, unit time.Duration, word string) string {
	n := int64(math.Round(float64(elapsed) / float64(unit)))
	if n != 1 {
		word += "s"
	}
	return fmt.Sprintf("%d %s ago", n, word)
}
