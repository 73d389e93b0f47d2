// Package format renders timestamps for the dashboard.
package format

import (
	"fmt"
	"math"
	"time"
)

// TimestampLayout matches "YYYY-MM-DD HH:mm:ss".
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp formats t in local time.
func Timestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// TimeAgo describes t relative to now, e.g. "5 minutes ago" or "in an hour".
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}
	phrase := relative(d)
	if future {
		return "in " + phrase
	}
	return phrase + " ago"
}

// relative applies the usual humanized thresholds: 45s, 45m, 22h, 26d,
// 320d with "a/an" for the single-unit ranges.
func relative(d time.Duration) string {
	secs := math.Round(d.Seconds())
	mins := math.Round(d.Minutes())
	hours := math.Round(d.Hours())
	days := math.Round(d.Hours() / 24)
	switch {
	case secs < 45:
		return "a few seconds"
	case secs < 90:
		return "a minute"
	case mins < 45:
		return fmt.Sprintf("%d minutes", int(mins))
	case mins < 90:
		return "an hour"
	case hours < 22:
		return fmt.Sprintf("%d hours", int(hours))
	case hours < 36:
		return "a day"
	case days < 26:
		return fmt.Sprintf("%d days", int(days))
	case days < 46:
		return "a month"
	case days < 320:
		return fmt.Sprintf("%d months", int(math.Round(days/30.4)))
	case days < 548:
		return "a year"
	default:
		return fmt.Sprintf("%d years", int(math.Round(days/365)))
	}
}
