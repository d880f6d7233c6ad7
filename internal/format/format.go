// Package format renders dates and durations in human-readable Russian.
package format

import (
	"fmt"
	"time"
)

// displayZone is the fixed display offset (UTC+5) used for all rendered times.
var displayZone = time.FixedZone("UTC+5", 5*3600)

var monthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

func monthName(m time.Month) string {
	return monthsGenitive[int(m)-1]
}

// Duration renders a duration given in minutes as "5 ч 30 мин" or "45 мин".
func Duration(minutes int64) string {
	hours := minutes / 60
	remaining := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%d ч %d мин", hours, remaining)
	}
	return fmt.Sprintf("%d мин", remaining)
}

// Date renders a calendar date as "2 сентября 2025".
func Date(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthName(t.Month()), t.Year())
}

// DateTime parses an RFC-3339 timestamp and renders it in the display zone as
// "2 сентября 2025 в 14:05". The input is returned unchanged when it does not
// parse.
func DateTime(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	local := t.In(displayZone)
	return fmt.Sprintf("%d %s %d в %02d:%02d",
		local.Day(), monthName(local.Month()), local.Year(), local.Hour(), local.Minute())
}

// UTCDateTime renders a timestamp in the display zone with second precision,
// as "2 сентября 2025 в 14ч 5м 3с".
func UTCDateTime(t time.Time) string {
	local := t.In(displayZone)
	return fmt.Sprintf("%d %s %d в %dч %dм %dс",
		local.Day(), monthName(local.Month()), local.Year(),
		local.Hour(), local.Minute(), local.Second())
}

// DateRange renders an inclusive date range, collapsing repeated month and
// year parts: "с 15 по 30 сентября 2025", "с 25 сентября по 5 октября 2025",
// "с 25 декабря 2025 по 10 января 2026".
func DateRange(start, end time.Time) string {
	switch {
	case start.Year() == end.Year() && start.Month() == end.Month():
		return fmt.Sprintf("с %d по %d %s %d",
			start.Day(), end.Day(), monthName(end.Month()), end.Year())
	case start.Year() == end.Year():
		return fmt.Sprintf("с %d %s по %d %s %d",
			start.Day(), monthName(start.Month()),
			end.Day(), monthName(end.Month()), end.Year())
	default:
		return fmt.Sprintf("с %d %s %d по %d %s %d",
			start.Day(), monthName(start.Month()), start.Year(),
			end.Day(), monthName(end.Month()), end.Year())
	}
}
