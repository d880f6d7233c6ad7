// internal/domain/flight/cycle.go
package flight

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cycle represents a single search pass over the configured date range.
// Created at the start of each polling iteration, discarded at its end.
type Cycle struct {
	ID         string // correlates log lines of one cycle
	StartedAt  time.Time
	FinishedAt time.Time
	Dates      []time.Time
}

// NewCycle builds a cycle covering the inclusive [start, end] date range.
func NewCycle(start, end time.Time) *Cycle {
	return &Cycle{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Dates:     DateRange(start, end),
	}
}

// Duration returns the elapsed cycle time, or zero while still running.
func (c *Cycle) Duration() time.Duration {
	if c.FinishedAt.IsZero() {
		return 0
	}
	return c.FinishedAt.Sub(c.StartedAt)
}

// DateRange lists every calendar date from start through end inclusive.
// An inverted range yields an empty slice.
func DateRange(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// FoundDate pairs a checked date with the reference of its published
// announcement message ("<internal chat id>/<message id>").
type FoundDate struct {
	Label      string
	MessageRef string
}

// Stats accumulates per-cycle search statistics. It is reset at the start of
// every cycle and owned solely by the orchestrator for that cycle's lifetime.
type Stats struct {
	Checked        int
	WithFlights    int
	WithoutFlights int
	TotalFlights   int
	Errors         int
	FoundDates     []FoundDate
}

// Consistent reports whether the accounting invariant holds: every checked
// date is classified exactly once.
func (s *Stats) Consistent() bool {
	return s.Checked == s.WithFlights+s.WithoutFlights+s.Errors
}

// Summary renders the statistics block used in status messages, with each
// found date hyperlinked to its announcement message.
func (s *Stats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"📊 <b>Статистика поиска:</b>\n"+
			"✓ Проверено дат: %d\n"+
			"✈️ Даты с рейсами: %d\n"+
			"❌ Даты без рейсов: %d\n"+
			"🎫 Всего найдено рейсов: %d\n"+
			"⚠️ Ошибок: %d\n",
		s.Checked, s.WithFlights, s.WithoutFlights, s.TotalFlights, s.Errors)

	if len(s.FoundDates) > 0 {
		b.WriteString("\n<b>Даты с найденными рейсами:</b>\n")
		for _, fd := range s.FoundDates {
			fmt.Fprintf(&b, "• <a href=\"https://t.me/c/%s\">%s</a>\n", fd.MessageRef, fd.Label)
		}
	}
	return b.String()
}
