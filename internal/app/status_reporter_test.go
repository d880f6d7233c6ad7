package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flight_watch_bot/internal/domain/flight"
)

func reporterConfig() StatusReporterConfig {
	return StatusReporterConfig{
		ChatID:        "-100555",
		ThreadID:      "2",
		OriginName:    "Уфа",
		DestName:      "Усинск",
		DateRangeText: "с 15 по 17 сентября 2025",
		IntervalHours: 4,
	}
}

func TestStatusReporterLifecycle(t *testing.T) {
	channel := newFakeChannel()
	reporter := NewStatusReporter(channel, reporterConfig(), nil)

	reporter.Start(context.Background())
	require.True(t, reporter.Active())
	assert.Equal(t, "101", reporter.MessageID())
	require.Len(t, channel.sent, 1)
	assert.Contains(t, channel.sent[0].Text, "Программа поиска авиабилетов запущена")
	assert.Equal(t, "2", channel.sent[0].ThreadID)

	cycle := flight.NewCycle(
		time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 17, 0, 0, 0, 0, time.UTC))
	reporter.CycleStarted(context.Background(), cycle)

	require.Len(t, channel.edits, 1)
	assert.Equal(t, "101", channel.edits[0].messageID)
	assert.Equal(t, "-100555", channel.edits[0].chatID)
	assert.Contains(t, channel.edits[0].text, "Начат цикл поиска рейсов")

	cycle.FinishedAt = cycle.StartedAt.Add(3 * time.Minute)
	stats := &flight.Stats{Checked: 3, WithoutFlights: 3}
	reporter.CycleFinished(context.Background(), cycle, stats)

	require.Len(t, channel.edits, 2)
	assert.Contains(t, channel.edits[1].text, "Цикл поиска завершен")
	assert.Contains(t, channel.edits[1].text, "3 минут 0 секунд")
	assert.Contains(t, channel.edits[1].text, "Следующий цикл через <b>4 часов</b>")
}

func TestStatusReporterInertWhenCreationFails(t *testing.T) {
	channel := newFakeChannel()
	channel.sendWithIDErr = errors.New("chat not found")
	reporter := NewStatusReporter(channel, reporterConfig(), nil)

	reporter.Start(context.Background())
	assert.False(t, reporter.Active())

	cycle := flight.NewCycle(
		time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC))
	reporter.CycleStarted(context.Background(), cycle)
	reporter.Progress(context.Background(), cycle, &flight.Stats{}, 1, "15 сентября 2025")
	reporter.CycleFinished(context.Background(), cycle, &flight.Stats{})

	assert.Empty(t, channel.edits)
}

func TestStatusReporterSkipsIdenticalEdit(t *testing.T) {
	channel := newFakeChannel()
	reporter := NewStatusReporter(channel, reporterConfig(), nil)
	reporter.Start(context.Background())

	cycle := flight.NewCycle(
		time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 17, 0, 0, 0, 0, time.UTC))
	reporter.CycleStarted(context.Background(), cycle)
	reporter.CycleStarted(context.Background(), cycle)

	assert.Len(t, channel.edits, 1)
}

func TestStatusReporterProgressNamesFailingDate(t *testing.T) {
	channel := newFakeChannel()
	reporter := NewStatusReporter(channel, reporterConfig(), nil)
	reporter.Start(context.Background())

	cycle := flight.NewCycle(
		time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 17, 0, 0, 0, 0, time.UTC))
	stats := &flight.Stats{Checked: 2, WithoutFlights: 1, Errors: 1}
	reporter.Progress(context.Background(), cycle, stats, 3, "16 сентября 2025")

	require.Len(t, channel.edits, 1)
	assert.Contains(t, channel.edits[0].text, "Ошибка при проверке даты: 16 сентября 2025")
	// Only the date is surfaced, never the raw error text.
	assert.Contains(t, channel.edits[0].text, "(2/3 дат проверено)")
}

func TestStatusReporterEditFailureKeepsLastText(t *testing.T) {
	channel := newFakeChannel()
	reporter := NewStatusReporter(channel, reporterConfig(), nil)
	reporter.Start(context.Background())

	cycle := flight.NewCycle(
		time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 17, 0, 0, 0, 0, time.UTC))

	channel.editErr = errors.New("message to edit not found")
	reporter.CycleStarted(context.Background(), cycle)
	assert.Empty(t, channel.edits)

	// Once the backend recovers, the same text goes through.
	channel.editErr = nil
	reporter.CycleStarted(context.Background(), cycle)
	assert.Len(t, channel.edits, 1)
}
