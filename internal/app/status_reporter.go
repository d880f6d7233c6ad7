// internal/app/status_reporter.go
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"flight_watch_bot/internal/domain/flight"
	domainTelegram "flight_watch_bot/internal/domain/telegram"
	"flight_watch_bot/internal/format"
)

// StatusReporterConfig carries the static pieces of every rendered status.
type StatusReporterConfig struct {
	ChatID        string
	ThreadID      string // operational log thread
	OriginName    string
	DestName      string
	DateRangeText string
	IntervalHours int
}

// StatusReporter owns the single live-edited status message. The message is
// created once at startup and only ever edited afterwards; if creation fails
// the reporter stays inert for the rest of the process lifetime.
type StatusReporter struct {
	client domainTelegram.Client
	cfg    StatusReporterConfig
	logger *logrus.Logger

	messageID string
	lastText  string
}

func NewStatusReporter(client domainTelegram.Client, cfg StatusReporterConfig, logger *logrus.Logger) *StatusReporter {
	if logger == nil {
		logger = logrus.New()
	}
	return &StatusReporter{client: client, cfg: cfg, logger: logger}
}

// Start publishes the startup status message and records its id. Called once.
func (r *StatusReporter) Start(ctx context.Context) {
	if r == nil {
		return
	}

	text := fmt.Sprintf(
		"🛫 <b>Программа поиска авиабилетов запущена!</b>\n\n"+
			"Будет проверять прямые рейсы из <b>%s</b> в <b>%s</b> %s.\n"+
			"Поиск будет происходить каждые %d часов.\n\n"+
			"<i>Этот статус будет обновляться с результатами поиска.</i>",
		r.cfg.OriginName, r.cfg.DestName, r.cfg.DateRangeText, r.cfg.IntervalHours)

	messageID, err := r.client.SendWithID(ctx, domainTelegram.Request{
		ChatID:   r.cfg.ChatID,
		ThreadID: r.cfg.ThreadID,
		Text:     text,
	})
	if err != nil {
		// No retry of creation: the orchestrator proceeds without live status.
		r.logger.WithError(err).Error("failed to create status message, live status disabled for this run")
		return
	}

	r.messageID = messageID
	r.lastText = text
	r.logger.WithField("message_id", messageID).Info("status message created")
}

// Active reports whether the reporter holds a live status message.
func (r *StatusReporter) Active() bool {
	return r != nil && r.messageID != ""
}

// MessageID returns the backend identifier of the status message, empty while
// inert.
func (r *StatusReporter) MessageID() string {
	if r == nil {
		return ""
	}
	return r.messageID
}

// CycleStarted re-renders the status for a freshly started cycle.
func (r *StatusReporter) CycleStarted(ctx context.Context, cycle *flight.Cycle) {
	if !r.Active() {
		return
	}
	text := fmt.Sprintf(
		"🛫 <b>Программа поиска авиабилетов</b>\n\n"+
			"🔍 Начат цикл поиска рейсов: %s\n"+
			"🗓 Проверяемые даты: %s\n\n"+
			"<i>Статус будет обновляться...</i>",
		format.UTCDateTime(cycle.StartedAt), r.cfg.DateRangeText)
	r.update(ctx, text)
}

// Progress re-renders the status mid-cycle, after a per-date error. Only the
// failing date is named; the error text itself stays out of the status to
// keep it compact.
func (r *StatusReporter) Progress(ctx context.Context, cycle *flight.Cycle, stats *flight.Stats, totalDates int, errorDate string) {
	if !r.Active() {
		return
	}
	text := fmt.Sprintf(
		"🛫 <b>Программа поиска авиабилетов</b>\n\n"+
			"🔍 Поиск начат: %s\n"+
			"🗓 Проверяемые даты: %s\n"+
			"⚠️ Ошибка при проверке даты: %s\n\n"+
			"%s\n"+
			"<i>Поиск в процессе (%d/%d дат проверено)...</i>",
		format.UTCDateTime(cycle.StartedAt), r.cfg.DateRangeText, errorDate,
		stats.Summary(), stats.Checked, totalDates)
	r.update(ctx, text)
}

// CycleFinished renders the final per-cycle summary.
func (r *StatusReporter) CycleFinished(ctx context.Context, cycle *flight.Cycle, stats *flight.Stats) {
	if !r.Active() {
		return
	}
	elapsed := cycle.Duration()
	text := fmt.Sprintf(
		"🛫 <b>Программа поиска авиабилетов</b>\n\n"+
			"✅ <b>Цикл поиска завершен!</b>\n"+
			"🕒 Начало: %s\n"+
			"🕕 Окончание: %s\n"+
			"⏱ Длительность: %d минут %d секунд\n"+
			"🗓 Проверено дат: %d\n\n"+
			"%s\n"+
			"🔄 Следующий цикл через <b>%d часов</b>",
		format.UTCDateTime(cycle.StartedAt), format.UTCDateTime(cycle.FinishedAt),
		int(elapsed.Minutes()), int(elapsed.Seconds())%60,
		stats.Checked, stats.Summary(), r.cfg.IntervalHours)
	r.update(ctx, text)
}

func (r *StatusReporter) update(ctx context.Context, text string) {
	if text == r.lastText {
		// The backend rejects edits that change nothing.
		return
	}
	if err := r.client.Edit(ctx, r.cfg.ChatID, r.messageID, text, r.cfg.ThreadID); err != nil {
		r.logger.WithError(err).Error("failed to update status message")
		return
	}
	r.lastText = text
}
