// internal/app/watcher_service.go
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"

	"flight_watch_bot/internal/domain/flight"
	domainTelegram "flight_watch_bot/internal/domain/telegram"
	"flight_watch_bot/internal/format"
	"flight_watch_bot/internal/infra/metrics"
	"flight_watch_bot/internal/refdata"
)

// maxVerboseFlights caps per-date flight detail messages; the remainder is
// folded into a single "+N more" line.
const maxVerboseFlights = 5

// WatcherConfig is the immutable orchestrator configuration.
type WatcherConfig struct {
	Origin          string
	Destination     string
	StartDate       time.Time
	EndDate         time.Time
	ChatID          string
	DevlogsThreadID string
	FoundThreadIDs  []string
	Interval        time.Duration
}

// WatcherService drives the day-by-day polling loop: it searches every date
// in the configured range sequentially, publishes deduplicated findings, and
// accumulates per-cycle statistics. The whole pipeline is one logical flow;
// dates are always handled and reported in chronological order.
type WatcherService struct {
	source   flight.Source
	enricher flight.Enricher        // nil disables the enrichment step
	channel  domainTelegram.Client  // nil disables all notifications
	deduper  *Deduper               // nil disables duplicate suppression
	reporter *StatusReporter        // nil or inert disables live status
	logger   *logrus.Logger
	cfg      WatcherConfig

	// pacer bounds the upstream request rate at one search per second.
	pacer ratelimit.Limiter
}

func NewWatcherService(
	source flight.Source,
	enricher flight.Enricher,
	channel domainTelegram.Client,
	deduper *Deduper,
	reporter *StatusReporter,
	cfg WatcherConfig,
	logger *logrus.Logger,
) *WatcherService {
	if logger == nil {
		logger = logrus.New()
	}
	return &WatcherService{
		source:   source,
		enricher: enricher,
		channel:  channel,
		deduper:  deduper,
		reporter: reporter,
		logger:   logger,
		cfg:      cfg,
		pacer:    ratelimit.New(1),
	}
}

// Run executes search cycles forever, sleeping the configured interval
// between them. It returns only when ctx is cancelled.
func (s *WatcherService) Run(ctx context.Context) error {
	for {
		if _, err := s.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.WithError(err).Error("search cycle aborted")
		}

		s.logger.WithField("interval", s.cfg.Interval.String()).Info("sleeping until next cycle")
		timer := time.NewTimer(s.cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RunCycle performs one full pass over the date range and returns the
// accumulated statistics. Per-date failures never abort the cycle; the only
// error returned is ctx cancellation.
func (s *WatcherService) RunCycle(ctx context.Context) (*flight.Stats, error) {
	cycle := flight.NewCycle(s.cfg.StartDate, s.cfg.EndDate)
	stats := &flight.Stats{}
	clog := s.logger.WithField("cycle_id", cycle.ID)

	clog.WithField("dates", len(cycle.Dates)).Info("starting search cycle")
	s.reporter.CycleStarted(ctx, cycle)

	for _, date := range cycle.Dates {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		s.pacer.Take()
		stats.Checked++

		records, err := s.source.SearchOneWay(ctx, s.cfg.Origin, s.cfg.Destination, date)
		if err != nil {
			stats.Errors++
			metrics.RecordSearchDate("error")
			clog.WithError(err).WithField("date", format.Date(date)).Error("flight search failed")
			s.notifySearchError(ctx, date, err)
			s.reporter.Progress(ctx, cycle, stats, len(cycle.Dates), format.Date(date))
			continue
		}

		if len(records) == 0 {
			stats.WithoutFlights++
			metrics.RecordSearchDate("empty")
			clog.WithField("date", format.Date(date)).Info("no flights found")
			continue
		}

		stats.WithFlights++
		stats.TotalFlights += len(records)
		metrics.RecordSearchDate("flights")
		metrics.RecordFlightsFound(len(records))
		clog.WithFields(logrus.Fields{
			"date":    format.Date(date),
			"flights": len(records),
		}).Info("flights found")

		s.announce(ctx, date, records, stats)
	}

	cycle.FinishedAt = time.Now().UTC()
	metrics.RecordCycleCompleted()
	clog.WithFields(logrus.Fields{
		"duration": cycle.Duration().String(),
		"checked":  stats.Checked,
		"found":    stats.TotalFlights,
		"errors":   stats.Errors,
	}).Info("search cycle completed")
	s.reporter.CycleFinished(ctx, cycle, stats)

	return stats, nil
}

// announce publishes the findings for one date: a headline announcement with
// a captured message id, up to maxVerboseFlights detail messages, a "+N more"
// tail, and optional enrichment. Every body is checked against recent thread
// history first.
func (s *WatcherService) announce(ctx context.Context, date time.Time, records []flight.Record, stats *flight.Stats) {
	if s.channel == nil {
		return
	}

	dateLabel := format.Date(date)
	headlineKey := fmt.Sprintf("Найдено %d рейсов на %s", len(records), dateLabel)
	if s.isDuplicate(ctx, headlineKey) {
		s.logger.WithField("date", dateLabel).Info("findings already announced recently, skipping")
		return
	}

	announcement := fmt.Sprintf("✅ Найдено <b>%d рейсов</b> на <b>%s</b> из %s в %s:\n\n",
		len(records), dateLabel, refdata.CityName(s.cfg.Origin), refdata.CityName(s.cfg.Destination))
	req := domainTelegram.Request{
		ChatID:   s.cfg.ChatID,
		ThreadID: s.primaryFoundThread(),
		Text:     announcement,
	}

	messageID, err := s.channel.SendWithID(ctx, req)
	if err != nil {
		s.logger.WithError(err).WithField("date", dateLabel).Error("failed to announce found flights")
		return
	}
	if extra := s.extraFoundThreads(); len(extra) > 0 {
		s.channel.SendToThreads(ctx, req, extra)
	}
	stats.FoundDates = append(stats.FoundDates, flight.FoundDate{
		Label:      dateLabel,
		MessageRef: internalChatID(s.cfg.ChatID) + "/" + messageID,
	})

	for i, rec := range records {
		if i >= maxVerboseFlights {
			tail := fmt.Sprintf("... и еще %d рейсов", len(records)-maxVerboseFlights)
			if !s.isDuplicate(ctx, tail) {
				s.send(ctx, s.primaryFoundThread(), tail)
			}
			break
		}
		key, detail := describeFlight(rec)
		if s.isDuplicate(ctx, key) {
			continue
		}
		s.send(ctx, s.primaryFoundThread(), detail)
	}

	if s.enricher != nil {
		s.enrich(ctx, records)
	}
}

// enrich publishes supplementary info per flight; seat availability triggers
// an extra highlighted alert. Enrichment failures never fail the date.
func (s *WatcherService) enrich(ctx context.Context, records []flight.Record) {
	for _, rec := range records {
		extra, err := s.enricher.FlightInfo(ctx, rec.Airline, rec.FlightNumber)
		if err != nil {
			s.logger.WithError(err).WithField("flight", rec.Airline+rec.FlightNumber).
				Warn("enrichment lookup failed")
			continue
		}
		if extra == nil {
			s.logger.WithField("flight", rec.Airline+rec.FlightNumber).Debug("no enrichment data")
			continue
		}

		text := describeExtra(rec, extra)
		s.send(ctx, s.primaryFoundThread(), text)
		if extra.HasSeatInfo() {
			s.send(ctx, s.primaryFoundThread(), "🚨 <b>ИНФОРМАЦИЯ О НАЛИЧИИ МЕСТ:</b> 🚨\n\n"+text)
		}
	}
}

// notifySearchError publishes a devoted operational error message. The full
// error goes to the ops thread; the live status only carries the date.
func (s *WatcherService) notifySearchError(ctx context.Context, date time.Time, searchErr error) {
	if s.channel == nil {
		return
	}
	text := fmt.Sprintf(
		"⚠️ <b>Ошибка при поиске рейсов</b>\n\n"+
			"📅 Дата: %s\n"+
			"❌ Ошибка: %s\n\n"+
			"<i>Поиск продолжается...</i>",
		format.Date(date), searchErr)
	s.send(ctx, s.cfg.DevlogsThreadID, text)
}

func (s *WatcherService) isDuplicate(ctx context.Context, candidate string) bool {
	if s.deduper == nil {
		return false
	}
	dup, err := s.deduper.WasRecentlySent(ctx, s.primaryFoundThread(), candidate)
	if err != nil {
		// Better a rare repeat alert than a silently dropped finding.
		s.logger.WithError(err).Warn("history check failed, delivering anyway")
		return false
	}
	return dup
}

func (s *WatcherService) send(ctx context.Context, threadID, text string) {
	err := s.channel.Send(ctx, domainTelegram.Request{
		ChatID:   s.cfg.ChatID,
		ThreadID: threadID,
		Text:     text,
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to deliver notification")
	}
}

func (s *WatcherService) primaryFoundThread() string {
	if len(s.cfg.FoundThreadIDs) == 0 {
		return ""
	}
	return s.cfg.FoundThreadIDs[0]
}

func (s *WatcherService) extraFoundThreads() []string {
	if len(s.cfg.FoundThreadIDs) < 2 {
		return nil
	}
	return s.cfg.FoundThreadIDs[1:]
}

// describeFlight renders one flight detail message. The first line is stable
// across cycles and doubles as the dedup key; the rest may vary (price).
func describeFlight(rec flight.Record) (key, text string) {
	key = fmt.Sprintf("🛫 <b>Рейс %s</b>: %s (%s) → %s (%s)",
		rec.FlightNumber,
		refdata.CityName(rec.Origin), rec.OriginAirport,
		refdata.CityName(rec.Destination), rec.DestinationAirport)

	var b strings.Builder
	b.WriteString(key + "\n")
	fmt.Fprintf(&b, "🏢 Авиакомпания: %s\n", refdata.AirlineName(rec.Airline))
	fmt.Fprintf(&b, "🕒 Вылет: %s\n", format.DateTime(rec.DepartureAt))
	fmt.Fprintf(&b, "💰 Цена: %d ₽\n", rec.Price)
	if rec.Transfers > 0 {
		fmt.Fprintf(&b, "🔁 Пересадок: %d\n", rec.Transfers)
	}
	if rec.Duration != nil {
		fmt.Fprintf(&b, "⏱ В пути: %s\n", format.Duration(*rec.Duration))
	}
	if rec.Seats != nil {
		fmt.Fprintf(&b, "💺 Мест: %d\n", *rec.Seats)
	}
	if rec.Link != "" {
		fmt.Fprintf(&b, "🎫 <a href=\"https://www.aviasales.ru%s\">Купить билет</a>\n", rec.Link)
	}
	return key, b.String()
}

func describeExtra(rec flight.Record, extra *flight.Extra) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Дополнительная информация для рейса %s%s</b>:\n", rec.Airline, rec.FlightNumber)
	if extra.Status != "" {
		fmt.Fprintf(&b, "🚦 <b>Статус рейса</b>: %s\n", extra.Status)
	}
	if extra.AircraftICAO != "" {
		fmt.Fprintf(&b, "✈️ <b>Тип самолета</b>: %s\n", extra.AircraftICAO)
	}
	if extra.SeatsEconomy != nil {
		fmt.Fprintf(&b, "💺 <b>Мест в эконом-классе</b>: %d\n", *extra.SeatsEconomy)
	}
	if extra.SeatsBusiness != nil {
		fmt.Fprintf(&b, "💺 <b>Мест в бизнес-классе</b>: %d\n", *extra.SeatsBusiness)
	}
	if extra.SeatsFirst != nil {
		fmt.Fprintf(&b, "💺 <b>Мест в первом классе</b>: %d\n", *extra.SeatsFirst)
	}
	return b.String()
}

// internalChatID strips the supergroup marker prefix so the id can be used in
// t.me/c/ links.
func internalChatID(chatID string) string {
	return strings.TrimPrefix(chatID, "-100")
}
