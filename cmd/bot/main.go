package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"flight_watch_bot/internal/app"
	"flight_watch_bot/internal/domain/flight"
	domainTelegram "flight_watch_bot/internal/domain/telegram"
	"flight_watch_bot/internal/format"
	"flight_watch_bot/internal/infra/airlabs"
	"flight_watch_bot/internal/infra/config"
	"flight_watch_bot/internal/infra/logger"
	"flight_watch_bot/internal/infra/metrics"
	"flight_watch_bot/internal/infra/scheduler"
	"flight_watch_bot/internal/infra/telegram"
	"flight_watch_bot/internal/infra/travelpayouts"
	"flight_watch_bot/internal/refdata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.WithFields(logrus.Fields{
		"origin":      cfg.Origin,
		"destination": cfg.Destination,
		"start_date":  cfg.StartDate.Format("2006-01-02"),
		"end_date":    cfg.EndDate.Format("2006-01-02"),
		"environment": cfg.Environment,
	}).Info("flight watch starting")

	metrics.Init(metrics.Config{Enabled: cfg.MetricsEnabled, Port: cfg.MetricsPort}, log)

	source, err := travelpayouts.NewClient(travelpayouts.Config{
		Token:    cfg.TravelpayoutsToken,
		Currency: cfg.Currency,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("could not create flight search client")
	}

	var channel domainTelegram.Client
	if cfg.TelegramEnabled() {
		tgClient, err := telegram.NewClient(telegram.Config{Token: cfg.TelegramToken}, log)
		if err != nil {
			log.WithError(err).Fatal("could not create messaging client")
		}
		channel = tgClient
	} else {
		log.Warn("messaging backend not configured, findings will only be logged")
	}

	var enricher flight.Enricher
	if cfg.AirlabsEnabled() {
		alClient, err := airlabs.NewClient(airlabs.Config{Token: cfg.AirlabsToken}, log)
		if err != nil {
			log.WithError(err).Fatal("could not create enrichment client")
		}
		enricher = alClient
	}

	var deduper *app.Deduper
	if cfg.EnableDeduplication && channel != nil {
		deduper = app.NewDeduper(channel, cfg.TelegramChatID, log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reporter *app.StatusReporter
	if cfg.EnableStatistics && channel != nil {
		reporter = app.NewStatusReporter(channel, app.StatusReporterConfig{
			ChatID:        cfg.TelegramChatID,
			ThreadID:      cfg.DevlogsThreadID,
			OriginName:    refdata.CityName(cfg.Origin),
			DestName:      refdata.CityName(cfg.Destination),
			DateRangeText: format.DateRange(cfg.StartDate, cfg.EndDate),
			IntervalHours: int(cfg.PollInterval.Hours()),
		}, log)
		reporter.Start(ctx)
	}

	watcher := app.NewWatcherService(source, enricher, channel, deduper, reporter, app.WatcherConfig{
		Origin:          cfg.Origin,
		Destination:     cfg.Destination,
		StartDate:       cfg.StartDate,
		EndDate:         cfg.EndDate,
		ChatID:          cfg.TelegramChatID,
		DevlogsThreadID: cfg.DevlogsThreadID,
		FoundThreadIDs:  cfg.FoundThreadIDs,
		Interval:        cfg.PollInterval,
	}, log)

	var cycleScheduler *scheduler.CycleScheduler
	if cfg.PollCron != "" {
		cycleScheduler = scheduler.New(watcher, cfg.PollCron, log)
		if err := cycleScheduler.Start(ctx); err != nil {
			log.WithError(err).Fatal("could not start cycle scheduler")
		}
	} else {
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				log.WithError(err).Error("watcher loop stopped")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()
	if cycleScheduler != nil {
		cycleScheduler.Stop()
	}
	log.Info("shut down gracefully")
}
