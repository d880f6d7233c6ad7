package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const dateLayout = "2006-01-02"

// AppConfig holds all configuration for the application.
type AppConfig struct {
	// Search source.
	TravelpayoutsToken string
	Origin             string
	Destination        string
	StartDate          time.Time // inclusive
	EndDate            time.Time // inclusive
	Currency           string

	// Messaging backend. Notifications are disabled entirely when the token
	// or chat id is absent.
	TelegramToken   string
	TelegramChatID  string
	DevlogsThreadID string   // operational log thread
	FoundThreadIDs  []string // results threads; more than one enables fan-out

	// Optional enrichment source; absent token disables the step.
	AirlabsToken string

	// Polling.
	PollInterval time.Duration
	PollCron     string // when set, cycles are cron-triggered instead of interval-slept

	// Feature flags.
	EnableStatistics    bool
	EnableDeduplication bool

	// Ambient.
	LogLevel       string
	Environment    string
	MetricsEnabled bool
	MetricsPort    int
}

// TelegramEnabled reports whether the messaging channel is configured.
func (c *AppConfig) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}

// AirlabsEnabled reports whether the enrichment step is configured.
func (c *AppConfig) AirlabsEnabled() bool {
	return c.AirlabsToken != ""
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TravelpayoutsToken = os.Getenv("TRAVELPAYOUTS_API_KEY")
	if cfg.TravelpayoutsToken == "" {
		return nil, fmt.Errorf("TRAVELPAYOUTS_API_KEY is not set")
	}

	cfg.Origin = strings.ToUpper(os.Getenv("ORIGIN"))
	if cfg.Origin == "" {
		return nil, fmt.Errorf("ORIGIN is not set")
	}
	cfg.Destination = strings.ToUpper(os.Getenv("DESTINATION"))
	if cfg.Destination == "" {
		return nil, fmt.Errorf("DESTINATION is not set")
	}

	startDateStr := os.Getenv("START_DATE")
	if startDateStr == "" {
		return nil, fmt.Errorf("START_DATE is not set")
	}
	cfg.StartDate, err = time.Parse(dateLayout, startDateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid START_DATE: %w", err)
	}

	endDateStr := os.Getenv("END_DATE")
	if endDateStr == "" {
		return nil, fmt.Errorf("END_DATE is not set")
	}
	cfg.EndDate, err = time.Parse(dateLayout, endDateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid END_DATE: %w", err)
	}
	if cfg.EndDate.Before(cfg.StartDate) {
		return nil, fmt.Errorf("END_DATE %s is before START_DATE %s", endDateStr, startDateStr)
	}

	cfg.Currency = strings.ToLower(os.Getenv("CURRENCY"))
	if cfg.Currency == "" {
		cfg.Currency = "rub"
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	cfg.DevlogsThreadID = os.Getenv("TELEGRAM_DEVLOGS_TOPIC_ID")
	for _, id := range strings.Split(os.Getenv("TELEGRAM_FOUND_TOPIC_IDS"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			cfg.FoundThreadIDs = append(cfg.FoundThreadIDs, id)
		}
	}

	cfg.AirlabsToken = os.Getenv("AIRLABS_API_KEY")

	intervalHours := 6
	if s := os.Getenv("POLL_INTERVAL_HOURS"); s != "" {
		intervalHours, err = strconv.Atoi(s)
		if err != nil || intervalHours <= 0 {
			return nil, fmt.Errorf("invalid POLL_INTERVAL_HOURS: %q", s)
		}
	}
	cfg.PollInterval = time.Duration(intervalHours) * time.Hour

	cfg.PollCron = os.Getenv("POLL_CRON")

	cfg.EnableStatistics, err = boolEnv("ENABLE_STATISTICS", true)
	if err != nil {
		return nil, err
	}
	cfg.EnableDeduplication, err = boolEnv("ENABLE_DEDUPLICATION", true)
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.MetricsEnabled, err = boolEnv("METRICS_ENABLED", false)
	if err != nil {
		return nil, err
	}
	cfg.MetricsPort = 8081
	if s := os.Getenv("METRICS_PORT"); s != "" {
		cfg.MetricsPort, err = strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid METRICS_PORT: %q", s)
		}
	}

	return cfg, nil
}

func boolEnv(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}
