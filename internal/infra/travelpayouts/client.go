// Package travelpayouts implements the flight search source.
package travelpayouts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"flight_watch_bot/internal/domain/flight"
)

const (
	defaultBaseURL = "https://api.travelpayouts.com"
	searchPath     = "/aviasales/v3/prices_for_dates"
	defaultTimeout = 30 * time.Second

	resultLimit = "30"
	dateLayout  = "2006-01-02"
)

// Config for the search client.
type Config struct {
	Token    string
	Currency string
	BaseURL  string // overridable for tests
}

// Client queries one-way direct flight prices per calendar date.
type Client struct {
	http   *resty.Client
	cfg    Config
	logger *logrus.Logger
}

func NewClient(cfg Config, logger *logrus.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("travelpayouts token is required")
	}
	if cfg.Currency == "" {
		cfg.Currency = "rub"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Client{
		http:   resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(defaultTimeout).SetRetryCount(0),
		cfg:    cfg,
		logger: logger,
	}, nil
}

type searchResponse struct {
	Success  bool           `json:"success"`
	Currency string         `json:"currency"`
	Error    string         `json:"error"`
	Data     []searchResult `json:"data"`
}

type searchResult struct {
	Origin             string `json:"origin"`
	Destination        string `json:"destination"`
	OriginAirport      string `json:"origin_airport"`
	DestinationAirport string `json:"destination_airport"`
	Price              int64  `json:"price"`
	Airline            string `json:"airline"`
	FlightNumber       string `json:"flight_number"`
	DepartureAt        string `json:"departure_at"`
	Transfers          int64  `json:"transfers"`
	Duration           *int64 `json:"duration"`
	Link               string `json:"link"`
	Seats              *int64 `json:"seats"`
}

// SearchOneWay returns normalized direct one-way results for a single date.
// A transport failure, non-2xx response or success=false payload is a
// recoverable per-date error.
func (c *Client) SearchOneWay(ctx context.Context, origin, destination string, date time.Time) ([]flight.Record, error) {
	departureDate := date.Format(dateLayout)
	c.logger.WithFields(logrus.Fields{
		"origin":      origin,
		"destination": destination,
		"date":        departureDate,
	}).Debug("searching flights")

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"origin":       origin,
			"destination":  destination,
			"departure_at": departureDate,
			"currency":     c.cfg.Currency,
			"limit":        resultLimit,
			"page":         "1",
			"one_way":      "true",
			"direct":       "true",
			"token":        c.cfg.Token,
		}).
		Get(searchPath)
	if err != nil {
		return nil, fmt.Errorf("flight search request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("flight search failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	var decoded searchResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return nil, fmt.Errorf("decode flight search response: %w", err)
	}
	if !decoded.Success {
		return nil, fmt.Errorf("flight search rejected: %s", decoded.Error)
	}

	records := make([]flight.Record, 0, len(decoded.Data))
	for _, r := range decoded.Data {
		records = append(records, flight.Record{
			Origin:             r.Origin,
			Destination:        r.Destination,
			OriginAirport:      r.OriginAirport,
			DestinationAirport: r.DestinationAirport,
			Airline:            r.Airline,
			FlightNumber:       r.FlightNumber,
			DepartureAt:        r.DepartureAt,
			Price:              r.Price,
			Transfers:          r.Transfers,
			Duration:           r.Duration,
			Seats:              r.Seats,
			Link:               r.Link,
		})
	}
	return records, nil
}
