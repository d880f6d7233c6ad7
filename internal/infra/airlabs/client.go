// Package airlabs implements the supplementary per-flight info lookup.
package airlabs

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
	defaultBaseURL = "https://airlabs.co"
	flightPath     = "/api/v9/flight"
	defaultTimeout = 30 * time.Second
)

// Config for the enrichment client.
type Config struct {
	Token   string
	BaseURL string // overridable for tests
}

// Client looks up live flight details (status, aircraft, seat counts).
type Client struct {
	http   *resty.Client
	cfg    Config
	logger *logrus.Logger
}

func NewClient(cfg Config, logger *logrus.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("airlabs token is required")
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

type flightResponse struct {
	Response []flightInfo `json:"response"`
	Error    *apiError    `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Code    int64  `json:"code"`
}

type flightInfo struct {
	Status        *string `json:"status"`
	AircraftICAO  *string `json:"aircraft_icao"`
	SeatsEconomy  *int64  `json:"seats_economy"`
	SeatsBusiness *int64  `json:"seats_business"`
	SeatsFirst    *int64  `json:"seats_first"`
}

// FlightInfo fetches supplementary data for one flight, identified by its
// IATA designator. Returns nil when the source knows nothing about it.
func (c *Client) FlightInfo(ctx context.Context, airline, flightNumber string) (*flight.Extra, error) {
	designator := airline + flightNumber
	c.logger.WithField("flight", designator).Debug("querying enrichment source")

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"api_key":     c.cfg.Token,
			"flight_iata": designator,
		}).
		Get(flightPath)
	if err != nil {
		return nil, fmt.Errorf("enrichment request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("enrichment request failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	var decoded flightResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return nil, fmt.Errorf("decode enrichment response: %w", err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return nil, fmt.Errorf("enrichment source error: %s", decoded.Error.Message)
	}
	if len(decoded.Response) == 0 {
		return nil, nil
	}

	info := decoded.Response[0]
	extra := &flight.Extra{
		SeatsEconomy:  info.SeatsEconomy,
		SeatsBusiness: info.SeatsBusiness,
		SeatsFirst:    info.SeatsFirst,
	}
	if info.Status != nil {
		extra.Status = *info.Status
	}
	if info.AircraftICAO != nil {
		extra.AircraftICAO = *info.AircraftICAO
	}
	return extra, nil
}
