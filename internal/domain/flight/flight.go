// internal/domain/flight/flight.go
package flight

import (
	"context"
	"time"
)

// Record is one normalized one-way flight result from the search source.
// Immutable once constructed.
type Record struct {
	Origin             string // city IATA code
	Destination        string // city IATA code
	OriginAirport      string
	DestinationAirport string
	Airline            string // carrier IATA code
	FlightNumber       string
	DepartureAt        string // RFC-3339 as reported upstream
	Price              int64
	Transfers          int64
	Duration           *int64 // minutes, when reported
	Seats              *int64
	Link               string // booking link suffix
}

// Extra is supplementary per-flight information from the enrichment source.
type Extra struct {
	Status        string
	AircraftICAO  string
	SeatsEconomy  *int64
	SeatsBusiness *int64
	SeatsFirst    *int64
}

// HasSeatInfo reports whether any seat-availability field is populated.
func (e *Extra) HasSeatInfo() bool {
	return e.SeatsEconomy != nil || e.SeatsBusiness != nil || e.SeatsFirst != nil
}

// Source issues one search request per calendar date.
type Source interface {
	SearchOneWay(ctx context.Context, origin, destination string, date time.Time) ([]Record, error)
}

// Enricher looks up supplementary information for a single flight.
type Enricher interface {
	FlightInfo(ctx context.Context, airline, flightNumber string) (*Extra, error)
}
