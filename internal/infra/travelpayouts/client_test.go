package travelpayouts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{Token: "tp-token", BaseURL: server.URL}, nil)
	require.NoError(t, err)
	return client
}

func TestSearchOneWayParsesResults(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_, _ = w.Write([]byte(`{
			"success": true,
			"currency": "rub",
			"data": [{
				"origin": "UFA",
				"destination": "USK",
				"origin_airport": "UFA",
				"destination_airport": "USK",
				"price": 12250,
				"airline": "UT",
				"flight_number": "545",
				"departure_at": "2025-09-15T10:35:00+05:00",
				"transfers": 0,
				"duration": 150,
				"link": "/search/UFA1509USK1",
				"seats": 4
			}]
		}`))
	})

	records, err := client.SearchOneWay(context.Background(), "UFA", "USK",
		time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "UT", rec.Airline)
	assert.Equal(t, "545", rec.FlightNumber)
	assert.Equal(t, int64(12250), rec.Price)
	require.NotNil(t, rec.Duration)
	assert.Equal(t, int64(150), *rec.Duration)
	require.NotNil(t, rec.Seats)
	assert.Equal(t, int64(4), *rec.Seats)

	assert.Equal(t, "2025-09-15", gotQuery["departure_at"])
	assert.Equal(t, "true", gotQuery["one_way"])
	assert.Equal(t, "true", gotQuery["direct"])
	assert.Equal(t, "tp-token", gotQuery["token"])
}

func TestSearchOneWayEmptyResultList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": []}`))
	})

	records, err := client.SearchOneWay(context.Background(), "UFA", "USK", time.Now())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchOneWayUpstreamRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error": "token is invalid"}`))
	})

	_, err := client.SearchOneWay(context.Background(), "UFA", "USK", time.Now())
	assert.ErrorContains(t, err, "token is invalid")
}

func TestSearchOneWayTransportFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})

	_, err := client.SearchOneWay(context.Background(), "UFA", "USK", time.Now())
	assert.ErrorContains(t, err, "status 502")
}

func TestSearchOneWayMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": tru`))
	})

	_, err := client.SearchOneWay(context.Background(), "UFA", "USK", time.Now())
	assert.ErrorContains(t, err, "decode flight search response")
}
