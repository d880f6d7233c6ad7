package app

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"flight_watch_bot/internal/domain/flight"
	domainTelegram "flight_watch_bot/internal/domain/telegram"
)

// eventLog records cross-fake call ordering for sequencing assertions.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(event string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

type editCall struct {
	chatID, messageID, text, threadID string
}

// fakeChannel implements the domain telegram.Client port in memory.
type fakeChannel struct {
	log *eventLog

	sent          []domainTelegram.Request
	edits         []editCall
	sendErr       error
	sendWithIDErr error
	editErr       error

	nextMessageID int

	history     map[string][]string // thread id -> message ids
	historyErr  error
	texts       map[string]string // message id -> text
	textFetches int
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		nextMessageID: 100,
		history:       map[string][]string{},
		texts:         map[string]string{},
	}
}

func (f *fakeChannel) Send(ctx context.Context, req domainTelegram.Request) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, req)
	f.log.add("send:" + req.ThreadID)
	return nil
}

func (f *fakeChannel) SendWithID(ctx context.Context, req domainTelegram.Request) (string, error) {
	if f.sendWithIDErr != nil {
		return "", f.sendWithIDErr
	}
	f.sent = append(f.sent, req)
	f.nextMessageID++
	f.log.add("send:" + req.ThreadID)
	return strconv.Itoa(f.nextMessageID), nil
}

func (f *fakeChannel) Edit(ctx context.Context, chatID, messageID, text, threadID string) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, editCall{chatID: chatID, messageID: messageID, text: text, threadID: threadID})
	return nil
}

func (f *fakeChannel) History(ctx context.Context, chatID, threadID string, limit int) ([]string, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	ids := f.history[threadID]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (f *fakeChannel) MessageText(ctx context.Context, chatID, messageID string) (string, error) {
	f.textFetches++
	text, ok := f.texts[messageID]
	if !ok {
		return "", fmt.Errorf("message %s not found", messageID)
	}
	return text, nil
}

func (f *fakeChannel) SendToThreads(ctx context.Context, req domainTelegram.Request, threadIDs []string) {
	for _, threadID := range threadIDs {
		perThread := req
		perThread.ThreadID = threadID
		_ = f.Send(ctx, perThread)
	}
}

// sentTo returns the texts delivered to one thread, in order.
func (f *fakeChannel) sentTo(threadID string) []string {
	var texts []string
	for _, req := range f.sent {
		if req.ThreadID == threadID {
			texts = append(texts, req.Text)
		}
	}
	return texts
}

// fakeSource scripts per-date search outcomes.
type fakeSource struct {
	log     *eventLog
	results map[string][]flight.Record
	errs    map[string]error
	calls   []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		results: map[string][]flight.Record{},
		errs:    map[string]error{},
	}
}

func (f *fakeSource) SearchOneWay(ctx context.Context, origin, destination string, date time.Time) ([]flight.Record, error) {
	key := date.Format("2006-01-02")
	f.calls = append(f.calls, key)
	f.log.add("search:" + key)
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.results[key], nil
}

// fakeEnricher scripts per-flight enrichment outcomes.
type fakeEnricher struct {
	extras map[string]*flight.Extra
	errs   map[string]error
	calls  []string
}

func (f *fakeEnricher) FlightInfo(ctx context.Context, airline, flightNumber string) (*flight.Extra, error) {
	key := airline + flightNumber
	f.calls = append(f.calls, key)
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.extras[key], nil
}

func record(number string, price int64) flight.Record {
	return flight.Record{
		Origin:             "UFA",
		Destination:        "USK",
		OriginAirport:      "UFA",
		DestinationAirport: "USK",
		Airline:            "UT",
		FlightNumber:       number,
		DepartureAt:        "2025-09-15T10:35:00+05:00",
		Price:              price,
	}
}
