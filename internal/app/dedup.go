// internal/app/dedup.go
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	domainTelegram "flight_watch_bot/internal/domain/telegram"
	"flight_watch_bot/internal/infra/metrics"
)

// historyFetchLimit bounds the dedup window: the most recent N messages on a
// thread are consulted, never more.
const historyFetchLimit = 100

// Deduper suppresses repeat alerts by scanning recent thread history on the
// messaging backend. It keeps no local state, so it survives process restarts
// without re-announcing known findings.
type Deduper struct {
	client domainTelegram.Client
	chatID string
	limit  int
	logger *logrus.Logger
}

func NewDeduper(client domainTelegram.Client, chatID string, logger *logrus.Logger) *Deduper {
	if logger == nil {
		logger = logrus.New()
	}
	return &Deduper{
		client: client,
		chatID: chatID,
		limit:  historyFetchLimit,
		logger: logger,
	}
}

// WasRecentlySent reports whether any recent message on the thread contains
// candidate as a substring. The scan short-circuits on the first match.
// Substring matching is a deliberate heuristic: announcement texts embed the
// date and count, which is enough to tell findings apart.
func (d *Deduper) WasRecentlySent(ctx context.Context, threadID, candidate string) (bool, error) {
	messageIDs, err := d.client.History(ctx, d.chatID, threadID, d.limit)
	if err != nil {
		return false, fmt.Errorf("fetch thread history: %w", err)
	}

	for _, id := range messageIDs {
		text, err := d.client.MessageText(ctx, d.chatID, id)
		if err != nil {
			// A single unreadable entry must not block the scan.
			d.logger.WithError(err).WithField("message_id", id).Debug("skipping unreadable history entry")
			continue
		}
		if strings.Contains(text, candidate) {
			metrics.RecordDedupHit()
			return true, nil
		}
	}
	return false, nil
}
