// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	domain "flight_watch_bot/internal/domain/telegram"
	"flight_watch_bot/internal/infra/metrics"
)

const (
	defaultBaseURL     = "https://api.telegram.org"
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 5
	defaultBaseDelay   = 1 * time.Second
	defaultCooldown    = 1 * time.Second

	// DefaultThreadID is the backend's default-thread sentinel; requests
	// targeting it omit the thread id entirely.
	DefaultThreadID = "1"
)

// Config for the messaging-backend client.
type Config struct {
	Token       string
	BaseURL     string        // overridable for tests
	MaxAttempts int           // retry cap for rate-limited calls
	BaseDelay   time.Duration // exponential backoff base
	Cooldown    time.Duration // fixed post-success delay
}

// Client implements the domain telegram.Client port over the raw Bot API.
// All calls share one retry protocol: rate-limit responses are retried with
// a backend-suggested or exponential backoff, anything else fails immediately.
type Client struct {
	http   *resty.Client
	cfg    Config
	logger *logrus.Logger

	// sleep is injected so tests can observe backoff durations.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient builds a client for the given bot token.
func NewClient(cfg Config, logger *logrus.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.Cooldown < 0 {
		cfg.Cooldown = defaultCooldown
	}
	if logger == nil {
		logger = logrus.New()
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL + "/bot" + cfg.Token).
		SetTimeout(defaultTimeout).
		SetRetryCount(0) // the call loop owns retries

	return &Client{
		http:   httpClient,
		cfg:    cfg,
		logger: logger,
		sleep:  sleepContext,
	}, nil
}

type sendMessageRequest struct {
	ChatID                string         `json:"chat_id"`
	Text                  string         `json:"text"`
	ParseMode             string         `json:"parse_mode"`
	DisableWebPagePreview bool           `json:"disable_web_page_preview"`
	MessageThreadID       string         `json:"message_thread_id,omitempty"`
	ReplyMarkup           map[string]any `json:"reply_markup,omitempty"`
}

type editMessageRequest struct {
	ChatID                string `json:"chat_id"`
	MessageID             string `json:"message_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
	MessageThreadID       string `json:"message_thread_id,omitempty"`
}

type historyRequest struct {
	ChatID          string `json:"chat_id"`
	Limit           int    `json:"limit"`
	MessageThreadID string `json:"message_thread_id,omitempty"`
}

type getMessageRequest struct {
	ChatID    string `json:"chat_id"`
	MessageID string `json:"message_id"`
}

type sendMessageResponse struct {
	Result struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

type historyResponse struct {
	Result []struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

type getMessageResponse struct {
	Result struct {
		Text string `json:"text"`
	} `json:"result"`
}

// rateLimitBody is the error envelope a rate-limited call may carry.
type rateLimitBody struct {
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter float64 `json:"retry_after"`
	} `json:"parameters"`
}

// Send delivers a message.
func (c *Client) Send(ctx context.Context, req domain.Request) error {
	_, err := c.call(ctx, "sendMessage", newSendBody(req))
	return err
}

// SendWithID delivers a message and returns the backend-assigned message id.
func (c *Client) SendWithID(ctx context.Context, req domain.Request) (string, error) {
	body, err := c.call(ctx, "sendMessage", newSendBody(req))
	if err != nil {
		return "", err
	}

	var decoded sendMessageResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode sendMessage response: %w", err)
	}
	if decoded.Result.MessageID == 0 {
		return "", fmt.Errorf("sendMessage response contains no message id")
	}
	return strconv.FormatInt(decoded.Result.MessageID, 10), nil
}

// Edit replaces the text of an already delivered message.
func (c *Client) Edit(ctx context.Context, chatID, messageID, text, threadID string) error {
	_, err := c.call(ctx, "editMessageText", editMessageRequest{
		ChatID:                chatID,
		MessageID:             messageID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
		MessageThreadID:       wireThreadID(threadID),
	})
	return err
}

// History lists up to limit recent message ids on a thread.
func (c *Client) History(ctx context.Context, chatID, threadID string, limit int) ([]string, error) {
	body, err := c.call(ctx, "getChatHistory", historyRequest{
		ChatID:          chatID,
		Limit:           limit,
		MessageThreadID: wireThreadID(threadID),
	})
	if err != nil {
		return nil, err
	}

	var decoded historyResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode getChatHistory response: %w", err)
	}
	ids := make([]string, 0, len(decoded.Result))
	for _, m := range decoded.Result {
		ids = append(ids, strconv.FormatInt(m.MessageID, 10))
	}
	return ids, nil
}

// MessageText fetches the current text of a single message.
func (c *Client) MessageText(ctx context.Context, chatID, messageID string) (string, error) {
	body, err := c.call(ctx, "getMessage", getMessageRequest{ChatID: chatID, MessageID: messageID})
	if err != nil {
		return "", err
	}

	var decoded getMessageResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode getMessage response: %w", err)
	}
	return decoded.Result.Text, nil
}

// SendToThreads delivers the request to every thread id, best effort. A
// failure on one thread is logged and does not abort delivery to the rest.
func (c *Client) SendToThreads(ctx context.Context, req domain.Request, threadIDs []string) {
	for _, threadID := range threadIDs {
		perThread := req
		perThread.ThreadID = threadID
		if err := c.Send(ctx, perThread); err != nil {
			c.logger.WithError(err).WithField("thread_id", threadID).
				Error("failed to deliver message to thread")
		}
	}
}

func newSendBody(req domain.Request) sendMessageRequest {
	return sendMessageRequest{
		ChatID:                req.ChatID,
		Text:                  req.Text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
		MessageThreadID:       wireThreadID(req.ThreadID),
		ReplyMarkup:           req.ReplyMarkup,
	}
}

// call issues one backend method with the shared retry protocol.
func (c *Client) call(ctx context.Context, method string, body any) ([]byte, error) {
	for attempt := 1; ; attempt++ {
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post("/" + method)
		if err != nil {
			metrics.RecordTelegramCall(method, false)
			return nil, fmt.Errorf("%s request failed: %w", method, err)
		}

		if resp.IsSuccess() {
			metrics.RecordTelegramCall(method, true)
			// Fixed cooldown keeps the send rate under the backend's ceiling.
			_ = c.sleep(ctx, c.cfg.Cooldown)
			return resp.Body(), nil
		}

		status := resp.StatusCode()
		respBody := resp.String()

		if status != http.StatusTooManyRequests {
			metrics.RecordTelegramCall(method, false)
			return nil, &APIError{Status: status, Body: respBody}
		}

		if attempt >= c.cfg.MaxAttempts {
			metrics.RecordTelegramCall(method, false)
			return nil, &RetriesExhaustedError{Attempts: attempt, LastBody: respBody}
		}

		// The backend-suggested wait reflects its actual recovery time and
		// takes precedence over the exponential fallback.
		wait := retryAfter(respBody)
		if wait <= 0 {
			wait = c.cfg.BaseDelay << attempt
		}

		metrics.RecordTelegramRetry(method)
		c.logger.WithFields(logrus.Fields{
			"method":  method,
			"attempt": attempt,
			"max":     c.cfg.MaxAttempts,
			"wait":    wait.String(),
		}).Warn("telegram API rate limited, backing off")

		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func retryAfter(body string) time.Duration {
	var decoded rateLimitBody
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return 0
	}
	if decoded.Parameters.RetryAfter <= 0 {
		return 0
	}
	return time.Duration(decoded.Parameters.RetryAfter * float64(time.Second))
}

func wireThreadID(id string) string {
	if id == "" || id == DefaultThreadID {
		return ""
	}
	return id
}

// sleepContext waits for d or until ctx is cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
