package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"storefront-checkout/internal/config"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrRecipientUnreachable means the chat exists on the other side of a
// working transport but cannot receive messages (unknown chat, bot blocked).
var ErrRecipientUnreachable = errors.New("recipient unreachable")

type MessengerClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type messengerClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	token      string
	breaker    *gobreaker.CircuitBreaker[struct{}]
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// NewMessengerClient talks to a Bot-API compatible HTTP endpoint. Calls go
// through a circuit breaker that only counts transport failures: an
// unreachable recipient is an answer, not an outage.
func NewMessengerClient(cfg *config.Messenger) MessengerClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &messengerClientImpl{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseApiURL: cfg.BaseApiURL,
		token:      cfg.Token,
		breaker: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:    "messenger",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrRecipientUnreachable)
			},
		}),
	}
}

func (c *messengerClientImpl) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.sendMessage(ctx, chatID, text)
	})
	return err
}

func (c *messengerClientImpl) sendMessage(ctx context.Context, chatID int64, text string) error {
	body, err := json.Marshal(&sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("marshal send message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseApiURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", redactURL(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", redactURL(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read send message response: %w", err)
	}

	var res apiResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return fmt.Errorf("decode send message response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode == http.StatusOK && res.OK {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusForbidden:
		return fmt.Errorf("chat %d: %s: %w", chatID, res.Description, ErrRecipientUnreachable)
	}

	return fmt.Errorf("send message to chat %d: status %d: %s", chatID, resp.StatusCode, res.Description)
}

// redactURL drops the request URL from a *url.Error; the bot token is part
// of the path.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s sendMessage: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
