package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/alejandrodnm/bacbot/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.telegram.org"

	// Telegram permite ~1 msg/s por chat.
	messagesPerSec = 1
	messageBurst   = 3

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client envía alertas del monitor a un chat de Telegram. Implementa ports.Notifier.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	chatID  string
	limiter *rate.Limiter
}

// NewClient crea un Client. baseURL vacío usa la API pública de Telegram.
func NewClient(baseURL, token, chatID string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		token:   token,
		chatID:  chatID,
		limiter: rate.NewLimiter(messagesPerSec, messageBurst),
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// Notify formatea la alerta y la envía con sendMessage.
func (c *Client) Notify(ctx context.Context, alert domain.Alert) error {
	if err := c.Send(ctx, FormatAlert(alert)); err != nil {
		return fmt.Errorf("telegram.Notify %s: %w", alert.Kind, err)
	}
	return nil
}

// Send envía un texto HTML crudo al chat configurado.
func (c *Client) Send(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	body := sendMessageRequest{ChatID: c.chatID, Text: text, ParseMode: "HTML"}

	var resp apiResponse
	if err := c.post(ctx, url, body, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("sendMessage rejected: %s", resp.Description)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	return c.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
		if err != nil {
			return nil, stripURL(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.http.Do(req)
		return resp, stripURL(err)
	}, out)
}

// doWithRetry ejecuta fn con rate limiting y retries exponenciales.
// Los errores nunca incluyen la URL: lleva el token del bot.
func (c *Client) doWithRetry(ctx context.Context, fn func() (*http.Response, error), out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			slog.Warn("telegram unavailable, retrying", "status", resp.StatusCode, "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			raw, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(raw))
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// stripURL reemplaza un *url.Error por "<op> sendMessage: <causa>".
func stripURL(err error) error {
	var ue *neturl.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s sendMessage: %w", ue.Op, ue.Err)
	}
	return err
}

func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
