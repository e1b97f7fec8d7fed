// Package whatsapp is the transport boundary: the Cloud API send client and
// the inbound webhook.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Config identifies the WhatsApp Business phone number messages are sent from.
type Config struct {
	BaseURL       string
	PhoneNumberID string
	AccessToken   string
	VerifyToken   string
}

// Sender sends one outbound text message. Client implements it; the webhook,
// reminder dispatcher and scheduler depend on this interface.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// Client calls the WhatsApp Business Cloud API.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

type sendTextPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// SendText posts one text message. Non-2xx responses are errors; the caller
// decides whether to retry (this core never does).
func (c *Client) SendText(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(sendTextPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Text:             textBody{Body: body},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.cfg.BaseURL, c.cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.log.Error("whatsapp send rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", detail),
		)
		return fmt.Errorf("whatsapp send failed with status %d", resp.StatusCode)
	}

	c.log.Info("whatsapp message sent", zap.String("to", to))
	return nil
}
