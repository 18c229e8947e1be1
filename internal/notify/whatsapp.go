package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dimitrije/wicket-api/internal/config"
	"github.com/dimitrije/wicket-api/internal/models"
)

// WhatsAppSink sends plain text messages through the WhatsApp Cloud API.
type WhatsAppSink struct {
	cfg    config.WhatsAppConfig
	client *http.Client
}

func NewWhatsAppSink(cfg config.WhatsAppConfig) *WhatsAppSink {
	return &WhatsAppSink{cfg: cfg, client: &http.Client{Timeout: 10 * time.Second}}
}

func (s *WhatsAppSink) Name() string { return "whatsapp" }

func (s *WhatsAppSink) IsConfigured() bool {
	return s.cfg.APIURL != "" && s.cfg.Token != "" && s.cfg.PhoneNumberID != ""
}

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

// normalizePhone strips everything but digits; the API wants the number with
// country code and no plus sign.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *WhatsAppSink) Send(ctx context.Context, to models.TeamContact, n Notice) error {
	phone := normalizePhone(to.Phone)
	if !s.IsConfigured() || len(phone) < 8 {
		return ErrNoAddress
	}

	payload, err := json.Marshal(whatsAppMessage{
		MessagingProduct: "whatsapp",
		To:               phone,
		Type:             "text",
		Text:             whatsAppText{Body: fmt.Sprintf("*%s*\n%s", n.Title, n.Body)},
	})
	if err != nil {
		return fmt.Errorf("failed to encode whatsapp message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", strings.TrimRight(s.cfg.APIURL, "/"), s.cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
