package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dimitrije/wicket-api/internal/config"
	"github.com/dimitrije/wicket-api/internal/models"
)

// PushSink posts to the Expo push API.
type PushSink struct {
	cfg    config.PushConfig
	client *http.Client
}

func NewPushSink(cfg config.PushConfig) *PushSink {
	return &PushSink{cfg: cfg, client: &http.Client{Timeout: 10 * time.Second}}
}

func (s *PushSink) Name() string { return "push" }

type pushMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound"`
}

type pushResponse struct {
	Data []struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"data"`
}

func (s *PushSink) Send(ctx context.Context, to models.TeamContact, n Notice) error {
	if s.cfg.URL == "" {
		return nil
	}
	if !strings.HasPrefix(to.PushToken, "ExponentPushToken[") && !strings.HasPrefix(to.PushToken, "ExpoPushToken[") {
		return ErrNoAddress
	}

	payload, err := json.Marshal([]pushMessage{{
		To:    to.PushToken,
		Title: n.Title,
		Body:  n.Body,
		Data:  n.Data,
		Sound: "default",
	}})
	if err != nil {
		return fmt.Errorf("failed to encode push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.cfg.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.AccessToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}

	var out pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("failed to decode push response: %w", err)
	}
	for _, ticket := range out.Data {
		if ticket.Status == "error" {
			return fmt.Errorf("push rejected: %s", ticket.Message)
		}
	}
	return nil
}
