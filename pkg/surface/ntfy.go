package surface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Ntfy publishes events to an ntfy topic.
type Ntfy struct {
	ctx    context.Context
	server string
	topic  string
	client *http.Client
}

type ntfyMessage struct {
	Topic   string   `json:"topic"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Tags    []string `json:"tags,omitempty"`
}

// NewNtfy creates an ntfy surface for topic on server
func NewNtfy(server, topic string) *Ntfy {
	return &Ntfy{
		ctx:    context.Background(),
		server: strings.TrimRight(server, "/"),
		topic:  topic,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithContext returns a copy of n whose requests are cancelled with ctx.
func (n *Ntfy) WithContext(ctx context.Context) *Ntfy {
	c := *n
	c.ctx = ctx
	return &c
}

// Emit publishes the event. The event name becomes the title.
func (n *Ntfy) Emit(event string, payload any) error {
	body, err := json.Marshal(ntfyMessage{
		Topic:   n.topic,
		Title:   event,
		Message: describe(payload),
		Tags:    []string{event},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal ntfy message: %w", err)
	}

	ctx, cancel := context.WithTimeout(n.ctx, n.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.server+"/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send ntfy message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ntfy returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
