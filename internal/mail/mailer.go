// Package mail sends transactional email through an HTTP relay.
// Sending is fire-and-forget from the workflow's perspective; callers
// log failures and continue.
package mail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Message is one outbound email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// RelayMailer posts messages to an HTTP mail relay.
type RelayMailer struct {
	client *resty.Client
	from   string
}

// NewRelayMailer creates a mailer against the given relay base URL.
func NewRelayMailer(baseURL, from string) *RelayMailer {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	return &RelayMailer{client: c, from: from}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (m *RelayMailer) Send(ctx context.Context, msg Message) error {
	req := sendRequest{From: m.from, To: msg.To, Subject: msg.Subject, HTML: msg.HTML}
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(&req).
		Post("/api/send")
	if err != nil {
		return fmt.Errorf("mail relay request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusAccepted {
		return fmt.Errorf("mail relay status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Noop discards every message. Used when no relay is configured.
type Noop struct{}

func (Noop) Send(context.Context, Message) error { return nil }

// New returns a relay-backed mailer, or Noop when relayURL is empty.
func New(relayURL, from string) Mailer {
	if relayURL == "" {
		return Noop{}
	}
	return NewRelayMailer(relayURL, from)
}
