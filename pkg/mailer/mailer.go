package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/campusconnect/portal-api/pkg/config"
)

// Mailer delivers transactional mail through an HTTP mail API. With no API
// URL configured it degrades to logging the message, which keeps development
// environments mail-free.
type Mailer struct {
	cfg    config.MailConfig
	client *http.Client
	logger *zap.Logger
}

// New constructs a Mailer.
func New(cfg config.MailConfig, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type sendRequest struct {
	From     address     `json:"from"`
	To       []recipient `json:"to"`
	Subject  string      `json:"subject"`
	HTMLBody string      `json:"htmlbody"`
}

type address struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type recipient struct {
	Email address `json:"email_address"`
}

// Send delivers a single HTML email.
func (m *Mailer) Send(ctx context.Context, to, toName, subject, htmlBody string) error {
	if m.cfg.APIURL == "" {
		m.logger.Sugar().Infow("mail api not configured, logging message instead",
			"to", to, "subject", subject)
		return nil
	}

	payload := sendRequest{
		From:     address{Address: m.cfg.FromAddress},
		To:       []recipient{{Email: address{Address: to, Name: toName}}},
		Subject:  subject,
		HTMLBody: htmlBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", m.cfg.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail api returned status %d", resp.StatusCode)
	}

	m.logger.Sugar().Infow("mail sent", "to", to, "subject", subject)
	return nil
}
