// Package messaging contains the outbound WhatsApp dispatch adapters.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fiado/backend/internal/application/billing"
	"github.com/fiado/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	twilioBaseURL  = "https://api.twilio.com"
	whatsappPrefix = "whatsapp:+"
)

// TwilioDispatcher sends WhatsApp messages through Twilio's Messages API.
// The request timeout bounds every Send so one slow provider call cannot
// stall a reminder tick.
type TwilioDispatcher struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	httpClient *http.Client
}

// NewTwilioDispatcher creates a dispatcher from the WhatsApp configuration.
func NewTwilioDispatcher(cfg config.WhatsAppConfig) *TwilioDispatcher {
	return &TwilioDispatcher{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		baseURL:    twilioBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// twilioError is the error body Twilio returns on failed requests.
type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send posts one message. The phone must already be in digits-only form
// with the country code; the whatsapp channel prefix is added here.
func (d *TwilioDispatcher) Send(ctx context.Context, phone, text string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", d.baseURL, d.accountSID)

	form := url.Values{}
	form.Set("From", whatsappPrefix+strings.TrimPrefix(d.fromNumber, "+"))
	form.Set("To", whatsappPrefix+phone)
	form.Set("Body", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(d.accountSID, d.authToken)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("twilio: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr twilioError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("twilio: HTTP %d: %s (code %d)", resp.StatusCode, apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("twilio: HTTP %d", resp.StatusCode)
	}

	return nil
}

// LogDispatcher writes messages to the log instead of sending them. It is
// the dispatcher used when WhatsApp credentials are not configured, so
// development environments see the full reminder flow without a provider.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a dispatcher that only logs.
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Send logs the message and reports success.
func (d *LogDispatcher) Send(_ context.Context, phone, text string) error {
	d.logger.Info("WhatsApp dispatch disabled, logging message instead",
		zap.String("to", phone),
		zap.String("text", text))
	return nil
}

// Ensure both dispatchers implement MessageDispatcher
var (
	_ billing.MessageDispatcher = (*TwilioDispatcher)(nil)
	_ billing.MessageDispatcher = (*LogDispatcher)(nil)
)
