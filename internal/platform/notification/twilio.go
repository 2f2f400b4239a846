package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// TwilioWhatsApp sends messages over the WhatsApp channel of the Twilio
// Messages API.
type TwilioWhatsApp struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
	logger     zerolog.Logger
}

func NewTwilioWhatsApp(accountSID, authToken, from string, logger zerolog.Logger) *TwilioWhatsApp {
	return &TwilioWhatsApp{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    twilioBaseURL,
		client:     &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Send posts one message to the Twilio Messages endpoint. Twilio responds
// 201 on accepted messages; anything else is an error.
func (t *TwilioWhatsApp) Send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, t.accountSID)

	form := url.Values{}
	form.Set("From", "whatsapp:"+t.from)
	form.Set("To", "whatsapp:"+to)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build twilio request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		t.logger.Warn().
			Int("status", resp.StatusCode).
			Str("to", to).
			Msg("twilio rejected message")
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, string(detail))
	}

	return nil
}

// NoopSender is used when reminders are not configured; it logs and drops.
type NoopSender struct {
	Logger zerolog.Logger
}

func (n NoopSender) Send(_ context.Context, to, _ string) error {
	n.Logger.Debug().Str("to", to).Msg("reminders disabled, message dropped")
	return nil
}
