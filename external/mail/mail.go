package mail

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sender is what the services depend on; tests swap in a fake.
type Sender interface {
	Send(to, subject, html string) error
}

// Mailer delivers over an HTTP mail API. Delivery failures are the caller's
// problem: everything except the registration OTP is fire-and-forget.
type Mailer struct {
	apiKey  string
	from    string
	client  *http.Client
	baseURL string
}

func NewMailer(apiKey, from string) *Mailer {
	return &Mailer{
		apiKey:  apiKey,
		from:    from,
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: "https://api.resend.com",
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *Mailer) Send(to, subject, html string) error {
	if m.apiKey == "" {
		return errors.New("mail api key not configured")
	}

	body, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("mail send: status %d", res.StatusCode)
	}
	return nil
}
