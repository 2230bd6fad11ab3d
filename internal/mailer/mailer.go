// Package mailer delivers one-time passwords through the external
// Apps Script webhook. The webhook is treated as opaque: POST a JSON
// body, HTTP 200 means delivered, anything else is a delivery failure.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

type Client struct {
	url    string
	secret string
	http   *http.Client
}

func New(url, secret string) *Client {
	return &Client{
		url:    url,
		secret: secret,
		http:   &http.Client{Timeout: requestTimeout},
	}
}

type otpPayload struct {
	Email  string `json:"email"`
	OTP    string `json:"otp"`
	Secret string `json:"secret"`
}

// SendOTP posts the code to the webhook. A non-200 status or network
// error is returned to the caller; the code itself is already persisted
// by then and stays valid either way.
func (c *Client) SendOTP(ctx context.Context, email, code string) error {
	body, err := json.Marshal(otpPayload{Email: email, OTP: code, Secret: c.secret})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling otp webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("otp webhook returned status %d", resp.StatusCode)
	}

	return nil
}
