// Package otp is the HTTP client for the external SMS verification provider.
// The provider triggers the SMS challenge and checks submitted codes; the
// local OtpVerification ledger is maintained by the auth service, not here.
package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SafalBhandari12/multi-vendor-backend/internal/config"
)

const (
	statusCompleted       = "VERIFICATION_COMPLETED"
	defaultTimeoutSeconds = 60
)

// ProviderError carries the provider's HTTP status so handlers can surface it.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("otp provider: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	http *http.Client
	cfg  config.OTPConfig
}

func NewClient(cfg config.OTPConfig) *Client {
	return &Client{
		http: &http.Client{Timeout: 10 * time.Second},
		cfg:  cfg,
	}
}

type SendResult struct {
	VerificationID string
	TimeoutSeconds int
}

type sendResponse struct {
	Data struct {
		VerificationID string      `json:"verificationId"`
		Timeout        json.Number `json:"timeout"`
	} `json:"data"`
}

type validateResponse struct {
	Data struct {
		VerificationStatus string `json:"verificationStatus"`
	} `json:"data"`
}

// Send triggers an SMS challenge for the phone number. The provider-reported
// timeout defaults to 60s when absent or malformed.
func (c *Client) Send(ctx context.Context, phone, countryCode string) (SendResult, error) {
	q := url.Values{}
	q.Set("countryCode", countryCode)
	q.Set("customerId", c.cfg.CustomerID)
	q.Set("flowType", "SMS")
	q.Set("mobileNumber", phone)

	var resp sendResponse
	if err := c.do(ctx, http.MethodPost, c.cfg.SendURL, q, &resp); err != nil {
		return SendResult{}, err
	}

	timeout := defaultTimeoutSeconds
	if v, err := resp.Data.Timeout.Int64(); err == nil && v > 0 {
		timeout = int(v)
	}

	return SendResult{
		VerificationID: resp.Data.VerificationID,
		TimeoutSeconds: timeout,
	}, nil
}

// Validate checks a submitted code. Only an explicit VERIFICATION_COMPLETED
// from the provider counts as success.
func (c *Client) Validate(ctx context.Context, phone, countryCode, verificationID, code string) (bool, error) {
	q := url.Values{}
	q.Set("countryCode", countryCode)
	q.Set("mobileNumber", phone)
	q.Set("verificationId", verificationID)
	q.Set("customerId", c.cfg.CustomerID)
	q.Set("code", code)

	var resp validateResponse
	if err := c.do(ctx, http.MethodGet, c.cfg.ValidateURL, q, &resp); err != nil {
		return false, err
	}

	return strings.ToUpper(resp.Data.VerificationStatus) == statusCompleted, nil
}

func (c *Client) do(ctx context.Context, method, baseURL string, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("otp provider: build request: %w", err)
	}
	req.Header.Set("authToken", c.cfg.AuthToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("otp provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("otp provider: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProviderError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("otp provider: decode response: %w", err)
	}

	return nil
}
