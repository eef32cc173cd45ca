// Package paystack is a minimal client for the Paystack transaction
// verification endpoint. Amounts on the wire are in the currency's minor
// unit and are converted to major units here.
package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/parkwell-gh/parkwell/internal/engine"
)

const defaultBaseURL = "https://api.paystack.co"

type Client struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func New(secretKey string) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithBaseURL exists for tests that point the client at a local server.
func NewWithBaseURL(secretKey, baseURL string) *Client {
	c := New(secretKey)
	c.baseURL = baseURL
	return c
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string `json:"status"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	} `json:"data"`
}

// Verify fetches the gateway-side result for a payment reference. Any
// transport or API failure is returned as an error; interpreting the
// returned status is the caller's responsibility.
func (c *Client) Verify(ctx context.Context, reference string) (*engine.GatewayPayment, error) {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, url.PathEscape(reference))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verifying reference %s: %w", reference, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify returned status %d", resp.StatusCode)
	}

	var vr verifyResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("decoding verify response: %w", err)
	}
	if !vr.Status {
		return nil, fmt.Errorf("verify rejected: %s", vr.Message)
	}

	return &engine.GatewayPayment{
		Status:   vr.Data.Status,
		Amount:   float64(vr.Data.Amount) / 100,
		Currency: vr.Data.Currency,
	}, nil
}
