package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const createSessionPath = "/api/payments/create-session"

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type SessionItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type SessionRequest struct {
	OrderID   string        `json:"order_id"`
	Amount    int64         `json:"amount"`
	Customer  Customer      `json:"customer"`
	Items     []SessionItem `json:"items"`
	ReturnURL string        `json:"return_url"`
}

// Session is the gateway's handle the shopper gets redirected to.
// Which of the URL fields is set depends on the provider.
type Session struct {
	Provider    string `json:"provider"`
	SessionID   string `json:"session_id,omitempty"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	URL         string `json:"url,omitempty"`
}

// RedirectURL returns whichever redirect target the gateway filled in.
func (s *Session) RedirectURL() string {
	if s.CheckoutURL != "" {
		return s.CheckoutURL
	}
	return s.URL
}

type SessionClient interface {
	CreateSession(ctx context.Context, req *SessionRequest) (*Session, error)
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  http.DefaultClient,
	}
}

// CreateSession issues a single POST to the gateway. There are no
// retries, a network fault or timeout surfaces to the caller as-is.
func (c *Client) CreateSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal session request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createSessionPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build session request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// surface the gateway's own message when it sent one
		var gatewayErr struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&gatewayErr); err == nil && gatewayErr.Message != "" {
			return nil, errors.New(gatewayErr.Message)
		}
		return nil, fmt.Errorf("payment session failed with status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode session response failed: %w", err)
	}

	return &session, nil
}
