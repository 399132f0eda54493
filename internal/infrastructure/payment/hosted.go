package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HostedClient talks to a Stripe-style hosted-checkout endpoint over HTTP
// form encoding.
type HostedClient struct {
	Endpoint string
	APIKey   string
	HTTP     *http.Client
}

func NewHostedClient(endpoint, apiKey string) *HostedClient {
	return &HostedClient{
		Endpoint: endpoint,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HostedClient) CreateSession(ctx context.Context, p CheckoutParams) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", p.ClientReference)
	form.Set("customer_email", p.CustomerEmail)
	form.Set("success_url", p.SuccessURL)
	form.Set("cancel_url", p.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", p.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(p.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", p.ProductName)
	form.Set("line_items[0][price_data][product_data][description]", p.Description)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("checkout provider returned %s", res.Status)
	}
	var s Session
	if err := json.NewDecoder(res.Body).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
