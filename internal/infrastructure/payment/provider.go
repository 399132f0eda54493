// Package payment is the narrow contract around the hosted-checkout
// provider. Session mechanics beyond this contract live with the provider.
package payment

import "context"

// CheckoutParams describes one hosted-checkout session to create.
type CheckoutParams struct {
	ClientReference string // tour id, echoed back on completion
	CustomerEmail   string
	ProductName     string
	Description     string
	AmountCents     int64
	Currency        string
	SuccessURL      string
	CancelURL       string
}

// Session is the provider's answer: an id plus the URL the customer is sent
// to.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutProvider creates hosted checkout sessions.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, p CheckoutParams) (*Session, error)
}
