package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutParams() CheckoutParams {
	return CheckoutParams{
		ClientReference: "t1",
		CustomerEmail:   "u@example.com",
		ProductName:     "The Sea Explorer Tour",
		Description:     "by boat",
		AmountCents:     49700,
		Currency:        "usd",
		SuccessURL:      "https://tours.example.com/ok",
		CancelURL:       "https://tours.example.com/cancel",
	}
}

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "t1", r.PostForm.Get("client_reference_id"))
		assert.Equal(t, "49700", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "usd", r.PostForm.Get("line_items[0][price_data][currency]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_123","url":"https://pay.example.com/cs_123"}`))
	}))
	defer srv.Close()

	c := NewHostedClient(srv.URL, "sk_test")
	s, err := c.CreateSession(context.Background(), checkoutParams())
	require.NoError(t, err)
	assert.Equal(t, "cs_123", s.ID)
	assert.Equal(t, "https://pay.example.com/cs_123", s.URL)
}

func TestCreateSessionProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c := NewHostedClient(srv.URL, "sk_test")
	_, err := c.CreateSession(context.Background(), checkoutParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checkout provider returned")
}
