package backend

import (
	"context"
	"net/http"
)

// CheckoutIntentRequest is the order-intent sent to the payment gateway
// bridge endpoint.
type CheckoutIntentRequest struct {
	Amount            float64 `json:"amount"`
	Description       string  `json:"description"`
	PayerEmail        string  `json:"payerEmail"`
	CurrencyID        string  `json:"currencyId"`
	Quantity          int     `json:"quantity"`
	ExternalReference string  `json:"externalReference"`
}

// CheckoutIntentResponse carries the gateway redirect URL
type CheckoutIntentResponse struct {
	InitPoint string `json:"initPoint"`
}

// CreateCheckout asks the backend for a gateway checkout redirect URL
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutIntentRequest) (*CheckoutIntentResponse, error) {
	var resp CheckoutIntentResponse
	if err := c.do(ctx, http.MethodPost, "/Payment/create-checkout", nil, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
