package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// The shipping endpoint is inconsistently deployed: some environments take
// a POST with a JSON body, others a GET with the postal code in the path.
// Both variants are exposed; the resolver owns the fallback order. Payloads
// stay raw because the endpoint returns either a single option object or an
// array.

type shippingBody struct {
	PostalCode string `json:"postalCode"`
}

// CalculateShipping queries rates via the POST contract
func (c *Client) CalculateShipping(ctx context.Context, postalCode string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/shipping/calculate", nil, "", shippingBody{PostalCode: postalCode}, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// CalculateShippingByPath queries rates via the legacy GET contract
func (c *Client) CalculateShippingByPath(ctx context.Context, postalCode string) (json.RawMessage, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/shipping/calculate/%s", url.PathEscape(postalCode))
	if err := c.do(ctx, http.MethodGet, path, nil, "", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
