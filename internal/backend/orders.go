package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/relojeriasur/storefront/internal/domain"
)

// CreateOrder submits the composed order DTO. Guests hit the public
// AddVenta endpoint; authenticated users hit the token-scoped variant.
// Submission is not idempotent; the external reference only correlates the
// order with the payment gateway.
func (c *Client) CreateOrder(ctx context.Context, actor domain.Actor, order domain.OrderRequest) (*domain.OrderConfirmation, error) {
	var conf domain.OrderConfirmation
	if actor.IsGuest() {
		order.GuestID = actor.GuestID
		if err := c.do(ctx, http.MethodPost, "/Venta/AddVenta", nil, "", order, &conf); err != nil {
			return nil, err
		}
		return &conf, nil
	}
	if err := c.do(ctx, http.MethodPost, "/Venta/AddVentaCliente", nil, actor.Token, order, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// GetOrder fetches one order for the back-office views
func (c *Client) GetOrder(ctx context.Context, actor domain.Actor, id string) (map[string]any, error) {
	var raw map[string]any
	path := fmt.Sprintf("/Venta/%s", url.PathEscape(id))
	if err := c.do(ctx, http.MethodGet, path, nil, actor.Token, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListOrders fetches the order list for the back-office views
func (c *Client) ListOrders(ctx context.Context, actor domain.Actor) ([]map[string]any, error) {
	var raw []map[string]any
	if err := c.do(ctx, http.MethodGet, "/Venta", nil, actor.Token, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
