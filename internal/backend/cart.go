package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/relojeriasur/storefront/internal/domain"
)

// Cart endpoints come in an authenticated variant (bearer header) and a
// guest variant (guestId query param). The actor picks which one is hit.

// addItemBody uses the backend's field naming
type addItemBody struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"cantidad"`
}

type updateItemBody struct {
	Quantity int `json:"cantidad"`
}

func guestQuery(actor domain.Actor) url.Values {
	return url.Values{"guestId": []string{actor.GuestID}}
}

// GetCart fetches the raw cart for the actor. The payload is returned
// undecoded because item shapes differ between endpoints; the normalizer
// owns turning it into the canonical Cart.
func (c *Client) GetCart(ctx context.Context, actor domain.Actor) (map[string]any, error) {
	var raw map[string]any
	var err error
	if actor.IsGuest() {
		err = c.do(ctx, http.MethodGet, "/cart/guest", guestQuery(actor), "", nil, &raw)
	} else {
		err = c.do(ctx, http.MethodGet, "/cart", nil, actor.Token, nil, &raw)
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// AddToCart adds quantity units of a product to the actor's cart
func (c *Client) AddToCart(ctx context.Context, actor domain.Actor, productID string, quantity int) error {
	body := addItemBody{ProductID: productID, Quantity: quantity}
	if actor.IsGuest() {
		return c.do(ctx, http.MethodPost, "/cart/guest/add", guestQuery(actor), "", body, nil)
	}
	return c.do(ctx, http.MethodPost, "/cart/add", nil, actor.Token, body, nil)
}

// UpdateCartItem sets the quantity of a cart line
func (c *Client) UpdateCartItem(ctx context.Context, actor domain.Actor, itemID string, quantity int) error {
	body := updateItemBody{Quantity: quantity}
	path := fmt.Sprintf("/cart/item/%s", url.PathEscape(itemID))
	if actor.IsGuest() {
		path = fmt.Sprintf("/cart/guest/item/%s", url.PathEscape(itemID))
		return c.do(ctx, http.MethodPut, path, guestQuery(actor), "", body, nil)
	}
	return c.do(ctx, http.MethodPut, path, nil, actor.Token, body, nil)
}

// RemoveCartItem deletes a cart line
func (c *Client) RemoveCartItem(ctx context.Context, actor domain.Actor, itemID string) error {
	path := fmt.Sprintf("/cart/item/%s", url.PathEscape(itemID))
	if actor.IsGuest() {
		path = fmt.Sprintf("/cart/guest/item/%s", url.PathEscape(itemID))
		return c.do(ctx, http.MethodDelete, path, guestQuery(actor), "", nil, nil)
	}
	return c.do(ctx, http.MethodDelete, path, nil, actor.Token, nil, nil)
}

// ClearCart empties the actor's cart
func (c *Client) ClearCart(ctx context.Context, actor domain.Actor) error {
	if actor.IsGuest() {
		return c.do(ctx, http.MethodPost, "/cart/guest/clear", guestQuery(actor), "", nil, nil)
	}
	return c.do(ctx, http.MethodPost, "/cart/clear", nil, actor.Token, nil, nil)
}
