package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/relojeriasur/storefront/internal/domain"
)

// Catalog reads and the admin product CRUD are thin passthroughs; records
// stay raw maps so the display layer can run them through the normalizer.

// ListProducts fetches the product catalog
func (c *Client) ListProducts(ctx context.Context) ([]map[string]any, error) {
	var raw []map[string]any
	if err := c.do(ctx, http.MethodGet, "/Producto", nil, "", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetProduct fetches one product
func (c *Client) GetProduct(ctx context.Context, id string) (map[string]any, error) {
	var raw map[string]any
	path := fmt.Sprintf("/Producto/%s", url.PathEscape(id))
	if err := c.do(ctx, http.MethodGet, path, nil, "", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListCategories fetches the category list
func (c *Client) ListCategories(ctx context.Context) ([]map[string]any, error) {
	var raw []map[string]any
	if err := c.do(ctx, http.MethodGet, "/Categoria", nil, "", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// CreateProduct creates a product through the back-office surface
func (c *Client) CreateProduct(ctx context.Context, actor domain.Actor, product map[string]any) (map[string]any, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, "/Producto", nil, actor.Token, product, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// UpdateProduct updates a product through the back-office surface
func (c *Client) UpdateProduct(ctx context.Context, actor domain.Actor, id string, product map[string]any) (map[string]any, error) {
	var raw map[string]any
	path := fmt.Sprintf("/Producto/%s", url.PathEscape(id))
	if err := c.do(ctx, http.MethodPut, path, nil, actor.Token, product, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// DeleteProduct removes a product through the back-office surface
func (c *Client) DeleteProduct(ctx context.Context, actor domain.Actor, id string) error {
	path := fmt.Sprintf("/Producto/%s", url.PathEscape(id))
	return c.do(ctx, http.MethodDelete, path, nil, actor.Token, nil, nil)
}
