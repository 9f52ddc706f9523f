// Package normalize is the adapter layer between the backend's
// heterogeneously shaped item records and the canonical types the rest of
// the storefront works with. Endpoints disagree on field casing and even on
// language, so every field is resolved through a documented alias
// precedence list. All functions are total: any record, including nil,
// yields a fully populated canonical value.
package normalize

import (
	"strconv"
	"strings"

	"github.com/relojeriasur/storefront/internal/domain"
)

// Options carries the asset configuration image resolution needs
type Options struct {
	UploadBaseURL    string
	PlaceholderImage string
}

// Alias precedence per field, first present wins.
var (
	nameKeys      = []string{"name", "Name", "productName", "ProductName", "nombre"}
	brandKeys     = []string{"brand", "Brand", "marca"}
	imageKeys     = []string{"image", "Image", "imagen", "imageUrl", "ImageUrl"}
	quantityKeys  = []string{"quantity", "Quantity", "cantidad", "qty"}
	unitPriceKeys = []string{"unitPrice", "UnitPrice", "price", "Price", "precio", "precioUnitario"}
	subtotalKeys  = []string{"subtotal", "Subtotal", "subTotal"}
	itemIDKeys    = []string{"id", "Id", "ID", "cartItemId", "idCarritoItem"}
	productIDKeys = []string{"productId", "ProductId", "idProducto", "producto_id"}
	itemsKeys     = []string{"items", "Items", "productos"}
	totalKeys     = []string{"total", "Total", "montoTotal"}
)

// FallbackName is shown when no name-like field is present
const FallbackName = "Producto"

func stringField(rec map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t, true
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64), true
		}
	}
	return "", false
}

func numberField(rec map[string]any, keys []string) (float64, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t, true
		case int:
			return float64(t), true
		case string:
			if f, err := strconv.ParseFloat(t, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// Name resolves the product name, falling back to the literal placeholder
func Name(rec map[string]any) string {
	if s, ok := stringField(rec, nameKeys); ok {
		return s
	}
	return FallbackName
}

// Brand resolves the brand, empty when absent
func Brand(rec map[string]any) string {
	s, _ := stringField(rec, brandKeys)
	return s
}

// DisplayName composes "brand name", or just the name without a brand
func DisplayName(rec map[string]any) string {
	name := Name(rec)
	if brand := Brand(rec); brand != "" {
		return brand + " " + name
	}
	return name
}

// ImageURL passes absolute URLs through, prefixes relative filenames with
// the upload base, and falls back to the placeholder asset.
func ImageURL(rec map[string]any, opts Options) string {
	s, ok := stringField(rec, imageKeys)
	if !ok {
		return opts.PlaceholderImage
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return strings.TrimSuffix(opts.UploadBaseURL, "/") + "/" + strings.TrimPrefix(s, "/")
}

// Quantity resolves the line quantity, defaulting to 1
func Quantity(rec map[string]any) int {
	if n, ok := numberField(rec, quantityKeys); ok && n >= 1 {
		return int(n)
	}
	return 1
}

// UnitPrice resolves the unit price, defaulting to 0
func UnitPrice(rec map[string]any) float64 {
	if n, ok := numberField(rec, unitPriceKeys); ok && n >= 0 {
		return n
	}
	return 0
}

// Subtotal resolves the line subtotal. An explicit backend subtotal wins
// over quantity × unit price: item-level discounts arrive that way.
func Subtotal(rec map[string]any) float64 {
	if n, ok := numberField(rec, subtotalKeys); ok {
		return n
	}
	if price, ok := numberField(rec, unitPriceKeys); ok {
		return float64(Quantity(rec)) * price
	}
	return 0
}

// ItemID resolves the cart line id
func ItemID(rec map[string]any) string {
	s, _ := stringField(rec, itemIDKeys)
	return s
}

// ProductID resolves the product id
func ProductID(rec map[string]any) string {
	s, _ := stringField(rec, productIDKeys)
	return s
}

// CanonicalItem maps one raw record to the canonical cart item
func CanonicalItem(rec map[string]any, opts Options) domain.CartItem {
	return domain.CartItem{
		ID:        ItemID(rec),
		ProductID: ProductID(rec),
		Name:      Name(rec),
		Brand:     Brand(rec),
		Image:     ImageURL(rec, opts),
		Quantity:  Quantity(rec),
		UnitPrice: UnitPrice(rec),
		Subtotal:  Subtotal(rec),
	}
}

// CanonicalCart maps a raw cart payload to the canonical cart. A nil or
// empty payload yields the empty cart.
func CanonicalCart(raw map[string]any, opts Options) domain.Cart {
	cart := domain.Cart{Items: []domain.CartItem{}}
	if raw == nil {
		return cart
	}
	for _, k := range itemsKeys {
		list, ok := raw[k].([]any)
		if !ok {
			continue
		}
		for _, entry := range list {
			rec, _ := entry.(map[string]any)
			cart.Items = append(cart.Items, CanonicalItem(rec, opts))
		}
		break
	}
	if total, ok := numberField(raw, totalKeys); ok {
		cart.Total = total
	}
	return cart
}
