package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relojeriasur/storefront/internal/domain"
)

var testOpts = Options{
	UploadBaseURL:    "https://cdn.example.com/uploads",
	PlaceholderImage: "/assets/placeholder-watch.png",
}

func TestCanonicalItemEmptyRecord(t *testing.T) {
	// A completely empty record still yields a fully populated item
	item := CanonicalItem(map[string]any{}, testOpts)

	assert.Equal(t, "Producto", item.Name)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, 0.0, item.UnitPrice)
	assert.Equal(t, 0.0, item.Subtotal)
	assert.Equal(t, "/assets/placeholder-watch.png", item.Image)
}

func TestCanonicalItemNilRecord(t *testing.T) {
	item := CanonicalItem(nil, testOpts)
	assert.Equal(t, "Producto", item.Name)
	assert.Equal(t, 1, item.Quantity)
}

func TestNameAliasPrecedence(t *testing.T) {
	cases := []struct {
		name string
		rec  map[string]any
		want string
	}{
		{"lowercase wins", map[string]any{"name": "Submariner", "nombre": "Reloj"}, "Submariner"},
		{"pascal case", map[string]any{"Name": "Daytona"}, "Daytona"},
		{"product name", map[string]any{"productName": "Speedmaster"}, "Speedmaster"},
		{"spanish", map[string]any{"nombre": "Reloj Clásico"}, "Reloj Clásico"},
		{"empty string skipped", map[string]any{"name": "", "nombre": "Reloj"}, "Reloj"},
		{"null skipped", map[string]any{"name": nil, "ProductName": "Seamaster"}, "Seamaster"},
		{"fallback", map[string]any{"sku": "X"}, "Producto"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Name(tc.rec))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Casio G-Shock", DisplayName(map[string]any{"brand": "Casio", "name": "G-Shock"}))
	assert.Equal(t, "G-Shock", DisplayName(map[string]any{"name": "G-Shock"}))
	assert.Equal(t, "Citizen Eco", DisplayName(map[string]any{"marca": "Citizen", "nombre": "Eco"}))
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "https://img.example.com/a.jpg",
		ImageURL(map[string]any{"image": "https://img.example.com/a.jpg"}, testOpts))
	assert.Equal(t, "https://cdn.example.com/uploads/a.jpg",
		ImageURL(map[string]any{"imagen": "a.jpg"}, testOpts))
	assert.Equal(t, "https://cdn.example.com/uploads/b.png",
		ImageURL(map[string]any{"Image": "/b.png"}, testOpts))
	assert.Equal(t, "/assets/placeholder-watch.png", ImageURL(map[string]any{}, testOpts))
}

func TestSubtotalComputedFromQuantityAndPrice(t *testing.T) {
	rec := map[string]any{"id": float64(1), "quantity": float64(2), "unitPrice": float64(100)}
	assert.Equal(t, 200.0, Subtotal(rec))
}

func TestExplicitSubtotalWins(t *testing.T) {
	// An item-level discount arrives as an authoritative subtotal
	rec := map[string]any{"quantity": float64(2), "unitPrice": float64(100), "subtotal": float64(150)}
	assert.Equal(t, 150.0, Subtotal(rec))
}

func TestQuantityAliasesAndDefault(t *testing.T) {
	assert.Equal(t, 3, Quantity(map[string]any{"cantidad": float64(3)}))
	assert.Equal(t, 2, Quantity(map[string]any{"qty": float64(2)}))
	assert.Equal(t, 1, Quantity(map[string]any{}))
	assert.Equal(t, 1, Quantity(map[string]any{"quantity": float64(0)}))
}

func TestNumericStringsTolerated(t *testing.T) {
	rec := map[string]any{"precio": "1250.50", "cantidad": "2"}
	assert.Equal(t, 1250.50, UnitPrice(rec))
	assert.Equal(t, 2, Quantity(rec))
}

func TestCanonicalCart(t *testing.T) {
	raw := map[string]any{
		"Items": []any{
			map[string]any{"id": float64(1), "nombre": "Reloj", "cantidad": float64(2), "precio": float64(100)},
		},
		"montoTotal": float64(200),
	}
	cart := CanonicalCart(raw, testOpts)

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "Reloj", cart.Items[0].Name)
	assert.Equal(t, 200.0, cart.Items[0].Subtotal)
	assert.Equal(t, 200.0, cart.Total)
}

func TestCanonicalCartEmptyPayload(t *testing.T) {
	assert.Equal(t, domain.Cart{Items: []domain.CartItem{}}, CanonicalCart(nil, testOpts))
	assert.Equal(t, domain.Cart{Items: []domain.CartItem{}}, CanonicalCart(map[string]any{}, testOpts))
}

func TestPriceLabel(t *testing.T) {
	assert.Equal(t, "Gratis", PriceLabel(0))
	assert.Equal(t, "$500", PriceLabel(500))
	assert.Equal(t, "$1.200", PriceLabel(1200))
}
