package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/config"
	"github.com/relojeriasur/storefront/internal/localstore"
)

// fakeCommerce plays the remote commerce API over real HTTP
type fakeCommerce struct {
	mu         sync.Mutex
	nextID     int
	carts      map[string][]map[string]any
	orders     []map[string]any
	adminToken string
}

func newFakeCommerce() *fakeCommerce {
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u-9",
		"email": "admin@example.com",
		"name":  "Admin",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	return &fakeCommerce{nextID: 1, carts: map[string][]map[string]any{}, adminToken: token}
}

func (f *fakeCommerce) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/cart/guest/add", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"cantidad"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		guest := r.URL.Query().Get("guestId")
		f.carts[guest] = append(f.carts[guest], map[string]any{
			"id":        fmt.Sprintf("%d", f.nextID),
			"productId": body.ProductID,
			"nombre":    "Reloj Clásico",
			"precio":    1500.0,
			"cantidad":  body.Quantity,
		})
		f.nextID++
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("/cart/guest/clear", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		delete(f.carts, r.URL.Query().Get("guestId"))
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("/cart/guest", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		items := f.carts[r.URL.Query().Get("guestId")]
		if items == nil {
			items = []map[string]any{}
		}
		var total float64
		for _, item := range items {
			total += item["precio"].(float64) * float64(item["cantidad"].(int))
		}
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "total": total})
	})
	mux.HandleFunc("/shipping/calculate", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PostalCode string `json:"postalCode"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		if body.PostalCode != "2000" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, `[
			{"name": "Estándar", "description": "3 a 5 días hábiles", "cost": 200},
			{"name": "Express", "description": "24 horas", "cost": 500}
		]`)
	})
	mux.HandleFunc("/Auth/AdminLogin", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"token": f.adminToken})
	})
	mux.HandleFunc("/Venta", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id": "v-1", "total": 1700}]`)
	})
	mux.HandleFunc("/Venta/AddVenta", func(w http.ResponseWriter, r *http.Request) {
		var order map[string]any
		_ = json.NewDecoder(r.Body).Decode(&order)
		f.mu.Lock()
		f.orders = append(f.orders, order)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         "v-100",
			"total":      order["total"],
			"metodoPago": order["metodoPago"],
		})
	})
	return mux
}

func (f *fakeCommerce) lastOrder() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.orders) == 0 {
		return nil
	}
	return f.orders[len(f.orders)-1]
}

// countingProvider wraps the session provider and counts token reads, so
// tests can assert how often a request decodes the caller's identity
type countingProvider struct {
	inner localstore.Provider

	mu         sync.Mutex
	tokenReads int
}

func (p *countingProvider) ForSession(id string) localstore.Store {
	return &countingStore{p: p, inner: p.inner.ForSession(id)}
}

func (p *countingProvider) reset() {
	p.mu.Lock()
	p.tokenReads = 0
	p.mu.Unlock()
}

func (p *countingProvider) reads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tokenReads
}

type countingStore struct {
	p     *countingProvider
	inner localstore.Store
}

func (s *countingStore) Get(ctx context.Context, key string, v any) error {
	if key == localstore.KeyAuthToken {
		s.p.mu.Lock()
		s.p.tokenReads++
		s.p.mu.Unlock()
	}
	return s.inner.Get(ctx, key, v)
}

func (s *countingStore) Set(ctx context.Context, key string, v any) error {
	return s.inner.Set(ctx, key, v)
}

func (s *countingStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// storefront is one running router with a cookie-keeping HTTP client, so
// consecutive calls share a session the way a browser would
type storefront struct {
	t        *testing.T
	base     string
	client   *http.Client
	backend  *fakeCommerce
	sessions *countingProvider
}

func newStorefront(t *testing.T) *storefront {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := newFakeCommerce()
	remote := httptest.NewServer(fake.handler())
	t.Cleanup(remote.Close)

	cfg := &config.Config{
		Environment: "test",
		Backend:     config.BackendConfig{BaseURL: remote.URL, Timeout: 5 * time.Second},
		Assets:      config.AssetsConfig{PlaceholderImage: "/assets/placeholder-watch.png"},
		Payment:     config.PaymentConfig{CurrencyID: "ARS"},
	}
	client := backend.NewClient(cfg.Backend, zap.NewNop())
	sessions := &countingProvider{inner: localstore.NewMemoryProvider()}
	router := NewRouter(cfg, client, sessions, zap.NewNop())

	front := httptest.NewServer(router)
	t.Cleanup(front.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &storefront{
		t:        t,
		base:     front.URL,
		client:   &http.Client{Jar: jar},
		backend:  fake,
		sessions: sessions,
	}
}

func (s *storefront) do(method, path string, body any) (int, map[string]any) {
	s.t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, s.base+path, reader)
	require.NoError(s.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	if strings.Contains(resp.Header.Get("Content-Type"), "json") {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp.StatusCode, decoded
}

func cartItems(body map[string]any) []any {
	cart, _ := body["cart"].(map[string]any)
	items, _ := cart["items"].([]any)
	return items
}

func summaryTotal(body map[string]any) float64 {
	summary, _ := body["summary"].(map[string]any)
	total, _ := summary["total"].(float64)
	return total
}

func TestHealth(t *testing.T) {
	s := newStorefront(t)
	status, body := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestGuestCartOverHTTP(t *testing.T) {
	s := newStorefront(t)

	status, body := s.do(http.MethodPost, "/v1/cart/items", map[string]any{"productId": "3"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["openCart"], "a successful add opens the cart sidebar")
	require.Len(t, cartItems(body), 1)
	assert.Equal(t, 1500.0, summaryTotal(body))

	item := cartItems(body)[0].(map[string]any)
	assert.Equal(t, "Reloj Clásico", item["name"])
	assert.Equal(t, 1500.0, item["subtotal"])

	// The session cookie scopes the cart: the same client sees it again
	status, body = s.do(http.MethodGet, "/v1/cart", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, cartItems(body), 1)

	// A different browser starts empty
	other := newStorefront(t)
	status, body = other.do(http.MethodGet, "/v1/cart", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, cartItems(body))
}

func TestShippingOverHTTP(t *testing.T) {
	s := newStorefront(t)

	status, body := s.do(http.MethodPost, "/v1/shipping", map[string]any{"postalCode": "2000"})
	require.Equal(t, http.StatusOK, status)
	options, _ := body["options"].([]any)
	require.Len(t, options, 2)
	assert.Equal(t, "Estándar", body["selected"], "the first option is selected by default")

	first := options[0].(map[string]any)
	assert.Equal(t, "$200", first["costLabel"])

	// Switching the selection updates the cart summary immediately
	status, body = s.do(http.MethodPost, "/v1/shipping/select", map[string]any{"postalCode": "2000", "name": "Express"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Express", body["selected"])
	assert.Equal(t, 500.0, summaryTotal(body))
}

func TestShippingRejectsBadPostalCode(t *testing.T) {
	s := newStorefront(t)

	status, body := s.do(http.MethodPost, "/v1/shipping", map[string]any{"postalCode": "20"})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	fields, _ := body["fields"].(map[string]any)
	assert.Contains(t, fields, "postalCode")

	status, _ = s.do(http.MethodPost, "/v1/shipping", map[string]any{"postalCode": "9999"})
	assert.Equal(t, http.StatusNotFound, status, "unknown postal codes have no options")
}

func TestGuestCheckoutOverHTTP(t *testing.T) {
	s := newStorefront(t)

	status, _ := s.do(http.MethodPost, "/v1/cart/items", map[string]any{"productId": "3"})
	require.Equal(t, http.StatusOK, status)
	status, _ = s.do(http.MethodPost, "/v1/shipping", map[string]any{"postalCode": "2000"})
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodPost, "/v1/checkout/start", nil)
	require.Equal(t, http.StatusOK, status)

	status, body := s.do(http.MethodPost, "/v1/checkout/contact", map[string]any{
		"name":    "Ana",
		"email":   "ana@example.com",
		"phone":   "3411234567",
		"address": "San Martín 100",
	})
	require.Equal(t, http.StatusOK, status, "contact gate: %v", body)

	status, body = s.do(http.MethodPost, "/v1/checkout/shipping", map[string]any{
		"firstName": "Ana",
		"lastName":  "García",
		"email":     "ana@example.com",
		"phone":     "341 123-4567",
		"dni":       "12345678",
		"street":    "San Martín",
		"number":    "100",
		"city":      "Rosario",
		"province":  "Santa Fe",
	})
	require.Equal(t, http.StatusOK, status, "shipping gate: %v", body)

	status, body = s.do(http.MethodPost, "/v1/checkout/confirm", map[string]any{
		"paymentMethod": "efectivo",
		"notas":         "timbre roto, golpear",
	})
	require.Equal(t, http.StatusOK, status, "confirm: %v", body)

	order, _ := body["order"].(map[string]any)
	require.NotNil(t, order)
	assert.Equal(t, "v-100", order["id"])
	// 1500 items + 200 default shipping
	assert.Equal(t, 1700.0, order["total"])
	assert.Equal(t, "$1.700", body["totalLabel"])

	submitted := s.backend.lastOrder()
	require.NotNil(t, submitted)
	assert.Equal(t, 1700.0, submitted["total"])
	assert.Equal(t, "Estándar", submitted["metodoEnvio"])
	assert.Equal(t, "timbre roto, golpear", submitted["notas"])
	assert.NotEmpty(t, submitted["guestId"], "guest orders carry the guest id")

	// The cart is gone after a confirmed order
	status, body = s.do(http.MethodGet, "/v1/cart", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, cartItems(body))
}

func TestContactGateOverHTTPReportsAllFields(t *testing.T) {
	s := newStorefront(t)
	status, _ := s.do(http.MethodPost, "/v1/checkout/start", nil)
	require.Equal(t, http.StatusOK, status)

	status, body := s.do(http.MethodPost, "/v1/checkout/contact", map[string]any{
		"name": "", "email": "", "phone": "", "address": "",
	})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	fields, _ := body["fields"].(map[string]any)
	for _, field := range []string{"name", "email", "phone", "address", "cart"} {
		assert.Contains(t, fields, field)
	}
}

func TestConfirmOutOfOrder(t *testing.T) {
	s := newStorefront(t)
	status, _ := s.do(http.MethodPost, "/v1/checkout/start", nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodPost, "/v1/checkout/confirm", map[string]any{"paymentMethod": "efectivo"})
	assert.Equal(t, http.StatusConflict, status)
}

func TestAdminGateRejectsGuests(t *testing.T) {
	s := newStorefront(t)
	status, body := s.do(http.MethodGet, "/v1/admin/orders", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "access denied", body["error"])
}

func TestAdminOrdersWithAdminToken(t *testing.T) {
	s := newStorefront(t)

	status, body := s.do(http.MethodPost, "/v1/auth/admin-login", map[string]any{
		"email":    "admin@example.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, status, "admin login: %v", body)
	assert.Equal(t, "admin", body["role"])

	status, body = s.do(http.MethodGet, "/v1/admin/orders", nil)
	require.Equal(t, http.StatusOK, status)
	orders, _ := body["orders"].([]any)
	require.Len(t, orders, 1)
}

func TestAdminRequestDecodesIdentityOnce(t *testing.T) {
	s := newStorefront(t)

	status, _ := s.do(http.MethodPost, "/v1/auth/admin-login", map[string]any{
		"email":    "admin@example.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, status)

	// The gate resolves the identity and the handler reuses it
	s.sessions.reset()
	status, _ = s.do(http.MethodGet, "/v1/admin/orders", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, s.sessions.reads())
}
