// Package localstore is the session-scoped persisted state layer: the
// counterpart of the browser local storage the storefront UI relies on.
// Values are JSON blobs keyed by name within one session. Writes are
// last-write-wins; concurrent sessions are never reconciled.
package localstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value in the session
var ErrNotFound = errors.New("localstore: key not found")

// Keys persisted per session
const (
	KeyGuestCartID       = "guest-cart-id"
	KeyAuthToken         = "auth-token"
	KeyCheckoutDraft     = "checkout-draft"
	KeyGuestCartSnapshot = "guest-cart-snapshot"
	KeyShippingSelection = "shipping-selection"
	KeyExternalReference = "external-reference"
	KeyShippingOptions   = "shipping-options:" // + postal code
)

// Store holds one session's persisted state
type Store interface {
	// Get decodes the value at key into v, or returns ErrNotFound
	Get(ctx context.Context, key string, v any) error
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

// Provider hands out the Store for a session id
type Provider interface {
	ForSession(id string) Store
}
