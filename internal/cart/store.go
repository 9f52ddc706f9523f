// Package cart is the single authoritative client-side view of "my cart".
// Every mutation is written to the backend and followed by a refetch; the
// cart held here is always a server snapshot, never an optimistic local
// edit. Fetch responses are applied in issue order, so a slow response from
// an earlier fetch can never overwrite the result of a later mutation.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/domain"
	"github.com/relojeriasur/storefront/internal/normalize"
)

// Backend is the slice of the commerce API the store needs
type Backend interface {
	GetCart(ctx context.Context, actor domain.Actor) (map[string]any, error)
	AddToCart(ctx context.Context, actor domain.Actor, productID string, quantity int) error
	UpdateCartItem(ctx context.Context, actor domain.Actor, itemID string, quantity int) error
	RemoveCartItem(ctx context.Context, actor domain.Actor, itemID string) error
	ClearCart(ctx context.Context, actor domain.Actor) error
}

// ActorSource yields the actor cart operations run as
type ActorSource interface {
	Actor() domain.Actor
}

// removeSettleDelay bounds the read-after-write consistency workaround for
// the delete endpoint: if the removed line still shows up in the refetch,
// we wait this long and refetch once more. See DESIGN.md.
const removeSettleDelay = 150 * time.Millisecond

type Store struct {
	backend Backend
	actors  ActorSource
	opts    normalize.Options
	logger  *zap.Logger

	// onOpen fires after a successful add so the UI can open the sidebar
	onOpen func()

	mu      sync.Mutex
	cart    domain.Cart
	seq     uint64 // last issued fetch
	applied uint64 // last fetch whose response was applied
}

// NewStore creates a new cart store
func NewStore(b Backend, actors ActorSource, opts normalize.Options, logger *zap.Logger) *Store {
	return &Store{
		backend: b,
		actors:  actors,
		opts:    opts,
		logger:  logger,
		cart:    domain.Cart{Items: []domain.CartItem{}},
	}
}

// OnOpen registers the sidebar-open signal fired after a successful add
func (s *Store) OnOpen(fn func()) {
	s.mu.Lock()
	s.onOpen = fn
	s.mu.Unlock()
}

// Cart returns the last known server snapshot
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Fetch replaces the snapshot with the backend's current cart. On failure
// the last known cart stays in place: stale but available beats empty.
// Responses are sequenced: a fetch that was issued before an already
// applied one is discarded.
func (s *Store) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	actor := s.actors.Actor()
	s.mu.Unlock()

	raw, err := s.backend.GetCart(ctx, actor)
	if err != nil {
		s.logger.Warn("cart fetch failed, keeping last known cart", zap.Error(err))
		return fmt.Errorf("failed to fetch cart: %w", err)
	}

	cart := normalize.CanonicalCart(raw, s.opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		s.logger.Debug("discarding superseded cart fetch", zap.Uint64("seq", seq), zap.Uint64("applied", s.applied))
		return nil
	}
	s.applied = seq
	s.cart = cart
	return nil
}

// Add puts quantity units of a product in the cart, then refetches. No
// optimistic insert happens; on failure the cart is untouched.
func (s *Store) Add(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	actor := s.actors.Actor()
	if err := s.backend.AddToCart(ctx, actor, productID, quantity); err != nil {
		return fmt.Errorf("%s: %w", backendMessage(err, "could not add product to cart"), err)
	}
	if err := s.Fetch(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	open := s.onOpen
	s.mu.Unlock()
	if open != nil {
		open()
	}
	return nil
}

// UpdateQuantity sets a cart line to a new quantity, then refetches.
// Dropping a line to zero is the caller's call: the UI removes instead of
// updating to 0 when decrementing from 1.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	actor := s.actors.Actor()
	if err := s.backend.UpdateCartItem(ctx, actor, itemID, quantity); err != nil {
		return fmt.Errorf("%s: %w", backendMessage(err, "could not update cart item"), err)
	}
	return s.Fetch(ctx)
}

// Remove deletes a cart line, then refetches. The delete endpoint has shown
// read-after-write lag, so if the line survives the first refetch we retry
// once after a short settle delay.
func (s *Store) Remove(ctx context.Context, itemID string) error {
	actor := s.actors.Actor()
	if err := s.backend.RemoveCartItem(ctx, actor, itemID); err != nil {
		return fmt.Errorf("%s: %w", backendMessage(err, "could not remove cart item"), err)
	}
	if err := s.Fetch(ctx); err != nil {
		return err
	}
	if !s.contains(itemID) {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(removeSettleDelay):
	}
	return s.Fetch(ctx)
}

// Clear empties the cart, then refetches
func (s *Store) Clear(ctx context.Context) error {
	actor := s.actors.Actor()
	if err := s.backend.ClearCart(ctx, actor); err != nil {
		return fmt.Errorf("%s: %w", backendMessage(err, "could not clear cart"), err)
	}
	return s.Fetch(ctx)
}

func (s *Store) contains(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.cart.Items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

// backendMessage prefers the backend-provided message over the generic
// fallback when surfacing a write failure.
func backendMessage(err error, fallback string) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
