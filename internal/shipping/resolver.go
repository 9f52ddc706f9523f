// Package shipping resolves shipping options for a postal code and keeps
// the buyer's selection persisted, so returning to the cart restores it.
package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/domain"
	"github.com/relojeriasur/storefront/internal/localstore"
)

// Calculator is the slice of the commerce API the resolver needs. The two
// methods are the two deployed shapes of the same endpoint.
type Calculator interface {
	CalculateShipping(ctx context.Context, postalCode string) (json.RawMessage, error)
	CalculateShippingByPath(ctx context.Context, postalCode string) (json.RawMessage, error)
}

var (
	// ErrInvalidPostalCode rejects anything but exactly four digits
	ErrInvalidPostalCode = errors.New("shipping: postal code must be exactly 4 digits")
	// ErrNoOptions means the calculator knows no rates for the postal code
	ErrNoOptions = errors.New("shipping: no options for this postal code")
)

var postalCodeRe = regexp.MustCompile(`^\d{4}$`)

// selection is the persisted shape of the buyer's chosen option
type selection struct {
	PostalCode string                `json:"postalCode"`
	Option     domain.ShippingOption `json:"option"`
}

type Resolver struct {
	calc   Calculator
	store  localstore.Store
	logger *zap.Logger
}

// NewResolver creates a new shipping resolver bound to one session store
func NewResolver(calc Calculator, store localstore.Store, logger *zap.Logger) *Resolver {
	return &Resolver{calc: calc, store: store, logger: logger}
}

// Calculate validates the postal code, queries the rate calculator and
// returns the available options with the first one selected by default.
// Invalid input never reaches the network and clears any prior options and
// selection.
func (r *Resolver) Calculate(ctx context.Context, postalCode string) ([]domain.ShippingOption, error) {
	if !postalCodeRe.MatchString(postalCode) {
		r.clear(ctx, postalCode)
		return nil, ErrInvalidPostalCode
	}

	raw, err := r.calc.CalculateShipping(ctx, postalCode)
	if err != nil {
		// The endpoint is inconsistently deployed: some environments only
		// answer the GET-with-path shape. Fall back before giving up.
		r.logger.Debug("shipping POST contract failed, trying GET fallback", zap.Error(err))
		raw, err = r.calc.CalculateShippingByPath(ctx, postalCode)
		if err != nil {
			return nil, fmt.Errorf("shipping calculation failed: %w", err)
		}
	}

	options, err := coerceOptions(raw)
	if err != nil {
		return nil, fmt.Errorf("shipping calculation failed: %w", err)
	}
	if len(options) == 0 {
		r.clear(ctx, postalCode)
		return nil, ErrNoOptions
	}

	if err := r.store.Set(ctx, localstore.KeyShippingOptions+postalCode, options); err != nil {
		r.logger.Warn("failed to persist shipping options", zap.Error(err))
	}
	if err := r.store.Set(ctx, localstore.KeyShippingSelection, selection{PostalCode: postalCode, Option: options[0]}); err != nil {
		r.logger.Warn("failed to persist shipping selection", zap.Error(err))
	}

	return options, nil
}

// Options returns the persisted option set for a postal code, if any
func (r *Resolver) Options(ctx context.Context, postalCode string) ([]domain.ShippingOption, bool) {
	var options []domain.ShippingOption
	if err := r.store.Get(ctx, localstore.KeyShippingOptions+postalCode, &options); err != nil {
		return nil, false
	}
	return options, len(options) > 0
}

// Select picks a different option from the set previously calculated for
// the postal code. Options are keyed by name.
func (r *Resolver) Select(ctx context.Context, postalCode, name string) (domain.ShippingOption, error) {
	options, ok := r.Options(ctx, postalCode)
	if !ok {
		return domain.ShippingOption{}, fmt.Errorf("shipping: no options calculated for %s", postalCode)
	}
	for _, opt := range options {
		if opt.Name == name {
			if err := r.store.Set(ctx, localstore.KeyShippingSelection, selection{PostalCode: postalCode, Option: opt}); err != nil {
				return domain.ShippingOption{}, err
			}
			return opt, nil
		}
	}
	return domain.ShippingOption{}, fmt.Errorf("shipping: unknown option %q", name)
}

// Selection returns the persisted selected option, if any
func (r *Resolver) Selection(ctx context.Context) (domain.ShippingOption, bool) {
	var sel selection
	if err := r.store.Get(ctx, localstore.KeyShippingSelection, &sel); err != nil {
		return domain.ShippingOption{}, false
	}
	if sel.Option.Name == "" {
		return domain.ShippingOption{}, false
	}
	return sel.Option, true
}

// clear drops persisted options and selection after invalid or empty results
func (r *Resolver) clear(ctx context.Context, postalCode string) {
	_ = r.store.Delete(ctx, localstore.KeyShippingOptions+postalCode)
	_ = r.store.Delete(ctx, localstore.KeyShippingSelection)
}

// coerceOptions tolerates the calculator answering with either one option
// object or an array of them.
func coerceOptions(raw json.RawMessage) ([]domain.ShippingOption, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []domain.ShippingOption
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single domain.ShippingOption
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("unexpected shipping payload: %w", err)
	}
	return []domain.ShippingOption{single}, nil
}
