package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/domain"
	"github.com/relojeriasur/storefront/internal/localstore"
)

type fakeCalculator struct {
	mu        sync.Mutex
	postCalls int
	getCalls  int
	postResp  json.RawMessage
	postErr   error
	getResp   json.RawMessage
	getErr    error
}

func (f *fakeCalculator) CalculateShipping(context.Context, string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postCalls++
	return f.postResp, f.postErr
}

func (f *fakeCalculator) CalculateShippingByPath(context.Context, string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	return f.getResp, f.getErr
}

func (f *fakeCalculator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.postCalls + f.getCalls
}

func newTestResolver(calc *fakeCalculator) (*Resolver, localstore.Store) {
	store := localstore.NewMemoryProvider().ForSession("test")
	return NewResolver(calc, store, zap.NewNop()), store
}

func TestInvalidPostalCodeShortCircuits(t *testing.T) {
	for _, postal := range []string{"99", "12345", "abcd", "", "20 0"} {
		t.Run(postal, func(t *testing.T) {
			calc := &fakeCalculator{}
			r, store := newTestResolver(calc)

			// Pre-seed a selection to verify it gets cleared
			require.NoError(t, store.Set(context.Background(), localstore.KeyShippingSelection,
				selection{PostalCode: "2000", Option: domain.ShippingOption{Name: "Standard"}}))

			_, err := r.Calculate(context.Background(), postal)

			assert.ErrorIs(t, err, ErrInvalidPostalCode)
			assert.Equal(t, 0, calc.calls(), "invalid input must never reach the network")
			_, ok := r.Selection(context.Background())
			assert.False(t, ok, "selection must be cleared")
		})
	}
}

func TestCalculateDefaultsToFirstOption(t *testing.T) {
	calc := &fakeCalculator{
		postResp: json.RawMessage(`[{"name":"Standard","cost":0,"description":"Gratis"},{"name":"Express","cost":500,"description":"24h"}]`),
	}
	r, _ := newTestResolver(calc)

	options, err := r.Calculate(context.Background(), "2000")
	require.NoError(t, err)

	require.Len(t, options, 2)
	assert.Equal(t, "Standard", options[0].Name)
	assert.Equal(t, "Express", options[1].Name)

	sel, ok := r.Selection(context.Background())
	require.True(t, ok)
	assert.Equal(t, "Standard", sel.Name)
	assert.Equal(t, 0.0, sel.Cost)
}

func TestFallbackToGetContract(t *testing.T) {
	calc := &fakeCalculator{
		postErr: errors.New("404 not found"),
		getResp: json.RawMessage(`[{"name":"Standard","cost":300,"description":"5 días"}]`),
	}
	r, _ := newTestResolver(calc)

	options, err := r.Calculate(context.Background(), "2000")
	require.NoError(t, err)

	require.Len(t, options, 1)
	assert.Equal(t, 1, calc.postCalls)
	assert.Equal(t, 1, calc.getCalls)
}

func TestBothContractsFailing(t *testing.T) {
	calc := &fakeCalculator{
		postErr: errors.New("boom"),
		getErr:  errors.New("boom"),
	}
	r, _ := newTestResolver(calc)

	_, err := r.Calculate(context.Background(), "2000")
	assert.Error(t, err)
}

func TestSingleObjectCoercedToArray(t *testing.T) {
	calc := &fakeCalculator{
		postResp: json.RawMessage(`{"name":"Standard","cost":250,"description":"3 días"}`),
	}
	r, _ := newTestResolver(calc)

	options, err := r.Calculate(context.Background(), "2000")
	require.NoError(t, err)

	require.Len(t, options, 1)
	assert.Equal(t, "Standard", options[0].Name)
}

func TestNoOptionsClearsSelection(t *testing.T) {
	calc := &fakeCalculator{postResp: json.RawMessage(`[]`)}
	r, store := newTestResolver(calc)

	require.NoError(t, store.Set(context.Background(), localstore.KeyShippingSelection,
		selection{PostalCode: "2000", Option: domain.ShippingOption{Name: "Standard"}}))

	_, err := r.Calculate(context.Background(), "2000")

	assert.ErrorIs(t, err, ErrNoOptions)
	_, ok := r.Selection(context.Background())
	assert.False(t, ok)
}

func TestOptionsPersistAcrossResolvers(t *testing.T) {
	calc := &fakeCalculator{
		postResp: json.RawMessage(`[{"name":"Standard","cost":0},{"name":"Express","cost":500}]`),
	}
	r, store := newTestResolver(calc)

	_, err := r.Calculate(context.Background(), "2000")
	require.NoError(t, err)

	// A fresh resolver over the same session restores the prior state
	restored := NewResolver(&fakeCalculator{}, store, zap.NewNop())
	options, ok := restored.Options(context.Background(), "2000")
	require.True(t, ok)
	assert.Len(t, options, 2)

	sel, ok := restored.Selection(context.Background())
	require.True(t, ok)
	assert.Equal(t, "Standard", sel.Name)
}

func TestSelectChangesPersistedSelection(t *testing.T) {
	calc := &fakeCalculator{
		postResp: json.RawMessage(`[{"name":"Standard","cost":0},{"name":"Express","cost":500}]`),
	}
	r, _ := newTestResolver(calc)

	_, err := r.Calculate(context.Background(), "2000")
	require.NoError(t, err)

	opt, err := r.Select(context.Background(), "2000", "Express")
	require.NoError(t, err)
	assert.Equal(t, 500.0, opt.Cost)

	sel, ok := r.Selection(context.Background())
	require.True(t, ok)
	assert.Equal(t, "Express", sel.Name)
}

func TestSelectUnknownOption(t *testing.T) {
	calc := &fakeCalculator{
		postResp: json.RawMessage(`[{"name":"Standard","cost":0}]`),
	}
	r, _ := newTestResolver(calc)

	_, err := r.Calculate(context.Background(), "2000")
	require.NoError(t, err)

	_, err = r.Select(context.Background(), "2000", "Overnight")
	assert.Error(t, err)

	_, err = r.Select(context.Background(), "9999", "Standard")
	assert.Error(t, err, "no options were ever calculated for that postal code")
}
