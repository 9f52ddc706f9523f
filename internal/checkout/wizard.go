// Package checkout drives the three-step purchase wizard: contact info,
// shipping and address, payment and confirmation. Each step gates on
// validation, checkpoints the draft to the session store, and the final
// step either submits the order or hands the buyer off to the payment
// gateway redirect.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/domain"
	"github.com/relojeriasur/storefront/internal/localstore"
)

// CartAccess is the slice of the cart store the wizard needs
type CartAccess interface {
	Cart() domain.Cart
	Fetch(ctx context.Context) error
	Clear(ctx context.Context) error
}

// ShippingAccess yields the persisted shipping selection
type ShippingAccess interface {
	Selection(ctx context.Context) (domain.ShippingOption, bool)
}

// ActorSource yields the actor the checkout runs as
type ActorSource interface {
	Actor() domain.Actor
}

// OrderBackend is the slice of the commerce API the wizard submits through
type OrderBackend interface {
	CreateOrder(ctx context.Context, actor domain.Actor, order domain.OrderRequest) (*domain.OrderConfirmation, error)
	CreateCheckout(ctx context.Context, req backend.CheckoutIntentRequest) (*backend.CheckoutIntentResponse, error)
}

// ErrWrongStep is returned when an operation does not match the draft's
// current step.
var ErrWrongStep = errors.New("checkout: operation not valid for current step")

// Outcome is the terminal result of a confirmation: either a gateway
// redirect or a confirmed order.
type Outcome struct {
	RedirectURL string
	Order       *domain.OrderConfirmation
}

// Summary is what the checkout sidebar shows. Its Total comes from the same
// formula the submitted order uses.
type Summary struct {
	Items          []domain.CartItem
	ShippingCost   float64
	CouponDiscount float64
	Total          float64
}

type Wizard struct {
	cart       CartAccess
	shipping   ShippingAccess
	actors     ActorSource
	backend    OrderBackend
	store      localstore.Store
	logger     *zap.Logger
	currencyID string
	now        func() time.Time
}

// NewWizard creates a checkout wizard bound to one session
func NewWizard(cart CartAccess, shipping ShippingAccess, actors ActorSource, b OrderBackend, store localstore.Store, currencyID string, logger *zap.Logger) *Wizard {
	return &Wizard{
		cart:       cart,
		shipping:   shipping,
		actors:     actors,
		backend:    b,
		store:      store,
		logger:     logger,
		currencyID: currencyID,
		now:        time.Now,
	}
}

// Begin enters the wizard at step 1 with a fresh draft. Any stale draft is
// overwritten, and a snapshot left by an abandoned from-cart entry is
// dropped so checkout works on the live cart again.
func (w *Wizard) Begin(ctx context.Context) (domain.CheckoutDraft, error) {
	if err := w.store.Delete(ctx, localstore.KeyGuestCartSnapshot); err != nil {
		w.logger.Warn("failed to clear stale cart snapshot", zap.Error(err))
	}
	draft := domain.CheckoutDraft{Step: domain.StepContact}
	if err := w.saveDraft(ctx, draft); err != nil {
		return domain.CheckoutDraft{}, err
	}
	return draft, nil
}

// BeginFromCart is the authenticated sidebar entry: it snapshots the
// current server cart, seeds the draft from the account, and jumps straight
// to step 2.
func (w *Wizard) BeginFromCart(ctx context.Context) (domain.CheckoutDraft, error) {
	if err := w.cart.Fetch(ctx); err != nil {
		return domain.CheckoutDraft{}, err
	}
	snapshot := w.cart.Cart()
	if snapshot.IsEmpty() {
		return domain.CheckoutDraft{}, &ValidationError{Fields: map[string]string{"cart": "el carrito está vacío"}}
	}
	if err := w.store.Set(ctx, localstore.KeyGuestCartSnapshot, snapshot); err != nil {
		return domain.CheckoutDraft{}, err
	}

	actor := w.actors.Actor()
	draft := domain.CheckoutDraft{
		Step:         domain.StepShipping,
		ContactName:  actor.Name,
		ContactEmail: actor.Email,
	}
	if err := w.saveDraft(ctx, draft); err != nil {
		return domain.CheckoutDraft{}, err
	}
	return draft, nil
}

// Draft returns the persisted draft, or an empty one when none exists
func (w *Wizard) Draft(ctx context.Context) domain.CheckoutDraft {
	var draft domain.CheckoutDraft
	if err := w.store.Get(ctx, localstore.KeyCheckoutDraft, &draft); err != nil {
		return domain.CheckoutDraft{}
	}
	return draft
}

// SubmitContact is the step 1 → step 2 transition
func (w *Wizard) SubmitContact(ctx context.Context, form ContactForm) (domain.CheckoutDraft, error) {
	draft := w.Draft(ctx)
	if draft.Step != domain.StepContact {
		return draft, ErrWrongStep
	}

	if err := validateContact(form, w.cart.Cart().IsEmpty()); err != nil {
		return draft, err
	}

	draft.ContactName = form.Name
	draft.ContactEmail = form.Email
	draft.ContactPhone = form.Phone
	draft.Address = form.Address
	draft.Step = domain.StepShipping
	if err := w.saveDraft(ctx, draft); err != nil {
		return draft, err
	}
	return draft, nil
}

// SubmitShipping is the step 2 → step 3 transition. On success the merged
// draft carries the resolved shipping option and any coupon discount.
func (w *Wizard) SubmitShipping(ctx context.Context, form ShippingForm) (domain.CheckoutDraft, error) {
	draft := w.Draft(ctx)
	if draft.Step != domain.StepShipping {
		return draft, ErrWrongStep
	}

	actor := w.actors.Actor()
	option, selected := w.shipping.Selection(ctx)
	if err := validateShipping(form, actor.IsGuest(), selected); err != nil {
		return draft, err
	}

	draft.FirstName = form.FirstName
	draft.LastName = form.LastName
	draft.Email = form.Email
	if draft.Email == "" {
		// Authenticated buyers may omit the email and use the account's
		draft.Email = actor.Email
	}
	draft.Phone = form.Phone
	draft.DNI = form.DNI
	draft.Street = form.Street
	draft.Number = form.Number
	draft.City = form.City
	draft.Province = form.Province
	draft.ShippingOption = option
	draft.CouponDiscount = form.CouponDiscount
	draft.Step = domain.StepPayment
	if err := w.saveDraft(ctx, draft); err != nil {
		return draft, err
	}
	return draft, nil
}

// Summary composes the checkout totals from the checkout cart copy, the
// selected shipping option and the draft's coupon discount.
func (w *Wizard) Summary(ctx context.Context) Summary {
	draft := w.Draft(ctx)
	items := w.checkoutCart(ctx).Items
	return Summary{
		Items:          items,
		ShippingCost:   draft.ShippingOption.Cost,
		CouponDiscount: draft.CouponDiscount,
		Total:          Total(items, draft.ShippingOption.Cost, draft.CouponDiscount),
	}
}

// Confirm is the terminal step 3 action. Gateway payments yield a redirect
// URL; every other method submits the order directly. A fresh external
// reference is generated on every attempt and is never reused.
func (w *Wizard) Confirm(ctx context.Context, method domain.PaymentMethod, notes string) (*Outcome, error) {
	draft := w.Draft(ctx)
	if draft.Step != domain.StepPayment {
		return nil, ErrWrongStep
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("checkout: unknown payment method %q", method)
	}

	draft.PaymentMethod = method
	draft.OrderNotes = notes

	externalRef := strconv.FormatInt(w.now().UnixMilli(), 10)
	if err := w.store.Set(ctx, localstore.KeyExternalReference, externalRef); err != nil {
		w.logger.Warn("failed to persist external reference", zap.Error(err))
	}

	snapshot := w.checkoutCart(ctx)
	total := Total(snapshot.Items, draft.ShippingOption.Cost, draft.CouponDiscount)

	if method == domain.PaymentGateway {
		resp, err := w.backend.CreateCheckout(ctx, backend.CheckoutIntentRequest{
			Amount:            total,
			Description:       fmt.Sprintf("Compra Relojería Sur (%d productos)", len(snapshot.Items)),
			PayerEmail:        draft.Email,
			CurrencyID:        w.currencyID,
			Quantity:          1,
			ExternalReference: externalRef,
		})
		if err != nil {
			w.logger.Error("failed to create gateway checkout", zap.Error(err))
			return nil, fmt.Errorf("no pudimos iniciar el pago: %w", err)
		}
		if resp.InitPoint == "" {
			return nil, errors.New("no pudimos iniciar el pago: respuesta sin URL de redirección")
		}
		return &Outcome{RedirectURL: resp.InitPoint}, nil
	}

	if snapshot.IsEmpty() {
		return nil, &ValidationError{Fields: map[string]string{"cart": "el carrito está vacío"}}
	}

	order := w.composeOrder(draft, snapshot, total, externalRef)
	actor := w.actors.Actor()
	conf, err := w.backend.CreateOrder(ctx, actor, order)
	if err != nil {
		w.logger.Error("order submission failed", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", submitMessage(err), err)
	}

	// Success: the cart, the draft and the checkout snapshot are done
	if err := w.cart.Clear(ctx); err != nil {
		w.logger.Warn("failed to clear cart after order", zap.Error(err))
	}
	if err := w.store.Delete(ctx, localstore.KeyCheckoutDraft); err != nil {
		w.logger.Warn("failed to clear checkout draft", zap.Error(err))
	}
	if err := w.store.Delete(ctx, localstore.KeyGuestCartSnapshot); err != nil {
		w.logger.Warn("failed to clear cart snapshot", zap.Error(err))
	}

	return &Outcome{Order: conf}, nil
}

// composeOrder builds the submission DTO from draft + cart snapshot
func (w *Wizard) composeOrder(draft domain.CheckoutDraft, snapshot domain.Cart, total float64, externalRef string) domain.OrderRequest {
	items := make([]domain.OrderItem, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	name := draft.FirstName
	if name == "" {
		name = draft.ContactName
	}
	return domain.OrderRequest{
		CustomerName:      name,
		CustomerLastName:  draft.LastName,
		CustomerEmail:     draft.Email,
		CustomerPhone:     draft.Phone,
		CustomerDNI:       draft.DNI,
		Street:            draft.Street,
		Number:            draft.Number,
		City:              draft.City,
		Province:          draft.Province,
		ShippingMethod:    draft.ShippingOption.Name,
		ShippingCost:      draft.ShippingOption.Cost,
		PaymentMethod:     draft.PaymentMethod,
		Notes:             draft.OrderNotes,
		Items:             items,
		Total:             total,
		ExternalReference: externalRef,
	}
}

// checkoutCart is the cart copy checkout works on: the snapshot taken at
// wizard entry when one exists, otherwise the live server snapshot.
func (w *Wizard) checkoutCart(ctx context.Context) domain.Cart {
	var snapshot domain.Cart
	if err := w.store.Get(ctx, localstore.KeyGuestCartSnapshot, &snapshot); err == nil && !snapshot.IsEmpty() {
		return snapshot
	}
	return w.cart.Cart()
}

func (w *Wizard) saveDraft(ctx context.Context, draft domain.CheckoutDraft) error {
	if err := w.store.Set(ctx, localstore.KeyCheckoutDraft, draft); err != nil {
		return fmt.Errorf("failed to persist checkout draft: %w", err)
	}
	return nil
}

func submitMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "no pudimos registrar tu pedido"
}
