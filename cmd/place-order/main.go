// place-order runs a full guest checkout against the configured backend:
// add a product to a fresh guest cart, calculate shipping, walk the wizard
// and confirm with cash payment. Useful for smoke-testing a backend
// deployment end to end.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/cart"
	"github.com/relojeriasur/storefront/internal/checkout"
	"github.com/relojeriasur/storefront/internal/config"
	"github.com/relojeriasur/storefront/internal/domain"
	"github.com/relojeriasur/storefront/internal/identity"
	"github.com/relojeriasur/storefront/internal/localstore"
	"github.com/relojeriasur/storefront/internal/normalize"
	"github.com/relojeriasur/storefront/internal/shipping"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run cmd/place-order/main.go <product-id> <postal-code>")
		fmt.Println("Example: go run cmd/place-order/main.go 3 2000")
		os.Exit(1)
	}

	productID := os.Args[1]
	postalCode := os.Args[2]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx := context.Background()
	client := backend.NewClient(cfg.Backend, logger)
	store := localstore.NewMemoryProvider().ForSession(uuid.NewString())

	ids := identity.NewProvider(client, store, logger)
	actor := ids.Resolve(ctx)
	fmt.Printf("Guest id: %s\n", actor.GuestID)

	opts := normalize.Options{
		UploadBaseURL:    cfg.Assets.UploadBaseURL,
		PlaceholderImage: cfg.Assets.PlaceholderImage,
	}
	cartStore := cart.NewStore(client, ids, opts, logger)

	if err := cartStore.Add(ctx, productID, 1); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to add product: %v\n", err)
		os.Exit(1)
	}
	for _, item := range cartStore.Cart().Items {
		fmt.Printf("In cart: %s x%d (%s)\n", item.Name, item.Quantity, normalize.PriceLabel(item.Subtotal))
	}

	resolver := shipping.NewResolver(client, store, logger)
	options, err := resolver.Calculate(ctx, postalCode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to calculate shipping: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Shipping: %s (%s)\n", options[0].Name, normalize.PriceLabel(options[0].Cost))

	wizard := checkout.NewWizard(cartStore, resolver, ids, client, store, cfg.Payment.CurrencyID, logger)
	if _, err := wizard.Begin(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start checkout: %v\n", err)
		os.Exit(1)
	}
	if _, err := wizard.SubmitContact(ctx, checkout.ContactForm{
		Name:    "Smoke Test",
		Email:   "smoke@example.com",
		Phone:   "3411234567",
		Address: "San Martín 100",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Contact step rejected: %v\n", err)
		os.Exit(1)
	}
	if _, err := wizard.SubmitShipping(ctx, checkout.ShippingForm{
		FirstName: "Smoke",
		LastName:  "Test",
		Email:     "smoke@example.com",
		Phone:     "3411234567",
		DNI:       "12345678",
		Street:    "San Martín",
		Number:    "100",
		City:      "Rosario",
		Province:  "Santa Fe",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Shipping step rejected: %v\n", err)
		os.Exit(1)
	}

	outcome, err := wizard.Confirm(ctx, domain.PaymentCash, "pedido de prueba")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Confirmation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Order created: id=%s total=%s\n", outcome.Order.ID, normalize.PriceLabel(outcome.Order.Total))
}
