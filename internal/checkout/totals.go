package checkout

import "github.com/relojeriasur/storefront/internal/domain"

// Total is the one total formula: Σ(item subtotals) + shipping cost −
// coupon discount. The cart summary, the checkout summary and the submitted
// order DTO all go through here so they can never disagree.
func Total(items []domain.CartItem, shippingCost, couponDiscount float64) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Subtotal
	}
	return sum + shippingCost - couponDiscount
}
