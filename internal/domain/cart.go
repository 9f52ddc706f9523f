package domain

// Cart is a read-only snapshot of the server cart. Total is server-computed
// and authoritative; the client only recomputes totals for the ephemeral
// checkout copy of a guest cart.
type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// IsEmpty reports whether the cart has no items
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// CartItem is the canonical shape every heterogeneous backend item record is
// normalized into.
type CartItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}
