package domain

// ShippingOption is one rate returned by the shipping calculator. Name is
// assumed unique within the result set for a single postal code query and is
// what a selection is keyed by.
type ShippingOption struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}
