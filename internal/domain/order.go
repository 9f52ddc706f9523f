package domain

// PaymentMethod is the buyer's chosen payment channel
type PaymentMethod string

const (
	PaymentArrange  PaymentMethod = "acordar"
	PaymentGateway  PaymentMethod = "mercadopago"
	PaymentTransfer PaymentMethod = "transferencia"
	PaymentCash     PaymentMethod = "efectivo"
)

// IsValid checks if the payment method is one we accept
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentArrange, PaymentGateway, PaymentTransfer, PaymentCash:
		return true
	default:
		return false
	}
}

// CarriesDiscount reports whether the method gets the off-gateway discount
// badge in the payment step.
func (m PaymentMethod) CarriesDiscount() bool {
	return m == PaymentTransfer || m == PaymentCash
}

// OrderItem is one line of the submitted order
type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"cantidad"`
	UnitPrice float64 `json:"precioUnitario"`
	Subtotal  float64 `json:"subtotal"`
}

// OrderRequest is the DTO submitted to the backend at checkout confirmation.
// Total is Σ(item subtotals) + shipping cost − coupon discount, the one
// formula used everywhere a total is shown or sent.
type OrderRequest struct {
	CustomerName      string        `json:"nombre"`
	CustomerLastName  string        `json:"apellido"`
	CustomerEmail     string        `json:"email"`
	CustomerPhone     string        `json:"telefono"`
	CustomerDNI       string        `json:"dni"`
	Street            string        `json:"calle"`
	Number            string        `json:"numero"`
	City              string        `json:"ciudad"`
	Province          string        `json:"provincia"`
	ShippingMethod    string        `json:"metodoEnvio"`
	ShippingCost      float64       `json:"costoEnvio"`
	PaymentMethod     PaymentMethod `json:"metodoPago"`
	Notes             string        `json:"notas"`
	Items             []OrderItem   `json:"items"`
	Total             float64       `json:"total"`
	ExternalReference string        `json:"externalReference"`
	GuestID           string        `json:"guestId,omitempty"`
}

// OrderConfirmation is the backend's view of a created order
type OrderConfirmation struct {
	ID            string        `json:"id"`
	Items         []OrderItem   `json:"items"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"metodoPago"`
	Address       string        `json:"direccion"`
	CreatedAt     string        `json:"createdAt"`
}

// PaymentReturn carries the read-only query params the gateway redirects
// back with. Rendered as-is on the failure/return view.
type PaymentReturn struct {
	Status            string `json:"status"`
	PaymentID         string `json:"paymentId"`
	ExternalReference string `json:"externalReference"`
}
