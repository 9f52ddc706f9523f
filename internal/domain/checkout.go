package domain

// CheckoutStep identifies the wizard step a draft is parked on
type CheckoutStep string

const (
	StepContact   CheckoutStep = "contact"
	StepShipping  CheckoutStep = "shipping"
	StepPayment   CheckoutStep = "payment"
	StepCompleted CheckoutStep = "completed"
)

// CheckoutDraft accumulates across the wizard steps and is checkpointed to
// the session store after every successful gate, so a reload resumes where
// the buyer left off. A stale draft is simply overwritten on the next entry.
type CheckoutDraft struct {
	Step CheckoutStep `json:"step"`

	// Step 1: contact
	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	Address      string `json:"address"`

	// Step 2: shipping and address
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	DNI       string `json:"dni"`
	Street    string `json:"street"`
	Number    string `json:"number"`
	City      string `json:"city"`
	Province  string `json:"province"`

	ShippingOption ShippingOption `json:"shippingOption"`
	CouponDiscount float64        `json:"couponDiscount"`

	// Step 3: payment
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	OrderNotes    string        `json:"orderNotes"`
}
