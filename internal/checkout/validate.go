package checkout

import (
	"regexp"
	"sort"
	"strings"
)

// ValidationError reports every violated field of a wizard gate at once,
// not just the first, so the UI can mark all of them and scroll to the
// first invalid one.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// digitCount counts digits after stripping every non-digit rune
func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// ContactForm is the step 1 payload
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// validateContact is the step 1 → step 2 gate
func validateContact(form ContactForm, cartEmpty bool) *ValidationError {
	fields := map[string]string{}
	if strings.TrimSpace(form.Name) == "" {
		fields["name"] = "el nombre es obligatorio"
	}
	if strings.TrimSpace(form.Email) == "" {
		fields["email"] = "el email es obligatorio"
	}
	if strings.TrimSpace(form.Phone) == "" {
		fields["phone"] = "el teléfono es obligatorio"
	}
	if strings.TrimSpace(form.Address) == "" {
		fields["address"] = "la dirección es obligatoria"
	}
	if cartEmpty {
		fields["cart"] = "el carrito está vacío"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ShippingForm is the step 2 payload
type ShippingForm struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	DNI            string  `json:"dni"`
	Street         string  `json:"street"`
	Number         string  `json:"number"`
	City           string  `json:"city"`
	Province       string  `json:"province"`
	CouponDiscount float64 `json:"couponDiscount"`
}

// validateShipping is the step 2 → step 3 gate. Guests must supply a valid
// email; authenticated buyers fall back to their account email.
func validateShipping(form ShippingForm, isGuest, shippingSelected bool) *ValidationError {
	fields := map[string]string{}
	if !shippingSelected {
		fields["shipping"] = "seleccioná un método de envío"
	}
	if strings.TrimSpace(form.FirstName) == "" {
		fields["firstName"] = "el nombre es obligatorio"
	}
	if strings.TrimSpace(form.LastName) == "" {
		fields["lastName"] = "el apellido es obligatorio"
	}
	if isGuest && !emailRe.MatchString(form.Email) {
		fields["email"] = "ingresá un email válido"
	}
	if n := digitCount(form.Phone); n < 6 || n > 15 {
		fields["phone"] = "ingresá un teléfono válido"
	}
	if n := digitCount(form.DNI); n != 8 && n != 11 {
		fields["dni"] = "el DNI debe tener 8 u 11 dígitos"
	}
	if strings.TrimSpace(form.Street) == "" {
		fields["street"] = "la calle es obligatoria"
	}
	if strings.TrimSpace(form.Number) == "" {
		fields["number"] = "el número es obligatorio"
	}
	if strings.TrimSpace(form.City) == "" {
		fields["city"] = "la ciudad es obligatoria"
	}
	if strings.TrimSpace(form.Province) == "" {
		fields["province"] = "la provincia es obligatoria"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
