package enums

import "fmt"

// PaymentMethod is the method the customer settles the order with. Values are
// the pt-BR labels the storefront has always used on the wire.
type PaymentMethod string

const (
	PaymentMethodCartao   PaymentMethod = "cartao"
	PaymentMethodDinheiro PaymentMethod = "dinheiro"
	PaymentMethodPix      PaymentMethod = "pix"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCartao,
	PaymentMethodDinheiro,
	PaymentMethodPix,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
