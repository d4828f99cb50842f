// Package notify composes the pt-BR WhatsApp hand-off message the storefront
// sends after checkout.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andrefarias/pedefacil-backend/pkg/enums"
)

// Item is one order line as it appears in the message.
type Item struct {
	Name     string
	Quantity int
	// Extras render inside parentheses after the item name, already
	// emoji-prefixed ("🍟 Batata", "🥤 Coca-Cola").
	Extras []string
	// Addons render on their own "➕ Adicionais:" line ("2x Bacon").
	Addons []string
}

// Order carries everything the message needs.
type Order struct {
	Number         int
	CustomerName   string
	CustomerPhone  string
	Items          []Item
	PaymentMethod  enums.PaymentMethod
	CouponCode     string
	CouponDiscount decimal.Decimal
	DeliveryType   enums.DeliveryType
	DeliveryFee    decimal.Decimal
	Address        string
	ReferencePoint string
	Observation    string
	Total          decimal.Decimal
}

var paymentLabels = map[enums.PaymentMethod]string{
	enums.PaymentMethodCartao:   "💳 Cartão",
	enums.PaymentMethodDinheiro: "💵 Dinheiro",
	enums.PaymentMethodPix:      "📱 PIX",
}

// ComposeOrderMessage renders the order as the plain-text message the store
// receives. The layout is fixed; the store staff parse it by eye.
func ComposeOrderMessage(order Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Pedido nº %d\n\n", order.Number)
	fmt.Fprintf(&b, "👤 *%s*\n📞 %s\n\nItens:\n", order.CustomerName, order.CustomerPhone)

	for _, item := range order.Items {
		fmt.Fprintf(&b, "\n➡ %dx %s", item.Quantity, item.Name)
		if len(item.Extras) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(item.Extras, ", "))
		}
		if len(item.Addons) > 0 {
			fmt.Fprintf(&b, "\n   ➕ Adicionais: %s", strings.Join(item.Addons, ", "))
		}
	}

	label, ok := paymentLabels[order.PaymentMethod]
	if !ok {
		label = order.PaymentMethod.String()
	}
	fmt.Fprintf(&b, "\n\n%s", label)

	if order.CouponCode != "" {
		fmt.Fprintf(&b, "\n🏷️ Cupom: %s (-%s)", order.CouponCode, FormatBRL(order.CouponDiscount))
	}

	if order.DeliveryType == enums.DeliveryTypeDelivery {
		fmt.Fprintf(&b, "\n\n🛵 Delivery (taxa de: %s)", FormatBRL(order.DeliveryFee))
		fmt.Fprintf(&b, "\n\n🏠 %s", order.Address)
		if order.ReferencePoint != "" {
			fmt.Fprintf(&b, "\n📍 Ref: %s", order.ReferencePoint)
		}
		b.WriteString("\n\n(Estimativa: 50 minutos)")
	} else {
		b.WriteString("\n\n🏪 Retirada na loja")
	}

	if order.Observation != "" {
		fmt.Fprintf(&b, "\n\n📝 *Obs:* %s", order.Observation)
	}

	fmt.Fprintf(&b, "\n\nTotal: %s", FormatBRL(order.Total))
	b.WriteString("\n\nObrigado pela preferência, se precisar de algo é só chamar! 😉")

	return b.String()
}

// Link builds the wa.me deep link that opens the chat with the message
// prefilled. storePhone is digits only, country code included.
func Link(storePhone, message string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", storePhone, encoded)
}

// FormatBRL renders a decimal as pt-BR currency: "R$ 1.234,56".
func FormatBRL(value decimal.Decimal) string {
	negative := value.IsNegative()
	fixed := value.Abs().StringFixed(2)

	intPart := fixed[:len(fixed)-3]
	fracPart := fixed[len(fixed)-2:]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := fmt.Sprintf("R$ %s,%s", strings.Join(groups, "."), fracPart)
	if negative {
		return "-" + out
	}
	return out
}
