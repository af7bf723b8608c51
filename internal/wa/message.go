// Package wa собирает текст заказа и deep link для WhatsApp.
// Формат строк — единственный "wire format" чекаута: его видит покупатель
// и продавец, менять без нужды нельзя.
package wa

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/whatsou/checkout-service/internal/entities"
)

// MessageData — заказ плюс отображаемые имена, которые в записи
// заказа хранятся только идентификаторами.
type MessageData struct {
	StoreName    string
	Currency     string
	Order        entities.OrderRecord
	CityName     string
	DistrictName string
}

// Compose рендерит заказ в текст сообщения.
// Строка доставки опускается при нулевой платной доставке
// и заменяется на FREE при сработавшем пороге.
func Compose(data MessageData) string {
	o := data.Order

	var b strings.Builder
	fmt.Fprintf(&b, "New order — %s\n\n", data.StoreName)

	fmt.Fprintf(&b, "Customer: %s\n", o.Customer.Name)
	fmt.Fprintf(&b, "Phone: %s\n", o.Customer.Phone)

	if o.DeliveryType == entities.DeliveryTypePickup {
		b.WriteString("Pickup from store\n")
	} else {
		b.WriteString("Delivery: " + deliveryLine(o.Customer.Address, data.DistrictName, data.CityName) + "\n")
	}

	b.WriteString("\nItems:\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "- %s%s x%d — %s %s\n",
			item.ProductName,
			optionsSuffix(item.SelectedOptions),
			item.Quantity,
			item.LineTotal().StringFixed(2),
			data.Currency,
		)
	}

	fmt.Fprintf(&b, "\nSubtotal: %s %s\n", o.Subtotal.StringFixed(2), data.Currency)
	switch {
	case o.FreeShipping:
		b.WriteString("Shipping: FREE\n")
	case o.ShippingFee.IsPositive():
		fmt.Fprintf(&b, "Shipping: %s %s\n", o.ShippingFee.StringFixed(2), data.Currency)
	}
	fmt.Fprintf(&b, "Total: %s %s\n", o.Total.StringFixed(2), data.Currency)

	if o.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", o.Notes)
	}

	return b.String()
}

// Link строит https://wa.me/<phone>?text=<message>.
// Кодирование совпадает с encodeURIComponent: пробел — %20, не +.
func Link(phone, text string) string {
	return "https://wa.me/" + digits(phone) + "?text=" + encodeText(text)
}

func deliveryLine(parts ...string) string {
	filled := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			filled = append(filled, p)
		}
	}
	return strings.Join(filled, ", ")
}

func optionsSuffix(options map[string]string) string {
	if len(options) == 0 {
		return ""
	}
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+": "+options[name])
	}
	return " (" + strings.Join(pairs, ", ") + ")"
}

func digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func encodeText(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
