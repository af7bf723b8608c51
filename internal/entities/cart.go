package entities

import "github.com/shopspring/decimal"

// DeliveryType — способ получения заказа.
type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

// CartItem — позиция корзины. Живёт на клиенте и приходит
// в запросах quote/dispatch; имя товара — денормализованный снимок.
type CartItem struct {
	ProductID       int64
	VariantID       *int64
	ProductName     string
	Quantity        int
	UnitPrice       decimal.Decimal
	SelectedOptions map[string]string
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
