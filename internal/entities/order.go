package entities

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	Name    string
	Phone   string
	Address string
}

// OrderRecord — то, во что превращается черновик заказа при отправке:
// платёжная нагрузка кафки и строка в базе. Суммы уже посчитаны
// на стороне checkout-сервиса и не пересчитываются при сохранении.
type OrderRecord struct {
	OrderUID     string
	StoreID      int64
	Customer     Customer
	DeliveryType DeliveryType
	CityID       *int64
	DistrictID   *int64
	Items        []CartItem
	Subtotal     decimal.Decimal
	ShippingFee  decimal.Decimal
	FreeShipping bool
	Total        decimal.Decimal
	Notes        string
	CreatedAt    time.Time
}

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidOrder  = errors.New("invalid order")
	ErrEmptyCart     = errors.New("cart is empty")
)

func (o *OrderRecord) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *OrderRecord) Unmarshal(data []byte) error {
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	return nil
}
