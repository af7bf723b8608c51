package entities

import (
	"errors"

	"github.com/shopspring/decimal"
)

type Store struct {
	ID            int64
	Name          string
	WhatsAppPhone string
	Currency      string

	ShippingConfig        ShippingConfig
	FreeShippingThreshold *decimal.Decimal
	AllowDelivery         bool
	AllowPickup           bool
}

var (
	ErrStoreNotFound         = errors.New("store not found")
	ErrNoFulfillmentWay      = errors.New("store must allow delivery or pickup")
	ErrFulfillmentNotAllowed = errors.New("fulfillment type not allowed")
)

// ValidateSettings проверяет инварианты настроек перед сохранением.
func (s Store) ValidateSettings() error {
	if !s.AllowDelivery && !s.AllowPickup {
		return ErrNoFulfillmentWay
	}
	if s.FreeShippingThreshold != nil && s.FreeShippingThreshold.IsNegative() {
		return errors.New("free shipping threshold must be non-negative")
	}
	return s.ShippingConfig.Validate()
}
