package entities

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ShippingType — дискриминатор тарифной схемы магазина.
type ShippingType string

const (
	ShippingNone       ShippingType = "none"
	ShippingNationwide ShippingType = "nationwide"
	ShippingByCity     ShippingType = "by_city"
	ShippingByDistrict ShippingType = "by_district"
)

// ShippingConfig хранится как jsonb в настройках магазина.
// Активен ровно один вариант: Price для nationwide,
// CityRates для by_city, DistrictRates для by_district.
type ShippingConfig struct {
	Type          ShippingType              `json:"type"`
	Price         decimal.Decimal           `json:"price"`
	CityRates     map[int64]decimal.Decimal `json:"city_rates,omitempty"`
	DistrictRates map[int64]decimal.Decimal `json:"district_rates,omitempty"`
}

type ShippingResult struct {
	Fee    decimal.Decimal
	IsFree bool
}

var ErrInvalidShippingConfig = errors.New("invalid shipping config")

func (c ShippingConfig) Validate() error {
	switch c.Type {
	case ShippingNone:
	case ShippingNationwide:
		if c.Price.IsNegative() {
			return fmt.Errorf("%w: negative nationwide price", ErrInvalidShippingConfig)
		}
	case ShippingByCity:
		for id, rate := range c.CityRates {
			if rate.IsNegative() {
				return fmt.Errorf("%w: negative rate for city %d", ErrInvalidShippingConfig, id)
			}
		}
	case ShippingByDistrict:
		for id, rate := range c.DistrictRates {
			if rate.IsNegative() {
				return fmt.Errorf("%w: negative rate for district %d", ErrInvalidShippingConfig, id)
			}
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidShippingConfig, c.Type)
	}
	return nil
}
