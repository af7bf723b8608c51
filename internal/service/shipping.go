package service

import (
	"github.com/whatsou/checkout-service/internal/entities"

	"github.com/shopspring/decimal"
)

// ShippingQuery — всё, что нужно для расчёта доставки одной корзины.
// CityID/DistrictID могут быть nil, пока покупатель не выбрал адрес.
type ShippingQuery struct {
	DeliveryType  entities.DeliveryType
	Subtotal      decimal.Decimal
	FreeThreshold *decimal.Decimal
	CityID        *int64
	DistrictID    *int64
}

// ResolveShipping — чистая функция расчёта стоимости доставки.
// Порядок правил фиксирован: самовывоз всегда бесплатен и не считается
// "бесплатной доставкой"; порог бесплатной доставки перекрывает любой тариф;
// отсутствующая в тарифной таблице зона даёт нулевую ставку
// (поведение исходной витрины, закреплено регрессионными тестами).
func ResolveShipping(cfg entities.ShippingConfig, q ShippingQuery) entities.ShippingResult {
	if q.DeliveryType == entities.DeliveryTypePickup {
		return entities.ShippingResult{Fee: decimal.Zero}
	}

	if q.FreeThreshold != nil && q.Subtotal.GreaterThanOrEqual(*q.FreeThreshold) {
		return entities.ShippingResult{Fee: decimal.Zero, IsFree: true}
	}

	switch cfg.Type {
	case entities.ShippingNationwide:
		return entities.ShippingResult{Fee: cfg.Price}
	case entities.ShippingByCity:
		if q.CityID == nil {
			return entities.ShippingResult{Fee: decimal.Zero}
		}
		return entities.ShippingResult{Fee: cfg.CityRates[*q.CityID]}
	case entities.ShippingByDistrict:
		// район имеет смысл только внутри выбранного города
		if q.CityID == nil || q.DistrictID == nil {
			return entities.ShippingResult{Fee: decimal.Zero}
		}
		return entities.ShippingResult{Fee: cfg.DistrictRates[*q.DistrictID]}
	default:
		// none и невалидные конфиги: бесплатно, валидация живёт на границах
		return entities.ShippingResult{Fee: decimal.Zero}
	}
}

// Subtotal суммирует позиции без промежуточного округления,
// до двух знаков округляет только слой форматирования.
func Subtotal(items []entities.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

func Total(subtotal decimal.Decimal, shipping entities.ShippingResult) decimal.Decimal {
	return subtotal.Add(shipping.Fee)
}

// FreeShippingProgress — производное состояние для подсказки
// "добавьте ещё N до бесплатной доставки".
type FreeShippingProgress struct {
	Eligible  bool
	Achieved  bool
	Remaining decimal.Decimal
}

func ProgressToFreeShipping(subtotal decimal.Decimal, threshold *decimal.Decimal) FreeShippingProgress {
	if threshold == nil {
		return FreeShippingProgress{Remaining: decimal.Zero}
	}
	if subtotal.GreaterThanOrEqual(*threshold) {
		return FreeShippingProgress{Eligible: true, Achieved: true, Remaining: decimal.Zero}
	}
	return FreeShippingProgress{Eligible: true, Remaining: threshold.Sub(subtotal)}
}
