package handler

import (
	"time"

	"github.com/whatsou/checkout-service/internal/entities"
	"github.com/whatsou/checkout-service/internal/service"

	"github.com/shopspring/decimal"
)

// OrderRecord — запись заказа в кафке и наружу по HTTP
type OrderRecord struct {
	OrderUID     string          `json:"order_uid" validate:"required"`
	StoreID      int64           `json:"store_id" validate:"required"`
	Customer     Customer        `json:"customer" validate:"required"`
	DeliveryType string          `json:"delivery_type" validate:"required,oneof=delivery pickup"`
	CityID       *int64          `json:"city_id,omitempty"`
	DistrictID   *int64          `json:"district_id,omitempty"`
	Items        []OrderItem     `json:"items" validate:"required,min=1,dive"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingFee  decimal.Decimal `json:"shipping_fee"`
	FreeShipping bool            `json:"free_shipping"`
	Total        decimal.Decimal `json:"total"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Customer — данные покупателя
type Customer struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address,omitempty"`
}

// OrderItem — позиция корзины
type OrderItem struct {
	ProductID       int64             `json:"product_id" validate:"required"`
	VariantID       *int64            `json:"variant_id,omitempty"`
	ProductName     string            `json:"product_name" validate:"required"`
	Quantity        int               `json:"quantity" validate:"required,gt=0"`
	UnitPrice       decimal.Decimal   `json:"unit_price"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

// QuoteRequest — расчёт корзины без отправки заказа
type QuoteRequest struct {
	StoreID      int64       `json:"store_id" validate:"required"`
	DeliveryType string      `json:"delivery_type" validate:"required,oneof=delivery pickup"`
	CityID       *int64      `json:"city_id,omitempty"`
	DistrictID   *int64      `json:"district_id,omitempty"`
	Items        []OrderItem `json:"items" validate:"required,min=1,dive"`
}

// QuoteResponse — суммы корзины и состояние бесплатной доставки
type QuoteResponse struct {
	Currency              string          `json:"currency"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	ShippingFee           decimal.Decimal `json:"shipping_fee"`
	FreeShipping          bool            `json:"free_shipping"`
	Total                 decimal.Decimal `json:"total"`
	FreeShippingAvailable bool            `json:"free_shipping_available"`
	FreeShippingAchieved  bool            `json:"free_shipping_achieved"`
	RemainingToFree       decimal.Decimal `json:"remaining_to_free"`
}

// DispatchRequest — оформление заказа
type DispatchRequest struct {
	StoreID         int64       `json:"store_id" validate:"required"`
	DeliveryType    string      `json:"delivery_type" validate:"required,oneof=delivery pickup"`
	CityID          *int64      `json:"city_id,omitempty"`
	DistrictID      *int64      `json:"district_id,omitempty"`
	Items           []OrderItem `json:"items" validate:"required,min=1,dive"`
	CustomerName    string      `json:"customer_name" validate:"required"`
	CustomerPhone   string      `json:"customer_phone" validate:"required"`
	CustomerAddress string      `json:"customer_address" validate:"required_if=DeliveryType delivery"`
	Notes           string      `json:"notes,omitempty"`
}

// DispatchResponse — результат оформления: deep link и итог
type DispatchResponse struct {
	OrderUID    string          `json:"order_uid"`
	WhatsAppURL string          `json:"whatsapp_url"`
	Message     string          `json:"message"`
	Total       decimal.Decimal `json:"total"`
}

// City — город из справочника
type City struct {
	ID        int64  `json:"id"`
	NameLocal string `json:"name_local"`
	NameAlt   string `json:"name_alt"`
}

// District — район из справочника
type District struct {
	ID        int64  `json:"id"`
	CityID    int64  `json:"city_id"`
	NameLocal string `json:"name_local"`
	NameAlt   string `json:"name_alt"`
}

// ShippingConfig — тарифная схема магазина
type ShippingConfig struct {
	Type          string                    `json:"type" validate:"required,oneof=none nationwide by_city by_district"`
	Price         decimal.Decimal           `json:"price"`
	CityRates     map[int64]decimal.Decimal `json:"city_rates,omitempty"`
	DistrictRates map[int64]decimal.Decimal `json:"district_rates,omitempty"`
}

// ShippingSettingsRequest — обновление настроек доставки магазина
type ShippingSettingsRequest struct {
	ShippingConfig        ShippingConfig   `json:"shipping_config" validate:"required"`
	FreeShippingThreshold *decimal.Decimal `json:"free_shipping_threshold,omitempty"`
	AllowDelivery         bool             `json:"allow_delivery"`
	AllowPickup           bool             `json:"allow_pickup"`
}

// StoreResponse — настройки магазина
type StoreResponse struct {
	ID                    int64            `json:"id"`
	Name                  string           `json:"name"`
	Currency              string           `json:"currency"`
	ShippingConfig        ShippingConfig   `json:"shipping_config"`
	FreeShippingThreshold *decimal.Decimal `json:"free_shipping_threshold,omitempty"`
	AllowDelivery         bool             `json:"allow_delivery"`
	AllowPickup           bool             `json:"allow_pickup"`
}

// ProductOption — опция товара со списком значений
type ProductOption struct {
	Name   string   `json:"name" validate:"required"`
	Values []string `json:"values" validate:"required,min=1"`
}

// RegenerateVariantsRequest — полный список опций товара
type RegenerateVariantsRequest struct {
	Options []ProductOption `json:"options" validate:"required,min=1,dive"`
}

// Variant — комбинация значений опций
type Variant struct {
	ID           int64             `json:"id"`
	ProductID    int64             `json:"product_id"`
	OptionValues map[string]string `json:"option_values"`
	Price        decimal.Decimal   `json:"price"`
	Quantity     int               `json:"quantity"`
	SKU          string            `json:"sku,omitempty"`
}

func CustomerEntityToJSON(c entities.Customer) Customer {
	return Customer{
		Name:    c.Name,
		Phone:   c.Phone,
		Address: c.Address,
	}
}

func CustomerJSONToEntity(c Customer) entities.Customer {
	return entities.Customer{
		Name:    c.Name,
		Phone:   c.Phone,
		Address: c.Address,
	}
}

func ItemEntityToJSON(i entities.CartItem) OrderItem {
	return OrderItem{
		ProductID:       i.ProductID,
		VariantID:       i.VariantID,
		ProductName:     i.ProductName,
		Quantity:        i.Quantity,
		UnitPrice:       i.UnitPrice,
		SelectedOptions: i.SelectedOptions,
	}
}

func ItemJSONToEntity(i OrderItem) entities.CartItem {
	return entities.CartItem{
		ProductID:       i.ProductID,
		VariantID:       i.VariantID,
		ProductName:     i.ProductName,
		Quantity:        i.Quantity,
		UnitPrice:       i.UnitPrice,
		SelectedOptions: i.SelectedOptions,
	}
}

func ItemsJSONToEntities(items []OrderItem) []entities.CartItem {
	result := make([]entities.CartItem, 0, len(items))
	for _, it := range items {
		result = append(result, ItemJSONToEntity(it))
	}
	return result
}

func OrderEntityToJSON(o entities.OrderRecord) OrderRecord {
	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemEntityToJSON(it))
	}

	return OrderRecord{
		OrderUID:     o.OrderUID,
		StoreID:      o.StoreID,
		Customer:     CustomerEntityToJSON(o.Customer),
		DeliveryType: string(o.DeliveryType),
		CityID:       o.CityID,
		DistrictID:   o.DistrictID,
		Items:        items,
		Subtotal:     o.Subtotal,
		ShippingFee:  o.ShippingFee,
		FreeShipping: o.FreeShipping,
		Total:        o.Total,
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
	}
}

func OrderJSONToEntity(o OrderRecord) entities.OrderRecord {
	return entities.OrderRecord{
		OrderUID:     o.OrderUID,
		StoreID:      o.StoreID,
		Customer:     CustomerJSONToEntity(o.Customer),
		DeliveryType: entities.DeliveryType(o.DeliveryType),
		CityID:       o.CityID,
		DistrictID:   o.DistrictID,
		Items:        ItemsJSONToEntities(o.Items),
		Subtotal:     o.Subtotal,
		ShippingFee:  o.ShippingFee,
		FreeShipping: o.FreeShipping,
		Total:        o.Total,
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
	}
}

func CityEntityToJSON(c entities.City) City {
	return City{
		ID:        c.ID,
		NameLocal: c.NameLocal,
		NameAlt:   c.NameAlt,
	}
}

func DistrictEntityToJSON(d entities.District) District {
	return District{
		ID:        d.ID,
		CityID:    d.CityID,
		NameLocal: d.NameLocal,
		NameAlt:   d.NameAlt,
	}
}

func ShippingConfigEntityToJSON(c entities.ShippingConfig) ShippingConfig {
	return ShippingConfig{
		Type:          string(c.Type),
		Price:         c.Price,
		CityRates:     c.CityRates,
		DistrictRates: c.DistrictRates,
	}
}

func ShippingConfigJSONToEntity(c ShippingConfig) entities.ShippingConfig {
	return entities.ShippingConfig{
		Type:          entities.ShippingType(c.Type),
		Price:         c.Price,
		CityRates:     c.CityRates,
		DistrictRates: c.DistrictRates,
	}
}

func StoreEntityToJSON(s entities.Store) StoreResponse {
	return StoreResponse{
		ID:                    s.ID,
		Name:                  s.Name,
		Currency:              s.Currency,
		ShippingConfig:        ShippingConfigEntityToJSON(s.ShippingConfig),
		FreeShippingThreshold: s.FreeShippingThreshold,
		AllowDelivery:         s.AllowDelivery,
		AllowPickup:           s.AllowPickup,
	}
}

func OptionJSONToEntity(o ProductOption) entities.ProductOption {
	return entities.ProductOption{
		Name:   o.Name,
		Values: o.Values,
	}
}

func VariantEntityToJSON(v entities.Variant) Variant {
	return Variant{
		ID:           v.ID,
		ProductID:    v.ProductID,
		OptionValues: v.OptionValues,
		Price:        v.Price,
		Quantity:     v.Quantity,
		SKU:          v.SKU,
	}
}

func QuoteToJSON(q service.Quote) QuoteResponse {
	return QuoteResponse{
		Currency:              q.Currency,
		Subtotal:              q.Subtotal,
		ShippingFee:           q.Shipping.Fee,
		FreeShipping:          q.Shipping.IsFree,
		Total:                 q.Total,
		FreeShippingAvailable: q.FreeShipping.Eligible,
		FreeShippingAchieved:  q.FreeShipping.Achieved,
		RemainingToFree:       q.FreeShipping.Remaining,
	}
}
