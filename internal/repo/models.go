package repo

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/whatsou/checkout-service/internal/entities"

	"github.com/shopspring/decimal"
)

type Store struct {
	StoreID               int64               `db:"store_id"`
	Name                  string              `db:"name"`
	WhatsAppPhone         string              `db:"whatsapp_phone"`
	Currency              string              `db:"currency"`
	ShippingConfig        []byte              `db:"shipping_config"`
	FreeShippingThreshold decimal.NullDecimal `db:"free_shipping_threshold"`
	AllowDelivery         bool                `db:"allow_delivery"`
	AllowPickup           bool                `db:"allow_pickup"`
}

type City struct {
	CityID    int64  `db:"city_id"`
	NameLocal string `db:"name_local"`
	NameAlt   string `db:"name_alt"`
}

type District struct {
	DistrictID int64  `db:"district_id"`
	CityID     int64  `db:"city_id"`
	NameLocal  string `db:"name_local"`
	NameAlt    string `db:"name_alt"`
}

type Product struct {
	ProductID int64           `db:"product_id"`
	StoreID   int64           `db:"store_id"`
	Name      string          `db:"name"`
	BasePrice decimal.Decimal `db:"base_price"`
	Quantity  int             `db:"quantity"`
}

type Variant struct {
	VariantID    int64           `db:"variant_id"`
	ProductID    int64           `db:"product_id"`
	OptionValues []byte          `db:"option_values"`
	Price        decimal.Decimal `db:"price"`
	Quantity     int             `db:"quantity"`
	SKU          sql.NullString  `db:"sku"`
}

type Order struct {
	OrderUID        string          `db:"order_uid"`
	StoreID         int64           `db:"store_id"`
	CustomerName    string          `db:"customer_name"`
	CustomerPhone   string          `db:"customer_phone"`
	CustomerAddress sql.NullString  `db:"customer_address"`
	DeliveryType    string          `db:"delivery_type"`
	CityID          sql.NullInt64   `db:"city_id"`
	DistrictID      sql.NullInt64   `db:"district_id"`
	Subtotal        decimal.Decimal `db:"subtotal"`
	ShippingFee     decimal.Decimal `db:"shipping_fee"`
	FreeShipping    bool            `db:"free_shipping"`
	Total           decimal.Decimal `db:"total"`
	Notes           sql.NullString  `db:"notes"`
	CreatedAt       time.Time       `db:"created_at"`
}

type OrderItem struct {
	OrderUID        string          `db:"order_uid"`
	ProductID       int64           `db:"product_id"`
	VariantID       sql.NullInt64   `db:"variant_id"`
	ProductName     string          `db:"product_name"`
	Quantity        int             `db:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price"`
	SelectedOptions []byte          `db:"selected_options"`
}

func StoreToEntity(s Store) (entities.Store, error) {
	var cfg entities.ShippingConfig
	if len(s.ShippingConfig) > 0 {
		if err := json.Unmarshal(s.ShippingConfig, &cfg); err != nil {
			return entities.Store{}, fmt.Errorf("failed to decode shipping config: %w", err)
		}
	} else {
		cfg = entities.ShippingConfig{Type: entities.ShippingNone}
	}

	store := entities.Store{
		ID:             s.StoreID,
		Name:           s.Name,
		WhatsAppPhone:  s.WhatsAppPhone,
		Currency:       s.Currency,
		ShippingConfig: cfg,
		AllowDelivery:  s.AllowDelivery,
		AllowPickup:    s.AllowPickup,
	}
	if s.FreeShippingThreshold.Valid {
		threshold := s.FreeShippingThreshold.Decimal
		store.FreeShippingThreshold = &threshold
	}
	return store, nil
}

func CityToEntity(c City) entities.City {
	return entities.City{
		ID:        c.CityID,
		NameLocal: c.NameLocal,
		NameAlt:   c.NameAlt,
	}
}

func DistrictToEntity(d District) entities.District {
	return entities.District{
		ID:        d.DistrictID,
		CityID:    d.CityID,
		NameLocal: d.NameLocal,
		NameAlt:   d.NameAlt,
	}
}

func ProductToEntity(p Product) entities.Product {
	return entities.Product{
		ID:        p.ProductID,
		StoreID:   p.StoreID,
		Name:      p.Name,
		BasePrice: p.BasePrice,
		Quantity:  p.Quantity,
	}
}

func VariantToEntity(v Variant) (entities.Variant, error) {
	values := make(map[string]string)
	if len(v.OptionValues) > 0 {
		if err := json.Unmarshal(v.OptionValues, &values); err != nil {
			return entities.Variant{}, fmt.Errorf("failed to decode option values: %w", err)
		}
	}
	return entities.Variant{
		ID:           v.VariantID,
		ProductID:    v.ProductID,
		OptionValues: values,
		Price:        v.Price,
		Quantity:     v.Quantity,
		SKU:          nullStringToString(v.SKU),
	}, nil
}

func ItemToEntity(i OrderItem) (entities.CartItem, error) {
	options := make(map[string]string)
	if len(i.SelectedOptions) > 0 {
		if err := json.Unmarshal(i.SelectedOptions, &options); err != nil {
			return entities.CartItem{}, fmt.Errorf("failed to decode selected options: %w", err)
		}
	}
	return entities.CartItem{
		ProductID:       i.ProductID,
		VariantID:       nullInt64ToPtr(i.VariantID),
		ProductName:     i.ProductName,
		Quantity:        i.Quantity,
		UnitPrice:       i.UnitPrice,
		SelectedOptions: options,
	}, nil
}

func OrderToEntity(o Order, items []OrderItem) (entities.OrderRecord, error) {
	record := entities.OrderRecord{
		OrderUID: o.OrderUID,
		StoreID:  o.StoreID,
		Customer: entities.Customer{
			Name:    o.CustomerName,
			Phone:   o.CustomerPhone,
			Address: nullStringToString(o.CustomerAddress),
		},
		DeliveryType: entities.DeliveryType(o.DeliveryType),
		CityID:       nullInt64ToPtr(o.CityID),
		DistrictID:   nullInt64ToPtr(o.DistrictID),
		Subtotal:     o.Subtotal,
		ShippingFee:  o.ShippingFee,
		FreeShipping: o.FreeShipping,
		Total:        o.Total,
		Notes:        nullStringToString(o.Notes),
		CreatedAt:    o.CreatedAt,
	}

	if len(items) > 0 {
		record.Items = make([]entities.CartItem, 0, len(items))
		for _, it := range items {
			item, err := ItemToEntity(it)
			if err != nil {
				return entities.OrderRecord{}, err
			}
			record.Items = append(record.Items, item)
		}
	}

	return record, nil
}
