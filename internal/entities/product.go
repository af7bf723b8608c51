package entities

import (
	"errors"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        int64
	StoreID   int64
	Name      string
	BasePrice decimal.Decimal
	Quantity  int
}

// ProductOption — настраиваемая характеристика товара
// (например Size: [S, M, L]). Порядок значений значим.
type ProductOption struct {
	Name   string
	Values []string
}

// Variant — конкретная комбинация значений опций со своими ценой и остатком.
type Variant struct {
	ID           int64
	ProductID    int64
	OptionValues map[string]string
	Price        decimal.Decimal
	Quantity     int
	SKU          string
}

var ErrProductNotFound = errors.New("product not found")
