package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/whatsou/checkout-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

// Операции идемпотентны за счёт ON CONFLICT DO NOTHING:
// повторная доставка сообщения из кафки не плодит дубликатов.

func (r *postgresRepo) SaveOrder(ctx context.Context, o entities.OrderRecord) error {
	query, args := r.qb.Insert("orders").
		Columns(
			"order_uid", "store_id", "customer_name", "customer_phone",
			"customer_address", "delivery_type", "city_id", "district_id",
			"subtotal", "shipping_fee", "free_shipping", "total", "notes", "created_at",
		).
		Values(
			o.OrderUID, o.StoreID, o.Customer.Name, o.Customer.Phone,
			nullString(o.Customer.Address), string(o.DeliveryType),
			nullInt64(o.CityID), nullInt64(o.DistrictID),
			o.Subtotal, o.ShippingFee, o.FreeShipping, o.Total,
			nullString(o.Notes), o.CreatedAt,
		).
		Suffix("ON CONFLICT (order_uid) DO NOTHING").
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (r *postgresRepo) SaveOrderItems(ctx context.Context, orderUID string, items []entities.CartItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.qb.Insert("order_items").
		Columns("order_uid", "product_id", "variant_id", "product_name",
			"quantity", "unit_price", "selected_options").
		Suffix("ON CONFLICT DO NOTHING")

	for _, it := range items {
		options, err := json.Marshal(it.SelectedOptions)
		if err != nil {
			return fmt.Errorf("failed to encode selected options: %w", err)
		}
		q = q.Values(
			orderUID,
			it.ProductID,
			nullInt64(it.VariantID),
			it.ProductName,
			it.Quantity,
			it.UnitPrice,
			options,
		)
	}

	query, args := q.MustSql()
	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save order items: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetOrder(ctx context.Context, orderUID string) (entities.OrderRecord, error) {
	query, args := r.qb.Select(
		"order_uid", "store_id", "customer_name", "customer_phone",
		"customer_address", "delivery_type", "city_id", "district_id",
		"subtotal", "shipping_fee", "free_shipping", "total", "notes", "created_at").
		From("orders").
		Where(sq.Eq{"order_uid": orderUID}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.OrderRecord{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.OrderRecord{}, fmt.Errorf("failed to get order: %w", err)
	}

	query, args = r.qb.Select(
		"order_uid", "product_id", "variant_id", "product_name",
		"quantity", "unit_price", "selected_options").
		From("order_items").
		Where(sq.Eq{"order_uid": orderUID}).
		MustSql()

	var items []OrderItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return entities.OrderRecord{}, fmt.Errorf("failed to select order items: %w", err)
	}

	return OrderToEntity(order, items)
}
