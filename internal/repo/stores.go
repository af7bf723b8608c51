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

func (r *postgresRepo) GetStore(ctx context.Context, storeID int64) (entities.Store, error) {
	query, args := r.qb.Select(
		"store_id", "name", "whatsapp_phone", "currency",
		"shipping_config", "free_shipping_threshold",
		"allow_delivery", "allow_pickup").
		From("stores").
		Where(sq.Eq{"store_id": storeID}).
		MustSql()

	var store Store
	err := r.getContext(ctx, &store, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Store{}, entities.ErrStoreNotFound
	}
	if err != nil {
		return entities.Store{}, fmt.Errorf("failed to get store: %w", err)
	}

	return StoreToEntity(store)
}

func (r *postgresRepo) UpdateStoreShipping(ctx context.Context, store entities.Store) error {
	cfg, err := json.Marshal(store.ShippingConfig)
	if err != nil {
		return fmt.Errorf("failed to encode shipping config: %w", err)
	}

	var threshold any
	if store.FreeShippingThreshold != nil {
		threshold = *store.FreeShippingThreshold
	}

	query, args := r.qb.Update("stores").
		Set("shipping_config", cfg).
		Set("free_shipping_threshold", threshold).
		Set("allow_delivery", store.AllowDelivery).
		Set("allow_pickup", store.AllowPickup).
		Where(sq.Eq{"store_id": store.ID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update store shipping: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return entities.ErrStoreNotFound
	}
	return nil
}
