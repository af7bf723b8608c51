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

func (r *postgresRepo) GetProduct(ctx context.Context, productID int64) (entities.Product, error) {
	query, args := r.qb.Select("product_id", "store_id", "name", "base_price", "quantity").
		From("products").
		Where(sq.Eq{"product_id": productID}).
		MustSql()

	var product Product
	err := r.getContext(ctx, &product, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Product{}, entities.ErrProductNotFound
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to get product: %w", err)
	}

	return ProductToEntity(product), nil
}

func (r *postgresRepo) ListVariants(ctx context.Context, productID int64) ([]entities.Variant, error) {
	query, args := r.qb.Select("variant_id", "product_id", "option_values", "price", "quantity", "sku").
		From("variants").
		Where(sq.Eq{"product_id": productID}).
		OrderBy("variant_id").
		MustSql()

	var variants []Variant
	if err := r.selectContext(ctx, &variants, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select variants: %w", err)
	}

	result := make([]entities.Variant, 0, len(variants))
	for _, v := range variants {
		variant, err := VariantToEntity(v)
		if err != nil {
			return nil, err
		}
		result = append(result, variant)
	}
	return result, nil
}

func (r *postgresRepo) InsertVariant(ctx context.Context, v entities.Variant) (entities.Variant, error) {
	values, err := json.Marshal(v.OptionValues)
	if err != nil {
		return entities.Variant{}, fmt.Errorf("failed to encode option values: %w", err)
	}

	query, args := r.qb.Insert("variants").
		Columns("product_id", "option_values", "price", "quantity", "sku").
		Values(v.ProductID, values, v.Price, v.Quantity, nullString(v.SKU)).
		Suffix("RETURNING variant_id").
		MustSql()

	var id int64
	if err := r.getContext(ctx, &id, query, args...); err != nil {
		return entities.Variant{}, fmt.Errorf("failed to insert variant: %w", err)
	}

	v.ID = id
	return v, nil
}

func (r *postgresRepo) UpdateVariant(ctx context.Context, v entities.Variant) error {
	values, err := json.Marshal(v.OptionValues)
	if err != nil {
		return fmt.Errorf("failed to encode option values: %w", err)
	}

	query, args := r.qb.Update("variants").
		Set("option_values", values).
		Set("price", v.Price).
		Set("quantity", v.Quantity).
		Set("sku", nullString(v.SKU)).
		Where(sq.Eq{"variant_id": v.ID}).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update variant: %w", err)
	}
	return nil
}

// DeleteVariantsExcept удаляет комбинации, выпавшие из перегенерированного набора.
func (r *postgresRepo) DeleteVariantsExcept(ctx context.Context, productID int64, keepIDs []int64) error {
	q := r.qb.Delete("variants").Where(sq.Eq{"product_id": productID})
	if len(keepIDs) > 0 {
		q = q.Where(sq.NotEq{"variant_id": keepIDs})
	}
	query, args := q.MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete variants: %w", err)
	}
	return nil
}
