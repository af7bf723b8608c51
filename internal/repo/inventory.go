package repo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Декременты атомарны на уровне базы и зажаты в ноль:
// параллельные чекауты не уводят остаток в минус.

func (r *postgresRepo) DecrementVariantStock(ctx context.Context, variantID int64, quantity int) error {
	query, args := r.qb.Update("variants").
		Set("quantity", sq.Expr("GREATEST(quantity - ?, 0)", quantity)).
		Where(sq.Eq{"variant_id": variantID}).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to decrement variant stock: %w", err)
	}
	return nil
}

func (r *postgresRepo) DecrementProductStock(ctx context.Context, productID int64, quantity int) error {
	query, args := r.qb.Update("products").
		Set("quantity", sq.Expr("GREATEST(quantity - ?, 0)", quantity)).
		Where(sq.Eq{"product_id": productID}).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to decrement product stock: %w", err)
	}
	return nil
}
