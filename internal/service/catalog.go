package service

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/whatsou/checkout-service/internal/entities"
	"github.com/whatsou/checkout-service/pkg/trm"

	"github.com/shopspring/decimal"
)

type CatalogRepo interface {
	GetProduct(ctx context.Context, productID int64) (entities.Product, error)
	ListVariants(ctx context.Context, productID int64) ([]entities.Variant, error)
	InsertVariant(ctx context.Context, v entities.Variant) (entities.Variant, error)
	UpdateVariant(ctx context.Context, v entities.Variant) error
	DeleteVariantsExcept(ctx context.Context, productID int64, keepIDs []int64) error
}

type catalogService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      CatalogRepo
}

func NewCatalogService(logger *slog.Logger, txManager trm.Manager, repo CatalogRepo) *catalogService {
	return &catalogService{
		logger:    logger.With(slog.String("service", "catalog")),
		txManager: txManager,
		repo:      repo,
	}
}

// GenerateVariants строит декартово произведение значений опций в порядке
// их объявления. Существующие комбинации (точное совпадение option_values)
// сохраняют цену, остаток и SKU; новые получают базовую цену и нулевой остаток.
func GenerateVariants(options []entities.ProductOption, existing []entities.Variant, basePrice decimal.Decimal) []entities.Variant {
	combos := [][]string{{}}
	for _, opt := range options {
		values := dedupe(opt.Values)
		if len(values) == 0 {
			continue
		}
		next := make([][]string, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, value := range values {
				extended := make([]string, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, value))
			}
		}
		combos = next
	}

	result := make([]entities.Variant, 0, len(combos))
	for _, combo := range combos {
		if len(combo) == 0 {
			continue
		}
		values := make(map[string]string, len(combo))
		i := 0
		for _, opt := range options {
			if len(dedupe(opt.Values)) == 0 {
				continue
			}
			values[opt.Name] = combo[i]
			i++
		}

		if match, ok := findVariant(existing, values); ok {
			result = append(result, match)
			continue
		}

		result = append(result, entities.Variant{
			OptionValues: values,
			Price:        basePrice,
			Quantity:     0,
		})
	}
	return result
}

func (s *catalogService) RegenerateVariants(ctx context.Context, productID int64, options []entities.ProductOption) ([]entities.Variant, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListVariants(ctx, productID)
	if err != nil {
		return nil, err
	}

	generated := GenerateVariants(options, existing, product.BasePrice)

	result := make([]entities.Variant, 0, len(generated))
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		keepIDs := make([]int64, 0, len(generated))
		for _, v := range generated {
			if v.ID != 0 {
				keepIDs = append(keepIDs, v.ID)
				if err := s.repo.UpdateVariant(ctx, v); err != nil {
					return err
				}
				result = append(result, v)
				continue
			}

			v.ProductID = productID
			inserted, err := s.repo.InsertVariant(ctx, v)
			if err != nil {
				return err
			}
			result = append(result, inserted)
		}

		return s.repo.DeleteVariantsExcept(ctx, productID, keepIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate variants: %w", err)
	}

	s.logger.Debug("variants regenerated",
		slog.Int64("product_id", productID),
		slog.Int("count", len(result)),
	)
	return result, nil
}

func findVariant(existing []entities.Variant, values map[string]string) (entities.Variant, bool) {
	for _, v := range existing {
		if maps.Equal(v.OptionValues, values) {
			return v, true
		}
	}
	return entities.Variant{}, false
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
