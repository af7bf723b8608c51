package repo

import (
	"context"
	"fmt"

	"github.com/whatsou/checkout-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

func (r *postgresRepo) ListCities(ctx context.Context) ([]entities.City, error) {
	query, args := r.qb.Select("city_id", "name_local", "name_alt").
		From("cities").
		OrderBy("name_local").
		MustSql()

	var cities []City
	if err := r.selectContext(ctx, &cities, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select cities: %w", err)
	}

	result := make([]entities.City, 0, len(cities))
	for _, c := range cities {
		result = append(result, CityToEntity(c))
	}
	return result, nil
}

func (r *postgresRepo) ListDistrictsByCity(ctx context.Context, cityID int64) ([]entities.District, error) {
	query, args := r.qb.Select("district_id", "city_id", "name_local", "name_alt").
		From("districts").
		Where(sq.Eq{"city_id": cityID}).
		OrderBy("name_local").
		MustSql()

	var districts []District
	if err := r.selectContext(ctx, &districts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select districts: %w", err)
	}

	result := make([]entities.District, 0, len(districts))
	for _, d := range districts {
		result = append(result, DistrictToEntity(d))
	}
	return result, nil
}
