package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/whatsou/checkout-service/internal/entities"
)

type LocationRepo interface {
	ListCities(ctx context.Context) ([]entities.City, error)
	ListDistrictsByCity(ctx context.Context, cityID int64) ([]entities.District, error)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// Справочник городов и районов: read-only данные, меняются только
// операторами платформы, поэтому агрессивно кэшируются.
type locationService struct {
	logger *slog.Logger
	repo   LocationRepo
	cache  Cache
}

func NewLocationService(logger *slog.Logger, repo LocationRepo, cache Cache) *locationService {
	return &locationService{
		logger: logger.With(slog.String("service", "location")),
		repo:   repo,
		cache:  cache,
	}
}

const citiesCacheKey = "locations:cities"

func districtsCacheKey(cityID int64) string {
	return fmt.Sprintf("locations:districts:%d", cityID)
}

func (s *locationService) ListCities(ctx context.Context) ([]entities.City, error) {
	if data, ok := s.cache.Get(citiesCacheKey); ok {
		var cities entities.Cities
		if err := cities.Unmarshal(data); err == nil {
			return cities, nil
		}
		s.logger.Warn("failed to unmarshal cached cities, falling back to db")
	}

	cities, err := s.repo.ListCities(ctx)
	if err != nil {
		return nil, err
	}

	list := entities.Cities(cities)
	if data, err := list.Marshal(); err == nil {
		s.cache.Set(citiesCacheKey, data)
	}
	return cities, nil
}

func (s *locationService) ListDistricts(ctx context.Context, cityID int64) ([]entities.District, error) {
	key := districtsCacheKey(cityID)
	if data, ok := s.cache.Get(key); ok {
		var districts entities.Districts
		if err := districts.Unmarshal(data); err == nil {
			return districts, nil
		}
		s.logger.Warn("failed to unmarshal cached districts, falling back to db", slog.Int64("city_id", cityID))
	}

	districts, err := s.repo.ListDistrictsByCity(ctx, cityID)
	if err != nil {
		return nil, err
	}

	list := entities.Districts(districts)
	if data, err := list.Marshal(); err == nil {
		s.cache.Set(key, data)
	}
	return districts, nil
}

// WarmUpLocations прогревает кэш городов на старте приложения.
func (s *locationService) WarmUpLocations(ctx context.Context) error {
	cities, err := s.ListCities(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm up locations: %w", err)
	}
	s.logger.Info("locations cache warmed up", slog.Int("cities", len(cities)))
	return nil
}
