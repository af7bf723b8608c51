package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/whatsou/checkout-service/internal/entities"
	"github.com/whatsou/checkout-service/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLocationService_ListCities(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cities := []entities.City{
		{ID: 3, NameLocal: "القاهرة", NameAlt: "Cairo"},
		{ID: 4, NameLocal: "الإسكندرية", NameAlt: "Alexandria"},
	}

	t.Run("second call served from cache", func(t *testing.T) {
		repo := &mockLocationRepo{}
		repo.On("ListCities", mock.Anything).Return(cities, nil).Once()

		svc := service.NewLocationService(logger, repo, newStubCache())

		got, err := svc.ListCities(context.Background())
		require.NoError(t, err)
		assert.Equal(t, cities, got)

		got, err = svc.ListCities(context.Background())
		require.NoError(t, err)
		assert.Equal(t, cities, got)

		repo.AssertNumberOfCalls(t, "ListCities", 1)
	})

	t.Run("corrupted cache entry falls back to db", func(t *testing.T) {
		repo := &mockLocationRepo{}
		repo.On("ListCities", mock.Anything).Return(cities, nil).Once()

		cache := newStubCache()
		cache.Set("locations:cities", []byte("garbage"))

		svc := service.NewLocationService(logger, repo, cache)

		got, err := svc.ListCities(context.Background())
		require.NoError(t, err)
		assert.Equal(t, cities, got)
	})

	t.Run("db error is returned", func(t *testing.T) {
		repo := &mockLocationRepo{}
		repo.On("ListCities", mock.Anything).Return(nil, errors.New("db is down")).Once()

		svc := service.NewLocationService(logger, repo, newStubCache())

		_, err := svc.ListCities(context.Background())
		assert.Error(t, err)
	})
}

func TestLocationService_ListDistricts(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	districts := []entities.District{
		{ID: 12, CityID: 3, NameLocal: "مدينة نصر", NameAlt: "Nasr City"},
	}

	t.Run("cached per city", func(t *testing.T) {
		repo := &mockLocationRepo{}
		repo.On("ListDistrictsByCity", mock.Anything, int64(3)).Return(districts, nil).Once()
		repo.On("ListDistrictsByCity", mock.Anything, int64(4)).Return(nil, nil).Once()

		svc := service.NewLocationService(logger, repo, newStubCache())

		got, err := svc.ListDistricts(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, districts, got)

		// другой город — отдельный ключ кэша
		_, err = svc.ListDistricts(context.Background(), 4)
		require.NoError(t, err)

		_, err = svc.ListDistricts(context.Background(), 3)
		require.NoError(t, err)

		repo.AssertExpectations(t)
	})
}

func TestLocationService_WarmUpLocations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("fills the cities cache", func(t *testing.T) {
		repo := &mockLocationRepo{}
		repo.On("ListCities", mock.Anything).
			Return([]entities.City{{ID: 3, NameAlt: "Cairo"}}, nil).Once()

		cache := newStubCache()
		svc := service.NewLocationService(logger, repo, cache)

		require.NoError(t, svc.WarmUpLocations(context.Background()))

		_, ok := cache.Get("locations:cities")
		assert.True(t, ok)
	})

	t.Run("propagates db error", func(t *testing.T) {
		repo := &mockLocationRepo{}
		repo.On("ListCities", mock.Anything).Return(nil, errors.New("db is down")).Once()

		svc := service.NewLocationService(logger, repo, newStubCache())

		assert.Error(t, svc.WarmUpLocations(context.Background()))
	})
}
