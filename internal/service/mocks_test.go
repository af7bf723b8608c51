package service_test

import (
	"context"

	"github.com/whatsou/checkout-service/internal/entities"
	"github.com/whatsou/checkout-service/pkg/trm"

	"github.com/stretchr/testify/mock"
)

type mockStoreRepo struct{ mock.Mock }

func (m *mockStoreRepo) GetStore(ctx context.Context, storeID int64) (entities.Store, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(entities.Store), args.Error(1)
}

func (m *mockStoreRepo) UpdateStoreShipping(ctx context.Context, store entities.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

type mockLocationProvider struct{ mock.Mock }

func (m *mockLocationProvider) ListCities(ctx context.Context) ([]entities.City, error) {
	args := m.Called(ctx)
	cities, _ := args.Get(0).([]entities.City)
	return cities, args.Error(1)
}

func (m *mockLocationProvider) ListDistricts(ctx context.Context, cityID int64) ([]entities.District, error) {
	args := m.Called(ctx, cityID)
	districts, _ := args.Get(0).([]entities.District)
	return districts, args.Error(1)
}

type mockLocationRepo struct{ mock.Mock }

func (m *mockLocationRepo) ListCities(ctx context.Context) ([]entities.City, error) {
	args := m.Called(ctx)
	cities, _ := args.Get(0).([]entities.City)
	return cities, args.Error(1)
}

func (m *mockLocationRepo) ListDistrictsByCity(ctx context.Context, cityID int64) ([]entities.District, error) {
	args := m.Called(ctx, cityID)
	districts, _ := args.Get(0).([]entities.District)
	return districts, args.Error(1)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) SaveOrder(ctx context.Context, o entities.OrderRecord) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepo) SaveOrderItems(ctx context.Context, orderUID string, items []entities.CartItem) error {
	args := m.Called(ctx, orderUID, items)
	return args.Error(0)
}

func (m *mockOrderRepo) GetOrder(ctx context.Context, orderUID string) (entities.OrderRecord, error) {
	args := m.Called(ctx, orderUID)
	return args.Get(0).(entities.OrderRecord), args.Error(1)
}

func (m *mockOrderRepo) DecrementVariantStock(ctx context.Context, variantID int64, quantity int) error {
	args := m.Called(ctx, variantID, quantity)
	return args.Error(0)
}

func (m *mockOrderRepo) DecrementProductStock(ctx context.Context, productID int64, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

type mockCatalogRepo struct{ mock.Mock }

func (m *mockCatalogRepo) GetProduct(ctx context.Context, productID int64) (entities.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockCatalogRepo) ListVariants(ctx context.Context, productID int64) ([]entities.Variant, error) {
	args := m.Called(ctx, productID)
	variants, _ := args.Get(0).([]entities.Variant)
	return variants, args.Error(1)
}

func (m *mockCatalogRepo) InsertVariant(ctx context.Context, v entities.Variant) (entities.Variant, error) {
	args := m.Called(ctx, v)
	return args.Get(0).(entities.Variant), args.Error(1)
}

func (m *mockCatalogRepo) UpdateVariant(ctx context.Context, v entities.Variant) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *mockCatalogRepo) DeleteVariantsExcept(ctx context.Context, productID int64, keepIDs []int64) error {
	args := m.Called(ctx, productID, keepIDs)
	return args.Error(0)
}

// passthroughTx выполняет колбэк без настоящей транзакции.
type passthroughTx struct{}

func (passthroughTx) BeginTx(ctx context.Context) (context.Context, trm.Transaction, error) {
	return ctx, nil, nil
}

func (passthroughTx) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	return callback(ctx)
}

type stubCache struct {
	data map[string][]byte
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string][]byte)}
}

func (c *stubCache) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *stubCache) Set(key string, value []byte) {
	c.data[key] = value
}

// publisherStub складывает опубликованные записи в канал,
// чтобы тест мог дождаться фоновой публикации.
type publisherStub struct {
	published chan entities.OrderRecord
	err       error
}

func newPublisherStub() *publisherStub {
	return &publisherStub{published: make(chan entities.OrderRecord, 1)}
}

func (p *publisherStub) Publish(ctx context.Context, order entities.OrderRecord) error {
	p.published <- order
	return p.err
}
