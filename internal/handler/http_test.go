package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/whatsou/checkout-service/internal/entities"
	"github.com/whatsou/checkout-service/internal/handler"
	"github.com/whatsou/checkout-service/internal/service"
	"github.com/whatsou/checkout-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCheckoutService struct{ mock.Mock }

func (m *mockCheckoutService) Quote(ctx context.Context, in service.QuoteInput) (service.Quote, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(service.Quote), args.Error(1)
}

func (m *mockCheckoutService) Dispatch(ctx context.Context, in service.DispatchInput) (service.DispatchResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(service.DispatchResult), args.Error(1)
}

func (m *mockCheckoutService) GetStore(ctx context.Context, storeID int64) (entities.Store, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(entities.Store), args.Error(1)
}

func (m *mockCheckoutService) UpdateShippingSettings(ctx context.Context, store entities.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

type mockLocationService struct{ mock.Mock }

func (m *mockLocationService) ListCities(ctx context.Context) ([]entities.City, error) {
	args := m.Called(ctx)
	cities, _ := args.Get(0).([]entities.City)
	return cities, args.Error(1)
}

func (m *mockLocationService) ListDistricts(ctx context.Context, cityID int64) ([]entities.District, error) {
	args := m.Called(ctx, cityID)
	districts, _ := args.Get(0).([]entities.District)
	return districts, args.Error(1)
}

type mockCatalogService struct{ mock.Mock }

func (m *mockCatalogService) RegenerateVariants(ctx context.Context, productID int64, options []entities.ProductOption) ([]entities.Variant, error) {
	args := m.Called(ctx, productID, options)
	variants, _ := args.Get(0).([]entities.Variant)
	return variants, args.Error(1)
}

type mockOrderService struct{ mock.Mock }

func (m *mockOrderService) GetOrder(ctx context.Context, orderUID string) (entities.OrderRecord, error) {
	args := m.Called(ctx, orderUID)
	return args.Get(0).(entities.OrderRecord), args.Error(1)
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func setupRouter(checkout *mockCheckoutService, locations *mockLocationService, catalog *mockCatalogService, orders *mockOrderService) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewHTTPHandler(logger, checkout, locations, catalog, orders)

	r := chi.NewRouter()
	h.Init(r)
	return r
}

const quoteBody = `{
	"store_id": 1,
	"delivery_type": "delivery",
	"city_id": 3,
	"items": [
		{"product_id": 10, "product_name": "Baklava box", "quantity": 2, "unit_price": "125"}
	]
}`

func TestHTTPHandler_Quote(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		checkout := &mockCheckoutService{}
		checkout.On("Quote", mock.Anything, mock.MatchedBy(func(in service.QuoteInput) bool {
			return in.StoreID == 1 &&
				in.DeliveryType == entities.DeliveryTypeDelivery &&
				len(in.Items) == 1 &&
				in.CityID != nil && *in.CityID == 3
		})).Return(service.Quote{
			Currency: "EGP",
			Subtotal: dec("250"),
			Shipping: entities.ShippingResult{Fee: dec("30")},
			Total:    dec("280"),
			FreeShipping: service.FreeShippingProgress{
				Eligible:  true,
				Remaining: dec("50"),
			},
		}, nil).Once()

		r := setupRouter(checkout, &mockLocationService{}, &mockCatalogService{}, &mockOrderService{})

		req := httptest.NewRequest(http.MethodPost, "/checkout/quote", strings.NewReader(quoteBody))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var res handler.QuoteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "EGP", res.Currency)
		assert.True(t, res.Subtotal.Equal(dec("250")))
		assert.True(t, res.ShippingFee.Equal(dec("30")))
		assert.True(t, res.Total.Equal(dec("280")))
		assert.True(t, res.FreeShippingAvailable)
		assert.True(t, res.RemainingToFree.Equal(dec("50")))
		checkout.AssertExpectations(t)
	})

	t.Run("validation error on empty cart", func(t *testing.T) {
		r := setupRouter(&mockCheckoutService{}, &mockLocationService{}, &mockCatalogService{}, &mockOrderService{})

		body := `{"store_id": 1, "delivery_type": "delivery", "items": []}`
		req := httptest.NewRequest(http.MethodPost, "/checkout/quote", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var res utils.ValidationErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Contains(t, res.Fields, "Items")
	})

	t.Run("unknown delivery type fails validation", func(t *testing.T) {
		r := setupRouter(&mockCheckoutService{}, &mockLocationService{}, &mockCatalogService{}, &mockOrderService{})

		body := strings.Replace(quoteBody, `"delivery"`, `"teleport"`, 1)
		req := httptest.NewRequest(http.MethodPost, "/checkout/quote", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store not found", func(t *testing.T) {
		checkout := &mockCheckoutService{}
		checkout.On("Quote", mock.Anything, mock.Anything).
			Return(service.Quote{}, entities.ErrStoreNotFound).Once()

		r := setupRouter(checkout, &mockLocationService{}, &mockCatalogService{}, &mockOrderService{})

		req := httptest.NewRequest(http.MethodPost, "/checkout/quote", strings.NewReader(quoteBody))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Dispatch(t *testing.T) {
	dispatchBody := `{
		"store_id": 1,
		"delivery_type": "delivery",
		"city_id": 3,
		"items": [
			{"product_id": 10, "product_name": "Baklava box", "quantity": 2, "unit_price": "125"}
		],
		"customer_name": "Sara",
		"customer_phone": "+201112223334",
		"customer_address": "12 Makram Ebeid St"
	}`

	t.Run("success", func(t *testing.T) {
		checkout := &mockCheckoutService{}
		checkout.On("Dispatch", mock.Anything, mock.MatchedBy(func(in service.DispatchInput) bool {
			return in.Customer.Name == "Sara" && in.Customer.Address != ""
		})).Return(service.DispatchResult{
			OrderUID:    "uid-1",
			Message:     "New order",
			WhatsAppURL: "https://wa.me/201001234567?text=New%20order",
			Total:       dec("280"),
		}, nil).Once()

		r := setupRouter(checkout, &mockLocationService{}, &mockCatalogService{}, &mockOrderService{})

		req := httptest.NewRequest(http.MethodPost, "/checkout/dispatch", strings.NewReader(dispatchBody))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var res handler.DispatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "uid-1", res.OrderUID)
		assert.Equal(t, "https://wa.me/201001234567?text=New%20order", res.WhatsAppURL)
		assert.True(t, res.Total.Equal(dec("280")))
		checkout.AssertExpectations(t)
	})

	t.Run("delivery requires address", func(t *testing.T) {
		r := setupRouter(&mockCheckoutService{}, &mockLocationService{}, &mockCatalogService{}, &mockOrderService{})

		body := strings.Replace(dispatchBody, `"12 Makram Ebeid St"`, `""`, 1)
		req := httptest.NewRequest(http.MethodPost, "/checkout/dispatch", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var res utils.ValidationErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Contains(t, res.Fields, "CustomerAddress")
	})

	t.Run("pickup without address is fine", func(t *testing.T) {
		checkout := &mockCheckoutService{}
		checkout.On("Dispatch", mock.Anything, mock.Anything).
			Return(service.DispatchResult{OrderUID: "uid-2"}, nil).Once()

		r := setupRouter(checkout, &mockLocationService{}, &mockCatalogService{}, &mockOrderService{})

		body := strings.Replace(dispatchBody, `"delivery"`, `"pickup"`, 1)
		body = strings.Replace(body, `"12 Makram Ebeid St"`, `""`, 1)
		req := httptest.NewRequest(http.MethodPost, "/checkout/dispatch", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHTTPHandler_Locations(t *testing.T) {
	t.Run("list cities", func(t *testing.T) {
		locations := &mockLocationService{}
		locations.On("ListCities", mock.Anything).Return([]entities.City{
			{ID: 3, NameLocal: "القاهرة", NameAlt: "Cairo"},
		}, nil).Once()

		r := setupRouter(&mockCheckoutService{}, locations, &mockCatalogService{}, &mockOrderService{})

		req := httptest.NewRequest(http.MethodGet, "/locations/cities", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var res []handler.City
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Len(t, res, 1)
		assert.Equal(t, "Cairo", res[0].NameAlt)
	})

	t.Run("list districts", func(t *testing.T) {
		locations := &mockLocationService{}
		locations.On("ListDistricts", mock.Anything, int64(3)).Return([]entities.District{
			{ID: 12, CityID: 3, NameLocal: "مدينة نصر", NameAlt: "Nasr City"},
		}, nil).Once()

		r := setupRouter(&mockCheckoutService{}, locations, &mockCatalogService{}, &mockOrderService{})

		req := httptest.NewRequest(http.MethodGet, "/locations/cities/3/districts", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var res []handler.District
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Len(t, res, 1)
		assert.Equal(t, int64(12), res[0].ID)
	})

	t.Run("invalid city id", func(t *testing.T) {
		r := setupRouter(&mockCheckoutService{}, &mockLocationService{}, &mockCatalogService{}, &mockOrderService{})

		req := httptest.NewRequest(http.MethodGet, "/locations/cities/abc/districts", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Stores(t *testing.T) {
	t.Run("get store", func(t *testing.T) {
		threshold := dec("300")
		checkout := &mockCheckoutService{}
		checkout.On("GetStore", mock.Anything, int64(1)).Return(entities.Store{
			ID:       1,
			Name:     "Nour Sweets",
			Currency: "EGP",
			ShippingConfig: entities.ShippingConfig{
				Type:  entities.ShippingNationwide,
				Price: dec("30"),
			},
			FreeShippingThreshold: &threshold,
			AllowDelivery:         true,
		}, nil).Once()

		r := setupRouter(checkout, &mockLocationService{}, &mockCatalogService{}, &mockOrderService{})

		req := httptest.NewRequest(http.MethodGet, "/stores/1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var res handler.StoreResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "nationwide", res.ShippingConfig.Type)
		require.NotNil(t, res.FreeShippingThreshold)
		assert.True(t, res.FreeShippingThreshold.Equal(dec("300")))
	})

	t.Run("get store not found", func(t *testing.T) {
		checkout := &mockCheckoutService{}
		checkout.On("GetStore", mock.Anything, int64(404)).
			Return(entities.Store{}, entities.ErrStoreNotFound).Once()

		r := setupRouter(checkout, &mockLocationService{}, &mockCatalogService{}, &mockOrderService{})

		req := httptest.NewRequest(http.MethodGet, "/stores/404", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update shipping settings", func(t *testing.T) {
		checkout := &mockCheckoutService{}
		checkout.On("UpdateShippingSettings", mock.Anything, mock.MatchedBy(func(s entities.Store) bool {
			return s.ID == 1 &&
				s.ShippingConfig.Type == entities.ShippingByCity &&
				s.ShippingConfig.CityRates[3].Equal(dec("50")) &&
				s.AllowDelivery
		})).Return(nil).Once()

		r := setupRouter(checkout, &mockLocationService{}, &mockCatalogService{}, &mockOrderService{})

		body := `{
			"shipping_config": {"type": "by_city", "city_rates": {"3": "50"}},
			"allow_delivery": true
		}`
		req := httptest.NewRequest(http.MethodPut, "/stores/1/shipping", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		checkout.AssertExpectations(t)
	})

	t.Run("update shipping rejects unknown scheme", func(t *testing.T) {
		r := setupRouter(&mockCheckoutService{}, &mockLocationService{}, &mockCatalogService{}, &mockOrderService{})

		body := `{"shipping_config": {"type": "weight_based"}, "allow_delivery": true}`
		req := httptest.NewRequest(http.MethodPut, "/stores/1/shipping", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_GetOrder(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		orders := &mockOrderService{}
		orders.On("GetOrder", mock.Anything, "uid-1").Return(entities.OrderRecord{
			OrderUID:     "uid-1",
			StoreID:      1,
			Customer:     entities.Customer{Name: "Sara", Phone: "+201112223334"},
			DeliveryType: entities.DeliveryTypePickup,
			Items: []entities.CartItem{
				{ProductID: 10, ProductName: "Baklava box", Quantity: 2, UnitPrice: dec("125")},
			},
			Subtotal: dec("250"),
			Total:    dec("250"),
		}, nil).Once()

		r := setupRouter(&mockCheckoutService{}, &mockLocationService{}, &mockCatalogService{}, orders)

		req := httptest.NewRequest(http.MethodGet, "/orders/uid-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var res handler.OrderRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "uid-1", res.OrderUID)
		assert.Equal(t, "pickup", res.DeliveryType)
		require.Len(t, res.Items, 1)
		assert.True(t, res.Total.Equal(dec("250")))
	})

	t.Run("not found", func(t *testing.T) {
		orders := &mockOrderService{}
		orders.On("GetOrder", mock.Anything, "missing").
			Return(entities.OrderRecord{}, entities.ErrOrderNotFound).Once()

		r := setupRouter(&mockCheckoutService{}, &mockLocationService{}, &mockCatalogService{}, orders)

		req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_RegenerateVariants(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		catalog := &mockCatalogService{}
		catalog.On("RegenerateVariants", mock.Anything, int64(1), []entities.ProductOption{
			{Name: "Size", Values: []string{"S", "M"}},
		}).Return([]entities.Variant{
			{ID: 7, ProductID: 1, OptionValues: map[string]string{"Size": "S"}, Price: dec("120")},
			{ID: 10, ProductID: 1, OptionValues: map[string]string{"Size": "M"}, Price: dec("100")},
		}, nil).Once()

		r := setupRouter(&mockCheckoutService{}, &mockLocationService{}, catalog, &mockOrderService{})

		body := `{"options": [{"name": "Size", "values": ["S", "M"]}]}`
		req := httptest.NewRequest(http.MethodPost, "/products/1/variants/regenerate", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var res []handler.Variant
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Len(t, res, 2)
		assert.Equal(t, map[string]string{"Size": "M"}, res[1].OptionValues)
	})

	t.Run("product not found", func(t *testing.T) {
		catalog := &mockCatalogService{}
		catalog.On("RegenerateVariants", mock.Anything, int64(404), mock.Anything).
			Return(nil, entities.ErrProductNotFound).Once()

		r := setupRouter(&mockCheckoutService{}, &mockLocationService{}, catalog, &mockOrderService{})

		body := `{"options": [{"name": "Size", "values": ["S"]}]}`
		req := httptest.NewRequest(http.MethodPost, "/products/404/variants/regenerate", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
