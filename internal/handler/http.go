package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/whatsou/checkout-service/internal/entities"
	"github.com/whatsou/checkout-service/internal/service"
	"github.com/whatsou/checkout-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type CheckoutService interface {
	Quote(ctx context.Context, in service.QuoteInput) (service.Quote, error)
	Dispatch(ctx context.Context, in service.DispatchInput) (service.DispatchResult, error)
	GetStore(ctx context.Context, storeID int64) (entities.Store, error)
	UpdateShippingSettings(ctx context.Context, store entities.Store) error
}

type LocationService interface {
	ListCities(ctx context.Context) ([]entities.City, error)
	ListDistricts(ctx context.Context, cityID int64) ([]entities.District, error)
}

type CatalogService interface {
	RegenerateVariants(ctx context.Context, productID int64, options []entities.ProductOption) ([]entities.Variant, error)
}

type OrderService interface {
	GetOrder(ctx context.Context, orderUID string) (entities.OrderRecord, error)
}

type HTTPHandler struct {
	logger    *slog.Logger
	validate  *validator.Validate
	checkout  CheckoutService
	locations LocationService
	catalog   CatalogService
	orders    OrderService
}

func NewHTTPHandler(logger *slog.Logger, checkout CheckoutService, locations LocationService, catalog CatalogService, orders OrderService) *HTTPHandler {
	return &HTTPHandler{
		logger:    logger.With(slog.String("handler", "http")),
		validate:  validator.New(),
		checkout:  checkout,
		locations: locations,
		catalog:   catalog,
		orders:    orders,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Post("/checkout/quote", h.Quote)
	r.Post("/checkout/dispatch", h.Dispatch)

	r.Get("/locations/cities", h.ListCities)
	r.Get("/locations/cities/{city_id}/districts", h.ListDistricts)

	r.Get("/stores/{store_id}", h.GetStore)
	r.Put("/stores/{store_id}/shipping", h.UpdateShipping)

	r.Get("/orders/{order_uid}", h.GetOrder)

	r.Post("/products/{product_id}/variants/regenerate", h.RegenerateVariants)
}

// Quote считает суммы корзины.
// @Summary      Расчёт корзины
// @Description  Подытог, стоимость доставки и итог для текущего состояния корзины
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body QuoteRequest true "Корзина и адрес"
// @Success      200  {object}  QuoteResponse
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      404  {object}  utils.ErrorResponse "Магазин не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /checkout/quote [post]
func (h *HTTPHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req QuoteRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	quote, err := h.checkout.Quote(ctx, service.QuoteInput{
		StoreID:      req.StoreID,
		Items:        ItemsJSONToEntities(req.Items),
		DeliveryType: entities.DeliveryType(req.DeliveryType),
		CityID:       req.CityID,
		DistrictID:   req.DistrictID,
	})
	if err != nil {
		h.writeCheckoutError(ctx, w, err, "failed to quote cart")
		return
	}

	utils.WriteJSON(w, QuoteToJSON(quote), http.StatusOK)
}

// Dispatch оформляет заказ.
// @Summary      Оформление заказа
// @Description  Собирает текст заказа и возвращает deep link WhatsApp; запись заказа уходит в фон
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body DispatchRequest true "Корзина, покупатель и адрес"
// @Success      200  {object}  DispatchResponse
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      404  {object}  utils.ErrorResponse "Магазин не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /checkout/dispatch [post]
func (h *HTTPHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DispatchRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	result, err := h.checkout.Dispatch(ctx, service.DispatchInput{
		QuoteInput: service.QuoteInput{
			StoreID:      req.StoreID,
			Items:        ItemsJSONToEntities(req.Items),
			DeliveryType: entities.DeliveryType(req.DeliveryType),
			CityID:       req.CityID,
			DistrictID:   req.DistrictID,
		},
		Customer: entities.Customer{
			Name:    req.CustomerName,
			Phone:   req.CustomerPhone,
			Address: req.CustomerAddress,
		},
		Notes: req.Notes,
	})
	if err != nil {
		h.writeCheckoutError(ctx, w, err, "failed to dispatch order")
		return
	}

	ordersDispatched.Inc()

	utils.WriteJSON(w, DispatchResponse{
		OrderUID:    result.OrderUID,
		WhatsAppURL: result.WhatsAppURL,
		Message:     result.Message,
		Total:       result.Total,
	}, http.StatusOK)
}

// ListCities возвращает справочник городов.
// @Summary      Города
// @Description  Города доставки, отсортированные по локальному имени
// @Tags         locations
// @Produce      json
// @Success      200  {array}   City
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /locations/cities [get]
func (h *HTTPHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cities, err := h.locations.ListCities(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list cities", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	result := make([]City, 0, len(cities))
	for _, c := range cities {
		result = append(result, CityEntityToJSON(c))
	}
	utils.WriteJSON(w, result, http.StatusOK)
}

// ListDistricts возвращает районы города.
// @Summary      Районы города
// @Tags         locations
// @Produce      json
// @Param        city_id  path  int  true  "Идентификатор города"
// @Success      200  {array}   District
// @Failure      400  {object}  utils.ErrorResponse "Невалидный идентификатор"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /locations/cities/{city_id}/districts [get]
func (h *HTTPHandler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cityID, err := strconv.ParseInt(chi.URLParam(r, "city_id"), 10, 64)
	if err != nil {
		utils.WriteError(w, "invalid city id", http.StatusBadRequest)
		return
	}

	districts, err := h.locations.ListDistricts(ctx, cityID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list districts", slog.Any("error", err), slog.Int64("city_id", cityID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	result := make([]District, 0, len(districts))
	for _, d := range districts {
		result = append(result, DistrictEntityToJSON(d))
	}
	utils.WriteJSON(w, result, http.StatusOK)
}

// GetStore возвращает настройки магазина.
// @Summary      Настройки магазина
// @Tags         stores
// @Produce      json
// @Param        store_id  path  int  true  "Идентификатор магазина"
// @Success      200  {object}  StoreResponse
// @Failure      404  {object}  utils.ErrorResponse "Магазин не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /stores/{store_id} [get]
func (h *HTTPHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := strconv.ParseInt(chi.URLParam(r, "store_id"), 10, 64)
	if err != nil {
		utils.WriteError(w, "invalid store id", http.StatusBadRequest)
		return
	}

	store, err := h.checkout.GetStore(ctx, storeID)
	if errors.Is(err, entities.ErrStoreNotFound) {
		utils.WriteError(w, "store not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get store", slog.Any("error", err), slog.Int64("store_id", storeID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, StoreEntityToJSON(store), http.StatusOK)
}

// UpdateShipping обновляет настройки доставки.
// @Summary      Обновить настройки доставки
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        store_id  path  int  true  "Идентификатор магазина"
// @Param        request body ShippingSettingsRequest true "Тарифная схема и флаги"
// @Success      204  "Сохранено"
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      404  {object}  utils.ErrorResponse "Магазин не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /stores/{store_id}/shipping [put]
func (h *HTTPHandler) UpdateShipping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := strconv.ParseInt(chi.URLParam(r, "store_id"), 10, 64)
	if err != nil {
		utils.WriteError(w, "invalid store id", http.StatusBadRequest)
		return
	}

	var req ShippingSettingsRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	err = h.checkout.UpdateShippingSettings(ctx, entities.Store{
		ID:                    storeID,
		ShippingConfig:        ShippingConfigJSONToEntity(req.ShippingConfig),
		FreeShippingThreshold: req.FreeShippingThreshold,
		AllowDelivery:         req.AllowDelivery,
		AllowPickup:           req.AllowPickup,
	})
	if errors.Is(err, entities.ErrStoreNotFound) {
		utils.WriteError(w, "store not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, entities.ErrNoFulfillmentWay) || errors.Is(err, entities.ErrInvalidShippingConfig) {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update shipping settings", slog.Any("error", err), slog.Int64("store_id", storeID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetOrder возвращает сохранённый заказ.
// @Summary      Заказ по идентификатору
// @Tags         orders
// @Produce      json
// @Param        order_uid  path  string  true  "Идентификатор заказа"
// @Success      200  {object}  OrderRecord
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /orders/{order_uid} [get]
func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderUID := chi.URLParam(r, "order_uid")

	order, err := h.orders.GetOrder(ctx, orderUID)
	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get order", slog.Any("error", err), slog.String("order_uid", orderUID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// RegenerateVariants пересобирает варианты товара.
// @Summary      Перегенерация вариантов
// @Description  Декартово произведение значений опций; существующие комбинации сохраняют цену и остаток
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        product_id  path  int  true  "Идентификатор товара"
// @Param        request body RegenerateVariantsRequest true "Опции товара"
// @Success      200  {array}   Variant
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      404  {object}  utils.ErrorResponse "Товар не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /products/{product_id}/variants/regenerate [post]
func (h *HTTPHandler) RegenerateVariants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil {
		utils.WriteError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var req RegenerateVariantsRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	options := make([]entities.ProductOption, 0, len(req.Options))
	for _, opt := range req.Options {
		options = append(options, OptionJSONToEntity(opt))
	}

	variants, err := h.catalog.RegenerateVariants(ctx, productID, options)
	if errors.Is(err, entities.ErrProductNotFound) {
		utils.WriteError(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to regenerate variants", slog.Any("error", err), slog.Int64("product_id", productID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	result := make([]Variant, 0, len(variants))
	for _, v := range variants {
		result = append(result, VariantEntityToJSON(v))
	}
	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *HTTPHandler) writeCheckoutError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, entities.ErrStoreNotFound):
		utils.WriteError(w, "store not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrEmptyCart),
		errors.Is(err, entities.ErrFulfillmentNotAllowed):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(ctx, msg, slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
