package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/whatsou/checkout-service/internal/entities"
	"github.com/whatsou/checkout-service/internal/wa"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StoreRepo interface {
	GetStore(ctx context.Context, storeID int64) (entities.Store, error)
	UpdateStoreShipping(ctx context.Context, store entities.Store) error
}

type LocationProvider interface {
	ListCities(ctx context.Context) ([]entities.City, error)
	ListDistricts(ctx context.Context, cityID int64) ([]entities.District, error)
}

type OrderPublisher interface {
	Publish(ctx context.Context, order entities.OrderRecord) error
}

type checkoutService struct {
	logger    *slog.Logger
	stores    StoreRepo
	locations LocationProvider
	publisher OrderPublisher
}

func NewCheckoutService(logger *slog.Logger, stores StoreRepo, locations LocationProvider, publisher OrderPublisher) *checkoutService {
	return &checkoutService{
		logger:    logger.With(slog.String("service", "checkout")),
		stores:    stores,
		locations: locations,
		publisher: publisher,
	}
}

type QuoteInput struct {
	StoreID      int64
	Items        []entities.CartItem
	DeliveryType entities.DeliveryType
	CityID       *int64
	DistrictID   *int64
}

type Quote struct {
	Currency     string
	Subtotal     decimal.Decimal
	Shipping     entities.ShippingResult
	Total        decimal.Decimal
	FreeShipping FreeShippingProgress
}

func (s *checkoutService) Quote(ctx context.Context, in QuoteInput) (Quote, error) {
	store, err := s.stores.GetStore(ctx, in.StoreID)
	if err != nil {
		return Quote{}, err
	}

	if err := checkFulfillment(store, in.DeliveryType); err != nil {
		return Quote{}, err
	}

	subtotal := Subtotal(in.Items)
	shipping := ResolveShipping(store.ShippingConfig, ShippingQuery{
		DeliveryType:  in.DeliveryType,
		Subtotal:      subtotal,
		FreeThreshold: store.FreeShippingThreshold,
		CityID:        in.CityID,
		DistrictID:    in.DistrictID,
	})

	return Quote{
		Currency:     store.Currency,
		Subtotal:     subtotal,
		Shipping:     shipping,
		Total:        Total(subtotal, shipping),
		FreeShipping: ProgressToFreeShipping(subtotal, store.FreeShippingThreshold),
	}, nil
}

type DispatchInput struct {
	QuoteInput
	Customer entities.Customer
	Notes    string
}

type DispatchResult struct {
	OrderUID    string
	Message     string
	WhatsAppURL string
	Total       decimal.Decimal
}

// Dispatch — единственная операция со строгим порядком шагов:
// собрать текст заказа, вернуть вызывающему deep link и только потом,
// не блокируя ответ, отдать запись заказа в кафку. Неудачная публикация
// логируется и не влияет на видимый пользователю результат.
func (s *checkoutService) Dispatch(ctx context.Context, in DispatchInput) (DispatchResult, error) {
	if len(in.Items) == 0 {
		return DispatchResult{}, entities.ErrEmptyCart
	}

	store, err := s.stores.GetStore(ctx, in.StoreID)
	if err != nil {
		return DispatchResult{}, err
	}

	if err := checkFulfillment(store, in.DeliveryType); err != nil {
		return DispatchResult{}, err
	}

	subtotal := Subtotal(in.Items)
	shipping := ResolveShipping(store.ShippingConfig, ShippingQuery{
		DeliveryType:  in.DeliveryType,
		Subtotal:      subtotal,
		FreeThreshold: store.FreeShippingThreshold,
		CityID:        in.CityID,
		DistrictID:    in.DistrictID,
	})

	record := entities.OrderRecord{
		OrderUID:     uuid.NewString(),
		StoreID:      store.ID,
		Customer:     in.Customer,
		DeliveryType: in.DeliveryType,
		CityID:       in.CityID,
		DistrictID:   in.DistrictID,
		Items:        in.Items,
		Subtotal:     subtotal,
		ShippingFee:  shipping.Fee,
		FreeShipping: shipping.IsFree,
		Total:        Total(subtotal, shipping),
		Notes:        in.Notes,
		CreatedAt:    time.Now().UTC(),
	}

	cityName, districtName := s.locationNames(ctx, in.CityID, in.DistrictID)

	message := wa.Compose(wa.MessageData{
		StoreName:    store.Name,
		Currency:     store.Currency,
		Order:        record,
		CityName:     cityName,
		DistrictName: districtName,
	})

	go s.publish(record)

	return DispatchResult{
		OrderUID:    record.OrderUID,
		Message:     message,
		WhatsAppURL: wa.Link(store.WhatsAppPhone, message),
		Total:       record.Total,
	}, nil
}

func (s *checkoutService) UpdateShippingSettings(ctx context.Context, store entities.Store) error {
	if err := store.ValidateSettings(); err != nil {
		return err
	}
	return s.stores.UpdateStoreShipping(ctx, store)
}

func (s *checkoutService) GetStore(ctx context.Context, storeID int64) (entities.Store, error) {
	return s.stores.GetStore(ctx, storeID)
}

// publish выполняется в отдельной горутине: ответ на dispatch уже отдан,
// контекст запроса к этому моменту мог быть отменён.
func (s *checkoutService) publish(record entities.OrderRecord) {
	if err := s.publisher.Publish(context.Background(), record); err != nil {
		s.logger.Error("failed to publish order",
			slog.String("order_uid", record.OrderUID),
			slog.Any("error", err),
		)
		return
	}
	s.logger.Debug("order published", slog.String("order_uid", record.OrderUID))
}

// Имена города и района нужны только для текста сообщения:
// промах по справочнику деградирует до пустой строки, а не ошибки.
func (s *checkoutService) locationNames(ctx context.Context, cityID, districtID *int64) (string, string) {
	if cityID == nil {
		return "", ""
	}

	var cityName string
	cities, err := s.locations.ListCities(ctx)
	if err != nil {
		s.logger.Warn("failed to list cities for order message", slog.Any("error", err))
		return "", ""
	}
	for _, c := range cities {
		if c.ID == *cityID {
			cityName = c.NameLocal
			break
		}
	}

	if districtID == nil {
		return cityName, ""
	}

	districts, err := s.locations.ListDistricts(ctx, *cityID)
	if err != nil {
		s.logger.Warn("failed to list districts for order message", slog.Any("error", err))
		return cityName, ""
	}
	for _, d := range districts {
		if d.ID == *districtID {
			return cityName, d.NameLocal
		}
	}
	return cityName, ""
}

func checkFulfillment(store entities.Store, dt entities.DeliveryType) error {
	switch dt {
	case entities.DeliveryTypeDelivery:
		if !store.AllowDelivery {
			return fmt.Errorf("%w: delivery disabled", entities.ErrFulfillmentNotAllowed)
		}
	case entities.DeliveryTypePickup:
		if !store.AllowPickup {
			return fmt.Errorf("%w: pickup disabled", entities.ErrFulfillmentNotAllowed)
		}
	default:
		return fmt.Errorf("%w: unknown delivery type %q", entities.ErrFulfillmentNotAllowed, dt)
	}
	return nil
}
