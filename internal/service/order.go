package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/whatsou/checkout-service/internal/entities"
	"github.com/whatsou/checkout-service/pkg/trm"
	"github.com/whatsou/checkout-service/pkg/utils"
)

type OrderRepo interface {
	// Операции идемпотентны, т.к. используется ON CONFLICT DO NOTHING
	SaveOrder(ctx context.Context, o entities.OrderRecord) error
	SaveOrderItems(ctx context.Context, orderUID string, items []entities.CartItem) error
	GetOrder(ctx context.Context, orderUID string) (entities.OrderRecord, error)

	DecrementVariantStock(ctx context.Context, variantID int64, quantity int) error
	DecrementProductStock(ctx context.Context, productID int64, quantity int) error
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	cache     Cache
}

func NewOrderService(logger *slog.Logger, txManager trm.Manager, repo OrderRepo, cache Cache) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		cache:     cache,
	}
}

// SaveOrder сохраняет запись заказа и его позиции в одной транзакции
// с ретраями, после чего списывает остатки. Списания идут вне транзакции:
// каждое независимо, неудача логируется и не откатывает ни заказ,
// ни соседние списания.
func (s *orderService) SaveOrder(ctx context.Context, order entities.OrderRecord) error {
	fn := func() error {
		return s.txManager.Do(ctx, func(ctx context.Context) error {
			if err := s.repo.SaveOrder(ctx, order); err != nil {
				return fmt.Errorf("failed to save order: %w", err)
			}
			if err := s.repo.SaveOrderItems(ctx, order.OrderUID, order.Items); err != nil {
				return fmt.Errorf("failed to save order items: %w", err)
			}

			s.logger.Debug("order saved", "order_uid", order.OrderUID)
			return nil
		})
	}

	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  5,
		Multiplier:   2,
	}

	if err := utils.Retry(cfg, fn); err != nil {
		return err
	}

	s.decrementStock(ctx, order)
	s.cacheOrder(order)
	return nil
}

func orderCacheKey(orderUID string) string {
	return fmt.Sprintf("orders:%s", orderUID)
}

func (s *orderService) GetOrder(ctx context.Context, orderUID string) (entities.OrderRecord, error) {
	if data, ok := s.cache.Get(orderCacheKey(orderUID)); ok {
		var order entities.OrderRecord
		if err := order.Unmarshal(data); err == nil {
			return order, nil
		}
		s.logger.Warn("failed to unmarshal cached order, falling back to db",
			slog.String("order_uid", orderUID))
	}

	order, err := s.repo.GetOrder(ctx, orderUID)
	if err != nil {
		return entities.OrderRecord{}, err
	}

	s.cacheOrder(order)
	return order, nil
}

func (s *orderService) cacheOrder(order entities.OrderRecord) {
	if data, err := order.Marshal(); err == nil {
		s.cache.Set(orderCacheKey(order.OrderUID), data)
	}
}

func (s *orderService) decrementStock(ctx context.Context, order entities.OrderRecord) {
	for _, item := range order.Items {
		var err error
		if item.VariantID != nil {
			err = s.repo.DecrementVariantStock(ctx, *item.VariantID, item.Quantity)
		} else {
			err = s.repo.DecrementProductStock(ctx, item.ProductID, item.Quantity)
		}

		if err != nil {
			s.logger.Error("failed to decrement stock",
				slog.String("order_uid", order.OrderUID),
				slog.Int64("product_id", item.ProductID),
				slog.Any("error", err),
			)
		}
	}
}
