package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/whatsou/checkout-service/internal/config"
	"github.com/whatsou/checkout-service/internal/entities"

	"github.com/segmentio/kafka-go"
)

// orderPublisher — точка передачи заказа из чекаута в фоновую
// персистентность. Запись best effort: у писателя свои ретраи,
// дальше неудача остаётся за логом вызывающего.
type orderPublisher struct {
	writer *kafka.Writer
}

func NewOrderPublisher(cfg config.Kafka) *orderPublisher {
	return &orderPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

func (p *orderPublisher) Publish(ctx context.Context, order entities.OrderRecord) error {
	data, err := json.Marshal(OrderEntityToJSON(order))
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.OrderUID),
		Value: data,
	})
}

func (p *orderPublisher) Close() error {
	return p.writer.Close()
}
