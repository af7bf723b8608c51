package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

type OrderItem struct {
	ProductID       int64             `json:"product_id"`
	VariantID       *int64            `json:"variant_id,omitempty"`
	ProductName     string            `json:"product_name"`
	Quantity        int               `json:"quantity"`
	UnitPrice       decimal.Decimal   `json:"unit_price"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

type OrderRecord struct {
	OrderUID     string          `json:"order_uid"`
	StoreID      int64           `json:"store_id"`
	Customer     Customer        `json:"customer"`
	DeliveryType string          `json:"delivery_type"`
	CityID       *int64          `json:"city_id,omitempty"`
	DistrictID   *int64          `json:"district_id,omitempty"`
	Items        []OrderItem     `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingFee  decimal.Decimal `json:"shipping_fee"`
	FreeShipping bool            `json:"free_shipping"`
	Total        decimal.Decimal `json:"total"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

func generateRandomOrder() OrderRecord {
	price := decimal.NewFromInt(int64(rand.Intn(900) + 100))
	quantity := rand.Intn(3) + 1
	subtotal := price.Mul(decimal.NewFromInt(int64(quantity)))
	fee := decimal.NewFromInt(int64(rand.Intn(60)))
	cityID := int64(rand.Intn(20) + 1)

	return OrderRecord{
		OrderUID: uuid.NewString(),
		StoreID:  1,
		Customer: Customer{
			Name:    "John Doe",
			Phone:   fmt.Sprintf("+20%d", rand.Intn(999999999)),
			Address: fmt.Sprintf("Street %d", rand.Intn(100)),
		},
		DeliveryType: "delivery",
		CityID:       &cityID,
		Items: []OrderItem{
			{
				ProductID:   int64(rand.Intn(1000) + 1),
				ProductName: fmt.Sprintf("Product %d", rand.Intn(100)),
				Quantity:    quantity,
				UnitPrice:   price,
				SelectedOptions: map[string]string{
					"Size": []string{"S", "M", "L"}[rand.Intn(3)],
				},
			},
		},
		Subtotal:    subtotal,
		ShippingFee: fee,
		Total:       subtotal.Add(fee),
		CreatedAt:   time.Now().Format(time.RFC3339),
	}
}

func main() {
	addr := kafka.TCP("localhost:9092")

	writer := &kafka.Writer{
		Addr:  addr,
		Topic: "orders",
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	ticker := time.NewTicker(2 * time.Second)
	for {
		select {
		case <-ticker.C:
			order := generateRandomOrder()
			data, _ := json.Marshal(order)
			writer.WriteMessages(context.Background(), kafka.Message{Value: data})
			log.Println("order generated", order.OrderUID)
		case <-ctx.Done():
			return
		}
	}
}
